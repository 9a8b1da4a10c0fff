package model

import "strings"

// Product is one catalog entry. Products are seeded once at first boot and
// only their availability gate is ever mutated.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageColor  string   `json:"imageColor"`
	Ingredients []string `json:"ingredients"`
	YoutubeID   string   `json:"youtubeId,omitempty"`
	VideoStart  int      `json:"videoStart,omitempty"`
	VideoEnd    int      `json:"videoEnd,omitempty"`
	Available   bool     `json:"available"`
}

const optionalTag = "(optional)"

// IsOptionalIngredient reports whether the raw ingredient string carries the
// storefront's optional-ingredient tag.
func IsOptionalIngredient(ingredient string) bool {
	return strings.Contains(strings.ToLower(ingredient), optionalTag)
}

// OptionalIngredients returns the subset of the product's ingredients that
// customers may opt into.
func (p Product) OptionalIngredients() []string {
	var out []string
	for _, ing := range p.Ingredients {
		if IsOptionalIngredient(ing) {
			out = append(out, ing)
		}
	}
	return out
}

// Clone returns a deep copy safe to hand out of the store.
func (p Product) Clone() Product {
	out := p
	out.Ingredients = append([]string(nil), p.Ingredients...)
	return out
}
