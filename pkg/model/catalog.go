package model

// SeedCatalog is the static product list used to seed the store at first
// boot. Prices are size-based, not per product, so the catalog carries only
// display data and ingredients.
func SeedCatalog() []Product {
	return []Product{
		{
			ID:          "lemon-ginger",
			Name:        "Lemon Ginger Shot",
			Description: "A classic immune booster to kickstart your day with a zesty punch.",
			ImageColor:  "#FBBF24",
			Ingredients: []string{"Oranges", "Lemons", "Ginger", "Turmeric", "Turkey Tail Extract", "Black Pepper", "Water/Coconut Water"},
			YoutubeID:   "vXbFEIrTpg8",
			VideoStart:  41,
			VideoEnd:    145,
			Available:   true,
		},
		{
			ID:          "berry-beet",
			Name:        "Berry Beet Energy Shot",
			Description: "A vibrant, earthy shot designed to enhance energy and stamina.",
			ImageColor:  "#BE185D",
			Ingredients: []string{"Strawberries", "Orange", "Lemon", "Beets", "Ashwagandha Extract", "Water/Coconut Water"},
			YoutubeID:   "vXbFEIrTpg8",
			VideoStart:  145,
			VideoEnd:    249,
			Available:   true,
		},
		{
			ID:          "pineapple-mint",
			Name:        "Pineapple Mint Coconut Shot",
			Description: "A refreshing tropical blend that aids digestion and soothes the senses.",
			ImageColor:  "#FCD34D",
			Ingredients: []string{"Pineapple", "Lemon", "Ginger Root", "Fresh Mint Leaves", "Water/Coconut Water"},
			YoutubeID:   "vXbFEIrTpg8",
			VideoStart:  249,
			VideoEnd:    349,
			Available:   true,
		},
		{
			ID:          "mixed-berry",
			Name:        "Mixed Berry Antioxidant Shot",
			Description: "Packed with antioxidants to fight free radicals and support overall health.",
			ImageColor:  "#4F46E5",
			Ingredients: []string{"Blueberries", "Cucumber", "Lemon", "Ginger Root", "Black Elderberry Extract"},
			YoutubeID:   "vXbFEIrTpg8",
			VideoStart:  349,
			VideoEnd:    443,
			Available:   true,
		},
		{
			ID:          "carrot-apple",
			Name:        "Carrot Apple Turmeric Shot",
			Description: "A sweet and spicy combination rich in vitamins and anti-inflammatory properties.",
			ImageColor:  "#F97316",
			Ingredients: []string{"Apple", "Carrots", "Ginger Root", "Turmeric", "Black Pepper", "Water/Coconut Water"},
			YoutubeID:   "vXbFEIrTpg8",
			VideoStart:  443,
			VideoEnd:    534,
			Available:   true,
		},
		{
			ID:          "everything-green",
			Name:        "Everything Green Mineral Shot",
			Description: "A potent dose of greens to mineralize your body and boost vitality.",
			ImageColor:  "#16A34A",
			Ingredients: []string{"Cucumbers", "Celery", "Green Apple", "Parsley", "Spinach", "Matcha Powder", "Water"},
			YoutubeID:   "vXbFEIrTpg8",
			VideoStart:  534,
			VideoEnd:    641,
			Available:   true,
		},
	}
}
