// Package views derives the admin reporting projections from an order and
// product snapshot. Every view is a pure function recomputed on demand;
// nothing here caches or maintains incremental state.
package views

import (
	"sort"

	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// ProductionLine is the per-size unit demand for one product name.
type ProductionLine struct {
	ProductName string `json:"productName"`
	SevenShots  int    `json:"sevenShots"`
	TwelveOunce int    `json:"twelveOunce"`
}

// ProductionSummary totals the units to produce per product name and size
// across unfulfilled orders only. Recurring orders demand their full
// prepaid run up front, so each line contributes quantity times the
// recurring multiplier. Lines are keyed by the item's display name and
// sorted by it for a stable report.
func ProductionSummary(orders []model.Order) []ProductionLine {
	type counts struct {
		seven, twelve int
	}
	byName := map[string]*counts{}
	for _, order := range orders {
		if order.IsFulfilled {
			continue
		}
		units := order.UnitMultiplier()
		for _, item := range order.Items {
			c, ok := byName[item.ProductName]
			if !ok {
				c = &counts{}
				byName[item.ProductName] = c
			}
			switch item.Size {
			case model.SizeSevenShots:
				c.seven += item.Quantity * units
			case model.SizeTwelveOunce:
				c.twelve += item.Quantity * units
			}
		}
	}

	lines := make([]ProductionLine, 0, len(byName))
	for name, c := range byName {
		lines = append(lines, ProductionLine{ProductName: name, SevenShots: c.seven, TwelveOunce: c.twelve})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductName < lines[j].ProductName })
	return lines
}

// ShoppingItem is the aggregate demand for one raw ingredient string.
type ShoppingItem struct {
	Ingredient   string   `json:"ingredient"`
	TotalUnits   int      `json:"totalUnits"`
	ProductNames []string `json:"productNames"`
}

// ShoppingList totals unit demand per ingredient across all orders,
// fulfilled included, since purchased produce is consumed either way.
// Ingredient strings are taken raw from the catalog, "(optional)" tag and
// all. Results sort by demand descending, then by ingredient for ties.
func ShoppingList(orders []model.Order, products []model.Product) []ShoppingItem {
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	type entry struct {
		units int
		names map[string]struct{}
	}
	byIngredient := map[string]*entry{}
	for _, order := range orders {
		multiplier := order.UnitMultiplier()
		for _, item := range order.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				continue
			}
			units := item.Quantity * multiplier
			for _, ingredient := range product.Ingredients {
				e, found := byIngredient[ingredient]
				if !found {
					e = &entry{names: map[string]struct{}{}}
					byIngredient[ingredient] = e
				}
				e.units += units
				e.names[product.Name] = struct{}{}
			}
		}
	}

	items := make([]ShoppingItem, 0, len(byIngredient))
	for ingredient, e := range byIngredient {
		names := make([]string, 0, len(e.names))
		for name := range e.names {
			names = append(names, name)
		}
		sort.Strings(names)
		items = append(items, ShoppingItem{Ingredient: ingredient, TotalUnits: e.units, ProductNames: names})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TotalUnits != items[j].TotalUnits {
			return items[i].TotalUnits > items[j].TotalUnits
		}
		return items[i].Ingredient < items[j].Ingredient
	})
	return items
}

// GroupSales is the sales rollup for one volunteer group.
type GroupSales struct {
	Group        model.GroupName `json:"group"`
	TotalSales   int             `json:"totalSales"`
	OrderCount   int             `json:"orderCount"`
	AverageOrder float64         `json:"averageOrder"`
}

// SalesByGroup rolls order totals up per group in rotation order. Every
// group in the rotation appears even with zero orders; orders assigned
// outside the rotation are ignored.
func SalesByGroup(orders []model.Order) []GroupSales {
	rotation := model.GroupRotation()
	index := make(map[model.GroupName]int, len(rotation))
	out := make([]GroupSales, len(rotation))
	for i, group := range rotation {
		index[group] = i
		out[i] = GroupSales{Group: group}
	}

	for _, order := range orders {
		i, ok := index[order.AssignedGroup]
		if !ok {
			continue
		}
		out[i].TotalSales += order.TotalPrice
		out[i].OrderCount++
	}
	for i := range out {
		if out[i].OrderCount > 0 {
			out[i].AverageOrder = float64(out[i].TotalSales) / float64(out[i].OrderCount)
		}
	}
	return out
}

// unscheduledWindow lexically sorts after every real HH:MM window.
const unscheduledWindow = "99:99"

// DeliveryRoute filters to home-delivery orders sorted by delivery window
// ascending, with unscheduled orders last.
func DeliveryRoute(orders []model.Order) []model.Order {
	route := make([]model.Order, 0)
	for _, order := range orders {
		if order.DeliveryOption == model.DeliveryHome {
			route = append(route, order)
		}
	}
	sort.SliceStable(route, func(i, j int) bool {
		return windowKey(route[i]) < windowKey(route[j])
	})
	return route
}

func windowKey(order model.Order) string {
	if order.DeliveryWindow == "" {
		return unscheduledWindow
	}
	return order.DeliveryWindow
}
