package model

import (
	"sort"
	"strings"
	"time"
)

// OrderSize enumerates the two package sizes a product can be ordered in.
type OrderSize string

const (
	SizeSevenShots  OrderSize = "7-Pack (2oz shots)"
	SizeTwelveOunce OrderSize = "12oz Bottle"
)

// UnitPrice returns the fixed per-unit price for the size, in whole dollars.
func (s OrderSize) UnitPrice() int {
	switch s {
	case SizeSevenShots, SizeTwelveOunce:
		return 50
	}
	return 0
}

func (s OrderSize) IsValid() bool {
	return s == SizeSevenShots || s == SizeTwelveOunce
}

// Sizes lists every valid order size in display order.
func Sizes() []OrderSize {
	return []OrderSize{SizeSevenShots, SizeTwelveOunce}
}

// GroupName identifies a volunteer group in the fixed rotation.
type GroupName string

const (
	GroupPathfinders GroupName = "Group A (Pathfinders)"
	GroupAdventurers GroupName = "Group B (Adventurers)"
	GroupYouth       GroupName = "Group C (Youth)"
	GroupYoungAdults GroupName = "Group D (Young Adults)"
)

// GroupRotation returns the fixed volunteer rotation in schedule order.
func GroupRotation() []GroupName {
	return []GroupName{GroupPathfinders, GroupAdventurers, GroupYouth, GroupYoungAdults}
}

func (g GroupName) IsValid() bool {
	for _, known := range GroupRotation() {
		if g == known {
			return true
		}
	}
	return false
}

// DeliveryOption selects between customer pickup and home delivery.
type DeliveryOption string

const (
	DeliveryPickup DeliveryOption = "Pickup"
	DeliveryHome   DeliveryOption = "Delivery"
)

func (d DeliveryOption) IsValid() bool {
	return d == DeliveryPickup || d == DeliveryHome
}

// CartItem is one storefront cart line. Two additions with the same
// (product, size, sorted optional-ingredient set) collapse into one line.
type CartItem struct {
	ProductID                   string    `json:"productId"`
	ProductName                 string    `json:"productName"`
	Size                        OrderSize `json:"size"`
	Quantity                    int       `json:"quantity"`
	SelectedOptionalIngredients []string  `json:"selectedOptionalIngredients,omitempty"`
}

// GroupKey returns the identity used to collapse cart lines.
func (c CartItem) GroupKey() string {
	optionals := append([]string(nil), c.SelectedOptionalIngredients...)
	sort.Strings(optionals)
	return c.ProductID + "|" + string(c.Size) + "|" + strings.Join(optionals, ",")
}

// Order is one checkout transaction.
type Order struct {
	ID                      string         `json:"id"`
	CustomerName            string         `json:"customerName"`
	CustomerContact         string         `json:"customerContact"`
	CustomerEmail           string         `json:"customerEmail,omitempty"`
	Items                   []CartItem     `json:"items"`
	AssignedGroup           GroupName      `json:"assignedGroup"`
	OrderDate               time.Time      `json:"orderDate"`
	IsFulfilled             bool           `json:"isFulfilled"`
	TotalPrice              int            `json:"totalPrice"`
	DonationAmount          int            `json:"donationAmount"`
	DeliveryOption          DeliveryOption `json:"deliveryOption"`
	DeliveryAddress         string         `json:"deliveryAddress,omitempty"`
	DeliveryWindow          string         `json:"deliveryWindow,omitempty"`
	OrderNumber             string         `json:"orderNumber"`
	ZelleConfirmationNumber string         `json:"zelleConfirmationNumber"`
	IsRecurring             bool           `json:"isRecurring"`
}

// RecurringWeeks is the prepaid length of a recurring subscription; a
// recurring order multiplies item cost by this factor.
const RecurringWeeks = 4

// LineTotal returns the pre-donation cost of the order's items, applying
// the recurring multiplier.
func (o Order) LineTotal() int {
	total := 0
	for _, item := range o.Items {
		total += item.Size.UnitPrice() * item.Quantity
	}
	if o.IsRecurring {
		total *= RecurringWeeks
	}
	return total
}

// UnitMultiplier is the production multiplier a recurring order applies to
// every item quantity.
func (o Order) UnitMultiplier() int {
	if o.IsRecurring {
		return RecurringWeeks
	}
	return 1
}

// Clone returns a deep copy so store snapshots cannot be mutated by callers.
func (o Order) Clone() Order {
	out := o
	out.Items = make([]CartItem, len(o.Items))
	for i, item := range o.Items {
		out.Items[i] = item
		out.Items[i].SelectedOptionalIngredients = append([]string(nil), item.SelectedOptionalIngredients...)
	}
	return out
}
