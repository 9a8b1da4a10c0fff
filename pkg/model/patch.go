package model

// OrderPatch is a partial order update. Nil fields are left untouched;
// set fields shallow-merge over the stored record. Price-bearing fields
// (items, donation, recurring) trigger a server-side total recompute.
type OrderPatch struct {
	CustomerName            *string         `json:"customerName,omitempty"`
	CustomerContact         *string         `json:"customerContact,omitempty"`
	CustomerEmail           *string         `json:"customerEmail,omitempty"`
	Items                   *[]CartItem     `json:"items,omitempty"`
	DonationAmount          *int            `json:"donationAmount,omitempty"`
	DeliveryOption          *DeliveryOption `json:"deliveryOption,omitempty"`
	DeliveryAddress         *string         `json:"deliveryAddress,omitempty"`
	DeliveryWindow          *string         `json:"deliveryWindow,omitempty"`
	ZelleConfirmationNumber *string         `json:"zelleConfirmationNumber,omitempty"`
	IsRecurring             *bool           `json:"isRecurring,omitempty"`
	IsFulfilled             *bool           `json:"isFulfilled,omitempty"`
	AssignedGroup           *GroupName      `json:"assignedGroup,omitempty"`
}

// TouchesPrice reports whether applying the patch requires recomputing
// the order total.
func (p OrderPatch) TouchesPrice() bool {
	return p.Items != nil || p.DonationAmount != nil || p.IsRecurring != nil
}

// MarksFulfilled reports whether the patch is flipping the order to
// fulfilled, which triggers the admin-facing notice broadcast.
func (p OrderPatch) MarksFulfilled() bool {
	return p.IsFulfilled != nil && *p.IsFulfilled
}

// Apply shallow-merges the patch into a copy of the order and returns it.
// The total is not recomputed here; that is the mutation service's job.
func (p OrderPatch) Apply(o Order) Order {
	out := o.Clone()
	if p.CustomerName != nil {
		out.CustomerName = *p.CustomerName
	}
	if p.CustomerContact != nil {
		out.CustomerContact = *p.CustomerContact
	}
	if p.CustomerEmail != nil {
		out.CustomerEmail = *p.CustomerEmail
	}
	if p.Items != nil {
		out.Items = make([]CartItem, len(*p.Items))
		copy(out.Items, *p.Items)
	}
	if p.DonationAmount != nil {
		out.DonationAmount = *p.DonationAmount
	}
	if p.DeliveryOption != nil {
		out.DeliveryOption = *p.DeliveryOption
	}
	if p.DeliveryAddress != nil {
		out.DeliveryAddress = *p.DeliveryAddress
	}
	if p.DeliveryWindow != nil {
		out.DeliveryWindow = *p.DeliveryWindow
	}
	if p.ZelleConfirmationNumber != nil {
		out.ZelleConfirmationNumber = *p.ZelleConfirmationNumber
	}
	if p.IsRecurring != nil {
		out.IsRecurring = *p.IsRecurring
	}
	if p.IsFulfilled != nil {
		out.IsFulfilled = *p.IsFulfilled
	}
	if p.AssignedGroup != nil {
		out.AssignedGroup = *p.AssignedGroup
	}
	return out
}

// ProductPatch is a partial product update. Only mutable display fields and
// the availability gate are patchable; identity and ingredients are fixed
// at seed time.
type ProductPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageColor  *string `json:"imageColor,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// Apply shallow-merges the patch into a copy of the product.
func (p ProductPatch) Apply(prod Product) Product {
	out := prod.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.ImageColor != nil {
		out.ImageColor = *p.ImageColor
	}
	if p.Available != nil {
		out.Available = *p.Available
	}
	return out
}
