package models

// CartItem represents a single line item in a customer's cart.
// Identity of a line within a cart is the (Name, Variant) pair; an empty
// Variant means the item has no variant.
type CartItem struct {
	Name     string  `json:"name" validate:"required"`
	Variant  string  `json:"variant,omitempty"`
	Price    float64 `json:"price" validate:"gte=0"`
	IsVeg    bool    `json:"isVeg"`
	Quantity int     `json:"quantity" validate:"gte=1"`
}

// Cart is an ordered list of line items scoped to one restaurant.
// Insertion order is preserved for display only.
type Cart []CartItem

// sameIdentity reports whether two (name, variant) pairs identify the same
// cart line. Absent and empty-string variants are the same thing.
func sameIdentity(a CartItem, name, variant string) bool {
	return a.Name == name && a.Variant == variant
}

// AddItem merges the given item into the cart. If a line with the same
// (name, variant) identity already exists its quantity is incremented,
// otherwise the item is appended. Returns the updated cart.
func (c Cart) AddItem(item CartItem) Cart {
	for i := range c {
		if sameIdentity(c[i], item.Name, item.Variant) {
			c[i].Quantity += item.Quantity
			return c
		}
	}
	return append(c, item)
}

// UpdateQuantity sets the quantity of the matching line. A quantity of zero
// or below removes the line entirely. Unknown lines are a no-op.
func (c Cart) UpdateQuantity(name, variant string, quantity int) Cart {
	if quantity <= 0 {
		return c.RemoveItem(name, variant)
	}
	for i := range c {
		if sameIdentity(c[i], name, variant) {
			c[i].Quantity = quantity
			return c
		}
	}
	return c
}

// RemoveItem removes the matching line from the cart. No-op if absent.
func (c Cart) RemoveItem(name, variant string) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if !sameIdentity(item, name, variant) {
			out = append(out, item)
		}
	}
	return out
}

// Quantity returns the quantity of the matching line, or 0 if absent.
func (c Cart) Quantity(name, variant string) int {
	for _, item := range c {
		if sameIdentity(item, name, variant) {
			return item.Quantity
		}
	}
	return 0
}

// Total returns the sum of price * quantity over all lines.
// An empty cart totals to 0.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// CustomerDetails holds the customer's contact information. It is shared
// across all restaurants the customer orders from, not scoped per tenant.
type CustomerDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
