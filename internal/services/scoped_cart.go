package services

import (
	"whatsorder/internal/models"
)

// ScopedCart is a per-restaurant view of the CartService. It binds every
// operation to one fixed tenant so callers never pass the slug around.
type ScopedCart struct {
	tenant  string
	service *CartService
}

// Scoped returns a ScopedCart bound to the given tenant, hydrating the
// tenant's state as a side effect. Acquiring the same scope repeatedly does
// not re-hydrate.
func (s *CartService) Scoped(tenant string) (*ScopedCart, error) {
	if err := s.EnsureHydrated(tenant); err != nil {
		return nil, err
	}
	return &ScopedCart{
		tenant:  tenant,
		service: s,
	}, nil
}

// Tenant returns the restaurant slug this scope is bound to.
func (c *ScopedCart) Tenant() string { return c.tenant }

// Items returns a copy of the cart contents.
func (c *ScopedCart) Items() (models.Cart, error) {
	return c.service.Cart(c.tenant)
}

// AddItem merges an item into the cart.
func (c *ScopedCart) AddItem(item models.CartItem) error {
	return c.service.AddItem(c.tenant, item)
}

// UpdateQuantity sets a line's quantity; zero or below removes it.
func (c *ScopedCart) UpdateQuantity(name, variant string, quantity int) error {
	return c.service.UpdateQuantity(c.tenant, name, variant, quantity)
}

// RemoveItem removes a cart line.
func (c *ScopedCart) RemoveItem(name, variant string) error {
	return c.service.RemoveItem(c.tenant, name, variant)
}

// ItemQuantity returns a line's quantity, or 0 if absent.
func (c *ScopedCart) ItemQuantity(name, variant string) (int, error) {
	return c.service.ItemQuantity(c.tenant, name, variant)
}

// Total returns the cart total.
func (c *ScopedCart) Total() (float64, error) {
	return c.service.Total(c.tenant)
}

// Clear empties the cart and resets any pending auto-clear.
func (c *ScopedCart) Clear() error {
	return c.service.ClearCart(c.tenant)
}

// PlaceOrder starts the auto-clear countdown.
func (c *ScopedCart) PlaceOrder() error {
	return c.service.PlaceOrder(c.tenant)
}

// CancelAutoClear keeps the cart past the auto-clear window.
func (c *ScopedCart) CancelAutoClear() error {
	return c.service.CancelAutoClear(c.tenant)
}

// LastOrderAt returns the pending order timestamp, if any.
func (c *ScopedCart) LastOrderAt() (int64, bool, error) {
	return c.service.LastOrderAt(c.tenant)
}

// AutoClearSuppressed reports whether the auto-clear was cancelled.
func (c *ScopedCart) AutoClearSuppressed() (bool, error) {
	return c.service.AutoClearSuppressed(c.tenant)
}
