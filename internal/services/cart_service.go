package services

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"whatsorder/internal/models"
	"whatsorder/internal/repositories"
)

const (
	// AutoClearWindow is how long a cart survives after an order is placed
	// before the sweep empties it, unless the customer cancels the auto-clear.
	AutoClearWindow = 30 * time.Second

	// SweepInterval is how often the background sweeper checks for expired
	// carts.
	SweepInterval = 5 * time.Second
)

// CartService owns the per-restaurant shopping carts. Carts are cached in
// memory by tenant (restaurant slug) and lazily hydrated from the KVStore on
// first access; every mutation writes through to the store before returning,
// so a restart or a second instance sharing the store observes consistent
// state.
type CartService struct {
	store repositories.KVStore

	mu         sync.Mutex
	carts      map[string]models.Cart
	lastOrders map[string]int64 // epoch ms of last placed order
	dontClears map[string]bool
	hydrated   map[string]bool
}

// NewCartService creates a new CartService backed by the given store.
func NewCartService(store repositories.KVStore) *CartService {
	return &CartService{
		store:      store,
		carts:      make(map[string]models.Cart),
		lastOrders: make(map[string]int64),
		dontClears: make(map[string]bool),
		hydrated:   make(map[string]bool),
	}
}

// EnsureHydrated loads a tenant's cart and auto-clear state from the store
// into memory if it has not been loaded yet. It is idempotent; repeated calls
// for an already-hydrated tenant are cheap no-ops. Corrupt persisted data is
// treated as absent, never as an error, so a bad cart can't break page load.
func (s *CartService) EnsureHydrated(tenant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureHydratedLocked(tenant)
}

func (s *CartService) ensureHydratedLocked(tenant string) error {
	if s.hydrated[tenant] {
		return nil
	}

	cart := models.Cart{}
	if raw, ok, err := s.store.Get(repositories.CartKey(tenant)); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &cart); err != nil {
			log.Printf("Corrupt cart data for tenant %s, starting empty: %v", tenant, err)
			cart = models.Cart{}
		}
	}
	s.carts[tenant] = cart

	if raw, ok, err := s.store.Get(repositories.LastOrderKey(tenant)); err != nil {
		return err
	} else if ok {
		if ts, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			s.lastOrders[tenant] = ts
		} else {
			log.Printf("Corrupt last-order timestamp for tenant %s, ignoring: %v", tenant, parseErr)
		}
	}

	if raw, ok, err := s.store.Get(repositories.DontClearKey(tenant)); err != nil {
		return err
	} else if ok {
		s.dontClears[tenant] = raw == "true"
	}

	s.hydrated[tenant] = true

	// A customer may come back long after placing an order. Run the expiry
	// check for this tenant right away rather than waiting for the next tick.
	if err := s.expireIfDueLocked(tenant); err != nil {
		log.Printf("Warning: expiry check on hydration failed for tenant %s: %v", tenant, err)
	}
	return nil
}

// Cart returns a copy of the tenant's cart.
func (s *CartService) Cart(tenant string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return nil, err
	}
	cart := s.carts[tenant]
	out := make(models.Cart, len(cart))
	copy(out, cart)
	return out, nil
}

// AddItem merges an item into the tenant's cart. Two additions with the same
// (name, variant) identity merge quantities instead of duplicating the line.
func (s *CartService) AddItem(tenant string, item models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return err
	}
	return s.saveCartLocked(tenant, s.carts[tenant].AddItem(item))
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or
// below removes the line entirely.
func (s *CartService) UpdateQuantity(tenant, name, variant string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return err
	}
	return s.saveCartLocked(tenant, s.carts[tenant].UpdateQuantity(name, variant, quantity))
}

// RemoveItem removes a cart line. No-op if the line is absent.
func (s *CartService) RemoveItem(tenant, name, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return err
	}
	return s.saveCartLocked(tenant, s.carts[tenant].RemoveItem(name, variant))
}

// ItemQuantity returns the quantity of a cart line, or 0 if absent.
func (s *CartService) ItemQuantity(tenant, name, variant string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return 0, err
	}
	return s.carts[tenant].Quantity(name, variant), nil
}

// Total returns the tenant's cart total.
func (s *CartService) Total(tenant string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return 0, err
	}
	return s.carts[tenant].Total(), nil
}

// ClearCart empties the tenant's cart and deletes any pending auto-clear
// state. A manual clear always wins, whatever the timer state.
func (s *CartService) ClearCart(tenant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return err
	}
	if err := s.saveCartLocked(tenant, models.Cart{}); err != nil {
		return err
	}
	return s.resetAutoClearLocked(tenant)
}

// PlaceOrder records the order timestamp and starts the auto-clear countdown
// for the tenant. Unless CancelAutoClear is called within the window, the
// next sweep after it elapses empties the cart.
func (s *CartService) PlaceOrder(tenant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	if err := s.store.Set(repositories.LastOrderKey(tenant), strconv.FormatInt(now, 10)); err != nil {
		return err
	}
	if err := s.store.Set(repositories.DontClearKey(tenant), "false"); err != nil {
		return err
	}
	s.lastOrders[tenant] = now
	s.dontClears[tenant] = false
	return nil
}

// CancelAutoClear suppresses the pending auto-clear so the cart persists
// until manually cleared. Idempotent; it has no effect once the sweep has
// already cleared the cart.
func (s *CartService) CancelAutoClear(tenant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return err
	}
	if err := s.store.Set(repositories.DontClearKey(tenant), "true"); err != nil {
		return err
	}
	s.dontClears[tenant] = true
	return nil
}

// LastOrderAt returns the epoch-ms timestamp of the tenant's last placed
// order, or false if no order is pending. The UI uses this to render the
// auto-clear countdown.
func (s *CartService) LastOrderAt(tenant string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return 0, false, err
	}
	ts, ok := s.lastOrders[tenant]
	return ts, ok, nil
}

// AutoClearSuppressed reports whether the tenant cancelled the auto-clear.
func (s *CartService) AutoClearSuppressed(tenant string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHydratedLocked(tenant); err != nil {
		return false, err
	}
	return s.dontClears[tenant], nil
}

// CustomerDetails returns the globally stored customer contact details.
// They are shared across every restaurant the customer orders from.
func (s *CartService) CustomerDetails() (models.CustomerDetails, error) {
	var details models.CustomerDetails
	raw, ok, err := s.store.Get(repositories.CustomerDetailsKey)
	if err != nil {
		return details, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &details); err != nil {
			log.Printf("Corrupt customer details, ignoring: %v", err)
			return models.CustomerDetails{}, nil
		}
	}
	return details, nil
}

// SetCustomerDetails stores the customer contact details globally.
func (s *CartService) SetCustomerDetails(details models.CustomerDetails) error {
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return s.store.Set(repositories.CustomerDetailsKey, string(data))
}

// Sweep checks every tenant with a pending order for expiry and empties carts
// whose auto-clear window has elapsed without a cancellation. It inspects the
// store, not just hydrated tenants, so carts abandoned in earlier sessions
// are cleaned up too. Sweep is idempotent and safe to call from any trigger.
func (s *CartService) Sweep() error {
	keys, err := s.store.Keys(repositories.LastOrderKeyPrefix)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		tenant := strings.TrimPrefix(key, repositories.LastOrderKeyPrefix)
		if err := s.expireIfDueLocked(tenant); err != nil {
			log.Printf("Warning: sweep failed for tenant %s: %v", tenant, err)
		}
	}
	return nil
}

// StartSweeper runs Sweep immediately and then on every SweepInterval tick
// until the context is cancelled.
func (s *CartService) StartSweeper(ctx context.Context) {
	go func() {
		if err := s.Sweep(); err != nil {
			log.Printf("Warning: auto-clear sweep failed: %v", err)
		}

		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("Auto-clear sweeper stopped")
				return
			case <-ticker.C:
				if err := s.Sweep(); err != nil {
					log.Printf("Warning: auto-clear sweep failed: %v", err)
				}
			}
		}
	}()
}

// expireIfDueLocked clears one tenant's cart if its auto-clear window has
// elapsed and the clear was not suppressed. State is read from the store so
// that never-hydrated tenants are handled as well.
func (s *CartService) expireIfDueLocked(tenant string) error {
	raw, ok, err := s.store.Get(repositories.LastOrderKey(tenant))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	ts, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		// An unreadable timestamp can never expire; drop the marker.
		return s.resetAutoClearLocked(tenant)
	}

	if time.Now().UnixMilli()-ts <= AutoClearWindow.Milliseconds() {
		return nil
	}
	if flag, ok, err := s.store.Get(repositories.DontClearKey(tenant)); err != nil {
		return err
	} else if ok && flag == "true" {
		return nil
	}

	log.Printf("Auto-clearing cart for tenant %s", tenant)
	if err := s.store.Remove(repositories.CartKey(tenant)); err != nil {
		return err
	}
	if s.hydrated[tenant] {
		s.carts[tenant] = models.Cart{}
	}
	return s.resetAutoClearLocked(tenant)
}

// resetAutoClearLocked deletes the tenant's auto-clear markers from both the
// store and memory.
func (s *CartService) resetAutoClearLocked(tenant string) error {
	if err := s.store.Remove(repositories.LastOrderKey(tenant)); err != nil {
		return err
	}
	if err := s.store.Remove(repositories.DontClearKey(tenant)); err != nil {
		return err
	}
	delete(s.lastOrders, tenant)
	delete(s.dontClears, tenant)
	return nil
}

// saveCartLocked writes the cart to both the in-memory cache and the store as
// one logical unit. The in-memory and persisted copies must never diverge
// after a mutation completes.
func (s *CartService) saveCartLocked(tenant string, cart models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := s.store.Set(repositories.CartKey(tenant), string(data)); err != nil {
		return err
	}
	s.carts[tenant] = cart
	return nil
}
