package repositories

// Storage key layout for cart state. All per-restaurant keys are prefixed
// with the tenant (restaurant slug); customer details are global.
const (
	CartKeyPrefix      = "cart_"
	LastOrderKeyPrefix = "lastOrder_"
	DontClearKeyPrefix = "dontClear_"
	CustomerDetailsKey = "customerDetails"
)

// CartKey returns the storage key for a tenant's cart contents.
func CartKey(tenant string) string { return CartKeyPrefix + tenant }

// LastOrderKey returns the storage key for a tenant's last-order timestamp.
func LastOrderKey(tenant string) string { return LastOrderKeyPrefix + tenant }

// DontClearKey returns the storage key for a tenant's auto-clear suppression flag.
func DontClearKey(tenant string) string { return DontClearKeyPrefix + tenant }

// KVStore defines the interface for the durable key-value store backing all
// cart state. A missing key is not an error; Get reports absence through its
// second return value.
type KVStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	// Keys returns every stored key with the given prefix. The auto-clear
	// sweep uses this to find tenants with a pending order, including ones
	// that were never hydrated in this process.
	Keys(prefix string) ([]string, error)
}
