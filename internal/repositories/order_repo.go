package repositories

import (
	"whatsorder/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// GetByRestaurant returns the newest orders for a restaurant, most
	// recent first, capped at limit. The live dashboard polls this.
	GetByRestaurant(restaurantID string, limit int) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
}
