package repositories

import (
	"whatsorder/internal/models"
)

// RestaurantRepository defines the interface for restaurant data access.
type RestaurantRepository interface {
	GetAll() ([]models.Restaurant, error)
	GetBySlug(slug string) (*models.Restaurant, error)
	GetByOwnerID(ownerID string) (*models.Restaurant, error)
	Create(restaurant *models.Restaurant) error
	Update(restaurant *models.Restaurant) error
}
