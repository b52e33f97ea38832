package repositories

import (
	"whatsorder/internal/models"
)

// MenuRepository defines the interface for menu item data access.
type MenuRepository interface {
	GetByRestaurant(slug string) ([]models.MenuItem, error)
	GetByID(id string) (*models.MenuItem, error)
	CountByRestaurant(slug string) (int64, error)
	Create(item *models.MenuItem) error
	Update(item *models.MenuItem) error
	Delete(id string) error
}
