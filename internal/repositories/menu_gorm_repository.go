package repositories

import (
	"fmt"
	"whatsorder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMenuRepository is a GORM implementation of MenuRepository.
type GORMMenuRepository struct {
	db *gorm.DB
}

// NewGORMMenuRepository creates a new instance of GORMMenuRepository.
func NewGORMMenuRepository(db *gorm.DB) *GORMMenuRepository {
	return &GORMMenuRepository{
		db: db,
	}
}

// GetByRestaurant returns all menu items for a restaurant, grouped later by
// the service into categories. Ordered by category then name for stable display.
func (r *GORMMenuRepository) GetByRestaurant(slug string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Where("restaurant_slug = ?", slug).Order("category, name").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get menu for restaurant %s: %w", slug, err)
	}
	return items, nil
}

// GetByID returns a menu item by its ID.
func (r *GORMMenuRepository) GetByID(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("menu item with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get menu item by ID %s: %w", id, err)
	}
	return &item, nil
}

// CountByRestaurant returns how many menu items a restaurant has.
func (r *GORMMenuRepository) CountByRestaurant(slug string) (int64, error) {
	var count int64
	err := r.db.Model(&models.MenuItem{}).Where("restaurant_slug = ?", slug).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items for restaurant %s: %w", slug, err)
	}
	return count, nil
}

// Create creates a new menu item in the database.
func (r *GORMMenuRepository) Create(item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// Update modifies an existing menu item.
func (r *GORMMenuRepository) Update(item *models.MenuItem) error {
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to update menu item %s: %w", item.ID, err)
	}
	return nil
}

// Delete removes a menu item by its ID.
func (r *GORMMenuRepository) Delete(id string) error {
	result := r.db.Delete(&models.MenuItem{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete menu item %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("menu item with ID %s not found for deletion", id)
	}
	return nil
}
