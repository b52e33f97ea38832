package repositories

import (
	"fmt"
	"whatsorder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRestaurantRepository is a GORM implementation of RestaurantRepository.
type GORMRestaurantRepository struct {
	db *gorm.DB
}

// NewGORMRestaurantRepository creates a new instance of GORMRestaurantRepository.
func NewGORMRestaurantRepository(db *gorm.DB) *GORMRestaurantRepository {
	return &GORMRestaurantRepository{
		db: db,
	}
}

// GetAll returns all restaurants.
func (r *GORMRestaurantRepository) GetAll() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := r.db.Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to get restaurants: %w", err)
	}
	return restaurants, nil
}

// GetBySlug retrieves a restaurant by its slug.
func (r *GORMRestaurantRepository) GetBySlug(slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("restaurant with slug %s not found", slug)
		}
		return nil, fmt.Errorf("failed to get restaurant by slug %s: %w", slug, err)
	}
	return &restaurant, nil
}

// GetByOwnerID retrieves the restaurant owned by the given user.
func (r *GORMRestaurantRepository) GetByOwnerID(ownerID string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("restaurant for owner %s not found", ownerID)
		}
		return nil, fmt.Errorf("failed to get restaurant by owner %s: %w", ownerID, err)
	}
	return &restaurant, nil
}

// Create creates a new restaurant in the database.
func (r *GORMRestaurantRepository) Create(restaurant *models.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	if err := r.db.Create(restaurant).Error; err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// Update modifies an existing restaurant.
func (r *GORMRestaurantRepository) Update(restaurant *models.Restaurant) error {
	if err := r.db.Save(restaurant).Error; err != nil {
		return fmt.Errorf("failed to update restaurant %s: %w", restaurant.Slug, err)
	}
	return nil
}
