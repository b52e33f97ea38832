package repositories

import (
	"fmt"
	"sync"
	"whatsorder/internal/models"

	"github.com/google/uuid"
)

// MockRestaurantRepository is an in-memory implementation of RestaurantRepository.
type MockRestaurantRepository struct {
	restaurants map[string]models.Restaurant // keyed by slug
	mu          sync.RWMutex
}

// NewMockRestaurantRepository creates a new instance of MockRestaurantRepository.
func NewMockRestaurantRepository() *MockRestaurantRepository {
	return &MockRestaurantRepository{
		restaurants: make(map[string]models.Restaurant),
	}
}

// GetAll returns all restaurants.
func (r *MockRestaurantRepository) GetAll() ([]models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurantList := make([]models.Restaurant, 0, len(r.restaurants))
	for _, restaurant := range r.restaurants {
		restaurantList = append(restaurantList, restaurant)
	}
	return restaurantList, nil
}

// GetBySlug returns a restaurant by its slug.
func (r *MockRestaurantRepository) GetBySlug(slug string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurant, ok := r.restaurants[slug]
	if !ok {
		return nil, fmt.Errorf("restaurant with slug %s not found", slug)
	}
	return &restaurant, nil
}

// GetByOwnerID returns the restaurant owned by the given user.
func (r *MockRestaurantRepository) GetByOwnerID(ownerID string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, restaurant := range r.restaurants {
		if restaurant.OwnerID == ownerID {
			rCopy := restaurant
			return &rCopy, nil
		}
	}
	return nil, fmt.Errorf("restaurant for owner %s not found", ownerID)
}

// Create adds a new restaurant.
func (r *MockRestaurantRepository) Create(restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	if _, exists := r.restaurants[restaurant.Slug]; exists {
		return fmt.Errorf("restaurant with slug %s already exists", restaurant.Slug)
	}
	r.restaurants[restaurant.Slug] = *restaurant
	return nil
}

// Update modifies an existing restaurant.
func (r *MockRestaurantRepository) Update(restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.restaurants[restaurant.Slug]; !ok {
		return fmt.Errorf("restaurant with slug %s not found for update", restaurant.Slug)
	}
	r.restaurants[restaurant.Slug] = *restaurant
	return nil
}
