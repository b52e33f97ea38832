package services

import (
	"fmt"

	"whatsorder/internal/models"
	"whatsorder/internal/repositories"
)

// FreePlanMenuItemLimit is how many menu items an outlet on the free plan
// may carry. The pro plan is unlimited.
const FreePlanMenuItemLimit = 20

// MenuService handles business logic related to menu items, including the
// subscription-plan item limit.
type MenuService struct {
	menuRepo repositories.MenuRepository
	userRepo repositories.UserRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(menuRepo repositories.MenuRepository, userRepo repositories.UserRepository) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		userRepo: userRepo,
	}
}

// Menu returns a restaurant's menu grouped into categories, preserving the
// repository's category ordering.
func (s *MenuService) Menu(slug string) ([]models.MenuCategory, error) {
	items, err := s.menuRepo.GetByRestaurant(slug)
	if err != nil {
		return nil, err
	}

	categories := make([]models.MenuCategory, 0)
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(categories)
			index[item.Category] = i
			categories = append(categories, models.MenuCategory{Category: item.Category})
		}
		categories[i].Items = append(categories[i].Items, item)
	}
	return categories, nil
}

// GetItem returns a menu item by its ID.
func (s *MenuService) GetItem(id string) (*models.MenuItem, error) {
	return s.menuRepo.GetByID(id)
}

// CreateItem adds a menu item for an owner's restaurant, enforcing the free
// plan's item limit.
func (s *MenuService) CreateItem(ownerID string, item *models.MenuItem) error {
	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return err
	}

	if owner.Plan != models.PlanPro {
		count, err := s.menuRepo.CountByRestaurant(item.RestaurantSlug)
		if err != nil {
			return err
		}
		if count >= FreePlanMenuItemLimit {
			return fmt.Errorf("free plan is limited to %d menu items, upgrade to add more", FreePlanMenuItemLimit)
		}
	}

	return s.menuRepo.Create(item)
}

// UpdateItem updates an existing menu item.
func (s *MenuService) UpdateItem(item *models.MenuItem) error {
	return s.menuRepo.Update(item)
}

// DeleteItem deletes a menu item by its ID.
func (s *MenuService) DeleteItem(id string) error {
	return s.menuRepo.Delete(id)
}
