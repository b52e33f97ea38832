package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"whatsorder/internal/models"
	"whatsorder/internal/repositories"
)

// RestaurantStatus is the outlet's current availability.
type RestaurantStatus string

const (
	StatusOpen           RestaurantStatus = "OPEN"
	StatusClosed         RestaurantStatus = "CLOSED"
	StatusManuallyClosed RestaurantStatus = "MANUALLY_CLOSED"
)

// RestaurantService handles business logic related to restaurants: outlet
// CRUD for owners and the open/closed status shown to customers.
type RestaurantService struct {
	repo repositories.RestaurantRepository
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(repo repositories.RestaurantRepository) *RestaurantService {
	return &RestaurantService{
		repo: repo,
	}
}

// ListRestaurants retrieves every outlet for the public directory.
func (s *RestaurantService) ListRestaurants() ([]models.Restaurant, error) {
	return s.repo.GetAll()
}

// GetBySlug retrieves a restaurant by its slug.
func (s *RestaurantService) GetBySlug(slug string) (*models.Restaurant, error) {
	return s.repo.GetBySlug(slug)
}

// GetByOwner retrieves the restaurant owned by the given user.
func (s *RestaurantService) GetByOwner(ownerID string) (*models.Restaurant, error) {
	return s.repo.GetByOwnerID(ownerID)
}

// CreateRestaurant creates a new outlet for an owner. Slugs must be unique.
func (s *RestaurantService) CreateRestaurant(restaurant *models.Restaurant) error {
	if existing, err := s.repo.GetBySlug(restaurant.Slug); err == nil && existing != nil {
		return fmt.Errorf("restaurant slug '%s' already taken", restaurant.Slug)
	}
	return s.repo.Create(restaurant)
}

// UpdateRestaurant updates an outlet. Only the owner may update it.
func (s *RestaurantService) UpdateRestaurant(ownerID string, restaurant *models.Restaurant) error {
	existing, err := s.repo.GetBySlug(restaurant.Slug)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("restaurant %s does not belong to owner %s", restaurant.Slug, ownerID)
	}
	restaurant.ID = existing.ID
	restaurant.OwnerID = existing.OwnerID
	return s.repo.Update(restaurant)
}

// Status returns the outlet's current availability.
func (s *RestaurantService) Status(restaurant *models.Restaurant) RestaurantStatus {
	return s.StatusAt(restaurant, time.Now())
}

// StatusAt returns the outlet's availability at the given time. The manual
// closed flag wins over timings; a day whose window is 00:00-00:00 is closed
// all day; windows that cross midnight (e.g. 18:00-02:00) are handled.
func (s *RestaurantService) StatusAt(restaurant *models.Restaurant, t time.Time) RestaurantStatus {
	if restaurant.ManuallyClosed {
		return StatusManuallyClosed
	}

	dayKey := strings.ToLower(t.Weekday().String()[:3])
	hours, ok := restaurant.Timings[dayKey]
	if !ok {
		return StatusClosed
	}
	if hours.Open == "00:00" && hours.Close == "00:00" {
		return StatusClosed
	}

	openMinutes, err := parseClock(hours.Open)
	if err != nil {
		return StatusClosed
	}
	closeMinutes, err := parseClock(hours.Close)
	if err != nil {
		return StatusClosed
	}

	current := t.Hour()*60 + t.Minute()
	if closeMinutes < openMinutes {
		if current >= openMinutes || current <= closeMinutes {
			return StatusOpen
		}
		return StatusClosed
	}
	if current >= openMinutes && current <= closeMinutes {
		return StatusOpen
	}
	return StatusClosed
}

// parseClock converts an "HH:MM" string to minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return hour*60 + minute, nil
}
