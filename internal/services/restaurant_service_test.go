package services_test

import (
	"testing"
	"time"

	"whatsorder/internal/models"
	"whatsorder/internal/repositories"
	"whatsorder/internal/services"

	"github.com/stretchr/testify/assert"
)

// monday returns a fixed Monday at the given clock time.
func monday(hour, minute int) time.Time {
	return time.Date(2026, time.August, 31, hour, minute, 0, 0, time.UTC)
}

func TestRestaurantService_StatusAt(t *testing.T) {
	service := services.NewRestaurantService(repositories.NewMockRestaurantRepository())

	restaurant := &models.Restaurant{
		Name:           "Spice Villa",
		Slug:           "spice-villa",
		WhatsAppNumber: "919876543210",
		Timings: map[string]models.WorkingHours{
			"mon": {Open: "09:00", Close: "22:00"},
			"tue": {Open: "00:00", Close: "00:00"},
		},
	}

	assert.Equal(t, services.StatusOpen, service.StatusAt(restaurant, monday(12, 0)))
	assert.Equal(t, services.StatusOpen, service.StatusAt(restaurant, monday(9, 0)), "opening minute is open")
	assert.Equal(t, services.StatusOpen, service.StatusAt(restaurant, monday(22, 0)), "closing minute is open")
	assert.Equal(t, services.StatusClosed, service.StatusAt(restaurant, monday(8, 59)))
	assert.Equal(t, services.StatusClosed, service.StatusAt(restaurant, monday(22, 1)))

	// 00:00-00:00 means closed for the whole day.
	tuesday := monday(12, 0).AddDate(0, 0, 1)
	assert.Equal(t, services.StatusClosed, service.StatusAt(restaurant, tuesday))

	// A day with no entry at all is closed.
	wednesday := monday(12, 0).AddDate(0, 0, 2)
	assert.Equal(t, services.StatusClosed, service.StatusAt(restaurant, wednesday))
}

func TestRestaurantService_StatusAt_ManualCloseWins(t *testing.T) {
	service := services.NewRestaurantService(repositories.NewMockRestaurantRepository())

	restaurant := &models.Restaurant{
		Slug:           "spice-villa",
		ManuallyClosed: true,
		Timings: map[string]models.WorkingHours{
			"mon": {Open: "00:00", Close: "23:59"},
		},
	}

	assert.Equal(t, services.StatusManuallyClosed, service.StatusAt(restaurant, monday(12, 0)))
}

func TestRestaurantService_StatusAt_MidnightCrossing(t *testing.T) {
	service := services.NewRestaurantService(repositories.NewMockRestaurantRepository())

	// A late-night place open 18:00 to 02:00.
	restaurant := &models.Restaurant{
		Slug: "midnight-biryani",
		Timings: map[string]models.WorkingHours{
			"mon": {Open: "18:00", Close: "02:00"},
		},
	}

	assert.Equal(t, services.StatusOpen, service.StatusAt(restaurant, monday(23, 30)))
	assert.Equal(t, services.StatusOpen, service.StatusAt(restaurant, monday(1, 30)))
	assert.Equal(t, services.StatusClosed, service.StatusAt(restaurant, monday(12, 0)))
	assert.Equal(t, services.StatusClosed, service.StatusAt(restaurant, monday(2, 1)))
}

func TestRestaurantService_StatusAt_BadClockValue(t *testing.T) {
	service := services.NewRestaurantService(repositories.NewMockRestaurantRepository())

	restaurant := &models.Restaurant{
		Slug: "spice-villa",
		Timings: map[string]models.WorkingHours{
			"mon": {Open: "nine", Close: "22:00"},
		},
	}

	assert.Equal(t, services.StatusClosed, service.StatusAt(restaurant, monday(12, 0)))
}

func TestRestaurantService_CreateRestaurant(t *testing.T) {
	repo := repositories.NewMockRestaurantRepository()
	service := services.NewRestaurantService(repo)

	restaurant := &models.Restaurant{
		ID:             "rest-1",
		OwnerID:        "user-1",
		Name:           "Spice Villa",
		Slug:           "spice-villa",
		WhatsAppNumber: "919876543210",
	}
	assert.NoError(t, service.CreateRestaurant(restaurant))

	// Slugs are the tenant key, so they must be unique.
	duplicate := &models.Restaurant{ID: "rest-2", OwnerID: "user-2", Name: "Other", Slug: "spice-villa", WhatsAppNumber: "911111111111"}
	err := service.CreateRestaurant(duplicate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestRestaurantService_UpdateRestaurant_OwnershipCheck(t *testing.T) {
	repo := repositories.NewMockRestaurantRepository()
	service := services.NewRestaurantService(repo)

	restaurant := &models.Restaurant{
		ID:             "rest-1",
		OwnerID:        "user-1",
		Name:           "Spice Villa",
		Slug:           "spice-villa",
		WhatsAppNumber: "919876543210",
	}
	assert.NoError(t, service.CreateRestaurant(restaurant))

	update := &models.Restaurant{Slug: "spice-villa", Name: "Spice Villa Deluxe", WhatsAppNumber: "919876543210"}
	err := service.UpdateRestaurant("someone-else", update)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to owner")

	assert.NoError(t, service.UpdateRestaurant("user-1", update))
	updated, err := service.GetBySlug("spice-villa")
	assert.NoError(t, err)
	assert.Equal(t, "Spice Villa Deluxe", updated.Name)
	assert.Equal(t, "user-1", updated.OwnerID, "owner must not change on update")
}
