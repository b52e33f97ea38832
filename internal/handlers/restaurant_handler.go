package handlers

import (
	"fmt"
	"log"
	"strings"
	"whatsorder/internal/models"
	"whatsorder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

// RestaurantHandler handles HTTP requests for outlets: the public restaurant
// page data, the QR code image, and the owner's outlet management.
type RestaurantHandler struct {
	restaurantService *services.RestaurantService
	validate          *validator.Validate
	baseURL           string // public site root embedded in QR codes
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(restaurantService *services.RestaurantService, baseURL string) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		validate:          validator.New(),
		baseURL:           strings.TrimRight(baseURL, "/"),
	}
}

// RegisterRoutes registers the public restaurant routes with the Fiber app.
func (h *RestaurantHandler) RegisterRoutes(router fiber.Router) {
	restaurantRoutes := router.Group("/restaurants")
	restaurantRoutes.Get("/", h.HandleListRestaurants)
	restaurantRoutes.Get("/:slug", h.HandleGetRestaurant)
	restaurantRoutes.Get("/:slug/qr", h.HandleGetQRCode)
}

// RegisterAdminRoutes registers the owner-facing outlet routes. The caller
// wraps the router in auth middleware.
func (h *RestaurantHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/restaurant", h.HandleGetOwnRestaurant)
	router.Post("/restaurant", h.HandleCreateRestaurant)
	router.Put("/restaurant", h.HandleUpdateRestaurant)
}

// HandleListRestaurants returns every outlet for the public directory page.
func (h *RestaurantHandler) HandleListRestaurants(c *fiber.Ctx) error {
	restaurants, err := h.restaurantService.ListRestaurants()
	if err != nil {
		log.Printf("Error listing restaurants: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve restaurants",
			"error":   err.Error(),
		})
	}
	return c.JSON(restaurants)
}

// HandleGetRestaurant returns a restaurant's public profile together with
// its current open/closed status.
func (h *RestaurantHandler) HandleGetRestaurant(c *fiber.Ctx) error {
	slug := c.Params("slug")
	restaurant, err := h.restaurantService.GetBySlug(slug)
	if err != nil {
		log.Printf("Error getting restaurant %s: %v", slug, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Restaurant %s not found", slug),
		})
	}

	return c.JSON(fiber.Map{
		"restaurant": restaurant,
		"status":     h.restaurantService.Status(restaurant),
	})
}

// HandleGetQRCode renders the PNG QR code that customers scan to open the
// restaurant's menu page.
func (h *RestaurantHandler) HandleGetQRCode(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if _, err := h.restaurantService.GetBySlug(slug); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Restaurant %s not found", slug),
		})
	}

	menuURL := fmt.Sprintf("%s/h/%s", h.baseURL, slug)
	png, err := qrcode.Encode(menuURL, qrcode.Medium, 512)
	if err != nil {
		log.Printf("Error encoding QR code for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate QR code",
			"error":   err.Error(),
		})
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

// HandleGetOwnRestaurant returns the authenticated owner's outlet.
func (h *RestaurantHandler) HandleGetOwnRestaurant(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)
	restaurant, err := h.restaurantService.GetByOwner(ownerID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No restaurant found for this account",
		})
	}
	return c.JSON(restaurant)
}

// HandleCreateRestaurant creates the authenticated owner's outlet.
func (h *RestaurantHandler) HandleCreateRestaurant(c *fiber.Ctx) error {
	var restaurant models.Restaurant
	if err := c.BodyParser(&restaurant); err != nil {
		log.Printf("Error parsing create-restaurant request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(restaurant); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	ownerID, _ := c.Locals("user_id").(string)
	restaurant.OwnerID = ownerID

	if err := h.restaurantService.CreateRestaurant(&restaurant); err != nil {
		log.Printf("Error creating restaurant: %v", err)
		if strings.Contains(err.Error(), "already taken") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not create restaurant",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create restaurant",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

// HandleUpdateRestaurant updates the authenticated owner's outlet.
func (h *RestaurantHandler) HandleUpdateRestaurant(c *fiber.Ctx) error {
	var restaurant models.Restaurant
	if err := c.BodyParser(&restaurant); err != nil {
		log.Printf("Error parsing update-restaurant request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(restaurant); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	ownerID, _ := c.Locals("user_id").(string)
	if err := h.restaurantService.UpdateRestaurant(ownerID, &restaurant); err != nil {
		log.Printf("Error updating restaurant %s: %v", restaurant.Slug, err)
		if strings.Contains(err.Error(), "does not belong") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You do not own this restaurant",
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Restaurant %s not found", restaurant.Slug),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update restaurant",
			"error":   err.Error(),
		})
	}
	return c.JSON(restaurant)
}
