package handlers

import (
	"fmt"
	"log"
	"strings"
	"whatsorder/internal/models"
	"whatsorder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for menus: the public menu view and the
// owner's menu management.
type MenuHandler struct {
	menuService       *services.MenuService
	restaurantService *services.RestaurantService
	validate          *validator.Validate
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menuService *services.MenuService, restaurantService *services.RestaurantService) *MenuHandler {
	return &MenuHandler{
		menuService:       menuService,
		restaurantService: restaurantService,
		validate:          validator.New(),
	}
}

// RegisterRoutes registers the public menu routes with the Fiber app.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/restaurants/:slug/menu", h.HandleGetMenu)
}

// RegisterAdminRoutes registers the owner-facing menu routes. The caller
// wraps the router in auth middleware.
func (h *MenuHandler) RegisterAdminRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu-items")
	menuRoutes.Post("/", h.HandleCreateItem)
	menuRoutes.Put("/:id", h.HandleUpdateItem)
	menuRoutes.Delete("/:id", h.HandleDeleteItem)
}

// HandleGetMenu returns a restaurant's menu grouped into categories.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	slug := c.Params("slug")
	menu, err := h.menuService.Menu(slug)
	if err != nil {
		log.Printf("Error getting menu for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu",
			"error":   err.Error(),
		})
	}
	return c.JSON(menu)
}

// ownRestaurantSlug resolves the authenticated owner's restaurant and
// reports whether it matches the requested slug.
func (h *MenuHandler) ownRestaurantSlug(c *fiber.Ctx) (string, error) {
	ownerID, _ := c.Locals("user_id").(string)
	restaurant, err := h.restaurantService.GetByOwner(ownerID)
	if err != nil {
		return "", err
	}
	return restaurant.Slug, nil
}

// HandleCreateItem creates a menu item on the owner's restaurant, enforcing
// the subscription plan's item limit.
func (h *MenuHandler) HandleCreateItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing create-menu-item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	slug, err := h.ownRestaurantSlug(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No restaurant found for this account",
		})
	}
	item.RestaurantSlug = slug

	if err := h.validate.Struct(item); err != nil {
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
	if err := h.menuService.CreateItem(ownerID, &item); err != nil {
		log.Printf("Error creating menu item: %v", err)
		if strings.Contains(err.Error(), "limited to") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Plan limit reached",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create menu item",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem updates a menu item on the owner's restaurant.
func (h *MenuHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	existing, err := h.menuService.GetItem(itemID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Menu item with ID %s not found", itemID),
		})
	}

	slug, err := h.ownRestaurantSlug(c)
	if err != nil || existing.RestaurantSlug != slug {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not own this menu item",
		})
	}

	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing update-menu-item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	item.ID = itemID
	item.RestaurantSlug = slug

	if err := h.validate.Struct(item); err != nil {
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

	if err := h.menuService.UpdateItem(&item); err != nil {
		log.Printf("Error updating menu item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleDeleteItem deletes a menu item on the owner's restaurant.
func (h *MenuHandler) HandleDeleteItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	existing, err := h.menuService.GetItem(itemID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Menu item with ID %s not found", itemID),
		})
	}

	slug, err := h.ownRestaurantSlug(c)
	if err != nil || existing.RestaurantSlug != slug {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not own this menu item",
		})
	}

	if err := h.menuService.DeleteItem(itemID); err != nil {
		log.Printf("Error deleting menu item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Menu item %s deleted successfully", itemID),
	})
}
