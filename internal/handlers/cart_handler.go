package handlers

import (
	"fmt"
	"log"
	"whatsorder/internal/models"
	"whatsorder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for per-restaurant carts and the global
// customer details. Every cart route is scoped by the restaurant slug.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts/:slug")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items", h.HandleRemoveItem)
	cartRoutes.Post("/cancel-auto-clear", h.HandleCancelAutoClear)

	router.Get("/customer", h.HandleGetCustomerDetails)
	router.Put("/customer", h.HandleSetCustomerDetails)
}

// scoped binds the cart service to the slug in the request path, hydrating
// the tenant's state if this is its first access.
func (h *CartHandler) scoped(c *fiber.Ctx) (*services.ScopedCart, error) {
	return h.cartService.Scoped(c.Params("slug"))
}

// HandleGetCart returns the cart contents, total, and auto-clear state for
// one restaurant. The client renders the countdown from last_order_at.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.scoped(c)
	if err != nil {
		log.Printf("Error loading cart for %s: %v", c.Params("slug"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
			"error":   err.Error(),
		})
	}

	items, err := cart.Items()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
			"error":   err.Error(),
		})
	}
	total, err := cart.Total()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute cart total",
			"error":   err.Error(),
		})
	}

	response := fiber.Map{
		"items": items,
		"total": total,
	}
	if lastOrderAt, ok, err := cart.LastOrderAt(); err == nil && ok {
		response["last_order_at"] = lastOrderAt
		suppressed, _ := cart.AutoClearSuppressed()
		response["auto_clear_suppressed"] = suppressed
	}
	return c.JSON(response)
}

// HandleAddItem merges an item into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var item models.CartItem
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing add-item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

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

	cart, err := h.scoped(c)
	if err == nil {
		err = cart.AddItem(item)
	}
	if err != nil {
		log.Printf("Error adding item to cart for %s: %v", c.Params("slug"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item added to cart",
	})
}

// UpdateQuantityRequest represents the request body for a quantity change.
// A quantity of zero or below removes the line.
type UpdateQuantityRequest struct {
	Name     string `json:"name" validate:"required"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
}

// HandleUpdateQuantity sets a line's quantity.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-quantity request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Item name is required",
		})
	}

	cart, err := h.scoped(c)
	if err == nil {
		err = cart.UpdateQuantity(req.Name, req.Variant, req.Quantity)
	}
	if err != nil {
		log.Printf("Error updating quantity in cart for %s: %v", c.Params("slug"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update item quantity",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Quantity updated",
	})
}

// HandleRemoveItem removes a line identified by the name and variant query
// parameters.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Item name is required",
		})
	}

	cart, err := h.scoped(c)
	if err == nil {
		err = cart.RemoveItem(name, c.Query("variant"))
	}
	if err != nil {
		log.Printf("Error removing item from cart for %s: %v", c.Params("slug"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Item removed",
	})
}

// HandleClearCart empties the cart. A manual clear always wins over any
// pending auto-clear.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cart, err := h.scoped(c)
	if err == nil {
		err = cart.Clear()
	}
	if err != nil {
		log.Printf("Error clearing cart for %s: %v", c.Params("slug"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// HandleCancelAutoClear keeps the cart past the auto-clear window. The call
// is idempotent; cancelling an already-cancelled clear is fine.
func (h *CartHandler) HandleCancelAutoClear(c *fiber.Ctx) error {
	cart, err := h.scoped(c)
	if err == nil {
		err = cart.CancelAutoClear()
	}
	if err != nil {
		log.Printf("Error cancelling auto-clear for %s: %v", c.Params("slug"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not cancel auto-clear",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Auto-clear cancelled",
	})
}

// HandleGetCustomerDetails returns the globally stored customer details.
func (h *CartHandler) HandleGetCustomerDetails(c *fiber.Ctx) error {
	details, err := h.cartService.CustomerDetails()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load customer details",
			"error":   err.Error(),
		})
	}
	return c.JSON(details)
}

// HandleSetCustomerDetails stores the customer details shared across all
// restaurants.
func (h *CartHandler) HandleSetCustomerDetails(c *fiber.Ctx) error {
	var details models.CustomerDetails
	if err := c.BodyParser(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.cartService.SetCustomerDetails(details); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save customer details",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Customer details saved",
	})
}
