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

// OrderHandler handles HTTP requests for order placement and the live orders
// dashboard.
type OrderHandler struct {
	orderService      *services.OrderService
	restaurantService *services.RestaurantService
	validate          *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, restaurantService *services.RestaurantService) *OrderHandler {
	return &OrderHandler{
		orderService:      orderService,
		restaurantService: restaurantService,
		validate:          validator.New(),
	}
}

// RegisterRoutes registers the public order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/restaurants/:slug/orders", h.HandlePlaceOrder)
}

// RegisterAdminRoutes registers the owner-facing order routes. The caller
// wraps the router in auth middleware.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleListOrders)
}

// HandlePlaceOrder validates the order form against the restaurant's
// configuration and places the order, returning the WhatsApp message and
// deep link.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing place-order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
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

	restaurant, err := h.restaurantService.GetBySlug(slug)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Restaurant %s not found", slug),
		})
	}

	if fieldErrors := validateOrderForm(restaurant, req); len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
	}

	if !restaurant.OnlineOrderingEnabled {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Online ordering is disabled for this restaurant",
		})
	}
	if status := h.restaurantService.Status(restaurant); status != services.StatusOpen {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Restaurant is currently closed",
			"status":  status,
		})
	}

	placed, err := h.orderService.PlaceOrder(slug, req)
	if err != nil {
		log.Printf("Error placing order for %s: %v", slug, err)
		if strings.Contains(err.Error(), "is empty") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cannot place an order with an empty cart",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not place order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(placed)
}

// validateOrderForm enforces the order-type specific required fields: phone
// for takeaway and delivery, address for delivery, and a delivery area when
// the restaurant defines areas. Dine-in needs neither; a missing dine-in
// location falls back downstream, never blank.
func validateOrderForm(restaurant *models.Restaurant, req services.PlaceOrderRequest) map[string]string {
	fieldErrors := make(map[string]string)

	switch req.OrderType {
	case models.OrderTypeDineIn:
		if !restaurant.SupportsDineIn {
			fieldErrors["order_type"] = "This restaurant does not support dine-in orders"
		}
	case models.OrderTypeTakeaway:
		if !restaurant.SupportsTakeaway {
			fieldErrors["order_type"] = "This restaurant does not support takeaway orders"
		}
		if strings.TrimSpace(req.CustomerPhone) == "" {
			fieldErrors["customer_phone"] = "Phone number is required"
		}
	case models.OrderTypeDelivery:
		if !restaurant.SupportsDelivery {
			fieldErrors["order_type"] = "This restaurant does not support delivery orders"
		}
		if strings.TrimSpace(req.CustomerPhone) == "" {
			fieldErrors["customer_phone"] = "Phone number is required"
		}
		if strings.TrimSpace(req.DeliveryAddress) == "" {
			fieldErrors["delivery_address"] = "Delivery address is required"
		}
		if len(restaurant.DeliveryAreas) > 0 && req.DeliveryArea == "" {
			fieldErrors["delivery_area"] = "Please select a delivery area"
		}
	}

	return fieldErrors
}

// HandleListOrders returns the newest orders for the authenticated owner's
// restaurant. The dashboard polls this endpoint.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)
	if ownerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing user identity",
		})
	}

	restaurant, err := h.restaurantService.GetByOwner(ownerID)
	if err != nil {
		log.Printf("Error resolving restaurant for owner %s: %v", ownerID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No restaurant found for this account",
		})
	}

	orders, err := h.orderService.ListOrders(restaurant.Slug)
	if err != nil {
		log.Printf("Error listing orders for %s: %v", restaurant.Slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}
