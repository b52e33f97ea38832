package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"whatsorder/internal/models"
	"whatsorder/internal/repositories"
	"whatsorder/pkg/rabbitmq"
	"whatsorder/pkg/whatsapp"

	"github.com/google/uuid"
)

// dashboardOrderLimit caps how many orders the polling dashboard fetches.
const dashboardOrderLimit = 50

// PlaceOrderRequest carries the customer's order form for one restaurant.
type PlaceOrderRequest struct {
	OrderType       string `json:"order_type" validate:"required,oneof=dine-in takeaway delivery"`
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerPhone   string `json:"customer_phone"`
	DineInLocation  string `json:"dine_in_location"`
	DeliveryArea    string `json:"delivery_area"`
	DeliveryAddress string `json:"delivery_address"`
}

// PlacedOrder is the result of a successful placement: the WhatsApp message
// plus the persisted order ID when dashboard receipt is enabled.
type PlacedOrder struct {
	OrderID string           `json:"order_id,omitempty"`
	Message whatsapp.Message `json:"message"`
}

// OrderView is an order with its item strings parsed back into line items
// for the dashboard. Elements that fail to parse are skipped.
type OrderView struct {
	models.Order
	ParsedItems []models.CartItem `json:"parsed_items"`
}

// OrderService handles order placement and the restaurant-side dashboard
// feed. Order persistence is supplementary: if it fails the customer still
// gets the WhatsApp deep link.
type OrderService struct {
	orderRepo       repositories.OrderRepository
	restaurantRepo  repositories.RestaurantRepository
	cartService     *CartService
	mqClient        *rabbitmq.Client // nil when eventing is disabled
	dashboardOrders bool             // persist orders for the live dashboard
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, restaurantRepo repositories.RestaurantRepository, cartService *CartService, mqClient *rabbitmq.Client, dashboardOrders bool) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		restaurantRepo:  restaurantRepo,
		cartService:     cartService,
		mqClient:        mqClient,
		dashboardOrders: dashboardOrders,
	}
}

// PlaceOrder builds the outbound WhatsApp message for the tenant's cart,
// persists the order for the dashboard when enabled, and starts the cart's
// auto-clear countdown.
func (s *OrderService) PlaceOrder(slug string, req PlaceOrderRequest) (*PlacedOrder, error) {
	restaurant, err := s.restaurantRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartService.Cart(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for %s: %w", slug, err)
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("cart for restaurant %s is empty", slug)
	}

	total := cart.Total()
	message := whatsapp.BuildOrder(restaurant, whatsapp.OrderDetails{
		CustomerName:   req.CustomerName,
		Phone:          req.CustomerPhone,
		Address:        req.DeliveryAddress,
		DineInLocation: req.DineInLocation,
		OrderType:      req.OrderType,
		Items:          cart,
		Total:          total,
	})

	placed := &PlacedOrder{Message: message}

	// Persist and publish best-effort. A failure here must never block the
	// deep-link flow.
	if s.dashboardOrders {
		order := &models.Order{
			ID:              uuid.New().String(),
			RestaurantID:    restaurant.Slug,
			OrderType:       req.OrderType,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			DineInLocation:  req.DineInLocation,
			DeliveryArea:    req.DeliveryArea,
			DeliveryAddress: req.DeliveryAddress,
			Items:           serializeItems(cart),
			Total:           total,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
		if err := s.orderRepo.Create(order); err != nil {
			log.Printf("Warning: failed to persist order for restaurant %s: %v", slug, err)
		} else {
			placed.OrderID = order.ID
			s.publishOrderCreated(order)
		}
	}

	if err := s.cartService.PlaceOrder(slug); err != nil {
		log.Printf("Warning: failed to start auto-clear countdown for %s: %v", slug, err)
	}

	return placed, nil
}

// ListOrders returns the newest orders for a restaurant with their item
// strings parsed, skipping any element that fails to parse so one bad entry
// never hides the rest of the order.
func (s *OrderService) ListOrders(restaurantID string) ([]OrderView, error) {
	orders, err := s.orderRepo.GetByRestaurant(restaurantID, dashboardOrderLimit)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view := OrderView{Order: order, ParsedItems: make([]models.CartItem, 0, len(order.Items))}
		for _, raw := range order.Items {
			var item models.CartItem
			if err := json.Unmarshal([]byte(raw), &item); err != nil {
				log.Printf("Skipping unparseable item in order %s: %v", order.ID, err)
				continue
			}
			view.ParsedItems = append(view.ParsedItems, item)
		}
		views = append(views, view)
	}
	return views, nil
}

// serializeItems marshals each cart line into its own JSON string. The
// dashboard reader depends on this exact one-string-per-item shape.
func serializeItems(cart models.Cart) []string {
	items := make([]string, 0, len(cart))
	for _, item := range cart {
		data, err := json.Marshal(item)
		if err != nil {
			log.Printf("Warning: failed to serialize cart item %s: %v", item.Name, err)
			continue
		}
		items = append(items, string(data))
	}
	return items
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.mqClient == nil {
		return
	}

	event := map[string]interface{}{
		"orderID":      order.ID,
		"restaurantID": order.RestaurantID,
		"orderType":    order.OrderType,
		"total":        order.Total,
	}
	if err := s.mqClient.PublishOrderCreated(event); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published order created event for order %s", order.ID)
	}
}
