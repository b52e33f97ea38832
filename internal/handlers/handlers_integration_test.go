package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"whatsorder/internal/handlers"
	"whatsorder/internal/middleware"
	"whatsorder/internal/models"
	"whatsorder/internal/repositories"
	"whatsorder/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite, a mock
// key-value store, and all handlers/services wired the way main does it.
func setupApp() (*fiber.App, *repositories.MockKVStore, error) {
	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Initialize in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(&models.User{}, &models.Restaurant{}, &models.MenuItem{}, &models.Order{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	restaurantRepo := repositories.NewGORMRestaurantRepository(db)
	menuRepo := repositories.NewGORMMenuRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	kvStore := repositories.NewMockKVStore()

	// Initialize Services
	authService := services.NewAuthService(userRepo, jwtSecret)
	restaurantService := services.NewRestaurantService(restaurantRepo)
	menuService := services.NewMenuService(menuRepo, userRepo)
	cartService := services.NewCartService(kvStore)
	orderService := services.NewOrderService(orderRepo, restaurantRepo, cartService, nil, true) // nil for RabbitMQ client

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, "http://localhost:8080")
	menuHandler := handlers.NewMenuHandler(menuService, restaurantService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, restaurantService)

	app := fiber.New()

	// API Routes
	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	restaurantHandler.RegisterRoutes(apiV1)
	menuHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	// Owner routes (require JWT authentication)
	adminRoutes := apiV1.Group("/admin", middleware.AuthRequired(authService))
	restaurantHandler.RegisterAdminRoutes(adminRoutes)
	menuHandler.RegisterAdminRoutes(adminRoutes)
	orderHandler.RegisterAdminRoutes(adminRoutes)

	return app, kvStore, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// doJSON issues a JSON request against the app and decodes the response into out.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// registerAndLogin creates an owner account and returns its token.
func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	status := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	var loginResp map[string]string
	status = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	}, &loginResp)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// createRestaurant creates an outlet for the authenticated owner with every
// order type enabled and hours that are always open.
func createRestaurant(t *testing.T, app *fiber.App, token, slug string) {
	t.Helper()

	timings := map[string]map[string]string{}
	for _, day := range []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"} {
		timings[day] = map[string]string{"open": "00:00", "close": "23:59"}
	}
	status := doJSON(t, app, http.MethodPost, "/api/v1/admin/restaurant", token, map[string]interface{}{
		"name":                    "Spice Villa",
		"slug":                    slug,
		"whatsapp_number":         "919876543210",
		"supports_dine_in":        true,
		"supports_takeaway":       true,
		"supports_delivery":       true,
		"online_ordering_enabled": true,
		"timings":                 timings,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	var registerResp map[string]interface{}
	status := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "owner-auth@example.com",
		"password": "password123",
	}, &registerResp)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Duplicate registration conflicts
	status = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "owner-auth@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var loginResp map[string]string
	status = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "owner-auth@example.com",
		"password": "password123",
	}, &loginResp)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, loginResp["token"])

	// Wrong password is rejected
	status = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "owner-auth@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRestaurantAndMenuEndpoints(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "owner-menu@example.com")
	createRestaurant(t, app, token, "menu-villa")

	// The public directory lists the outlet
	var directory []models.Restaurant
	status := doJSON(t, app, http.MethodGet, "/api/v1/restaurants/", "", nil, &directory)
	assert.Equal(t, http.StatusOK, status)
	assert.GreaterOrEqual(t, len(directory), 1)

	// Public profile includes the open/closed status
	var profile map[string]interface{}
	status = doJSON(t, app, http.MethodGet, "/api/v1/restaurants/menu-villa", "", nil, &profile)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OPEN", profile["status"])

	// Create a couple of menu items
	var created models.MenuItem
	status = doJSON(t, app, http.MethodPost, "/api/v1/admin/menu-items", token, map[string]interface{}{
		"category": "Starters",
		"name":     "Paneer Tikka",
		"price":    160,
		"is_veg":   true,
		"variants": []map[string]interface{}{
			{"label": "Half", "price": 160},
			{"label": "Full", "price": 280},
		},
	}, &created)
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "menu-villa", created.RestaurantSlug)

	status = doJSON(t, app, http.MethodPost, "/api/v1/admin/menu-items", token, map[string]interface{}{
		"category": "Mains",
		"name":     "Masala Dosa",
		"price":    80,
		"is_veg":   true,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	// Public menu is grouped by category
	var menu []models.MenuCategory
	status = doJSON(t, app, http.MethodGet, "/api/v1/restaurants/menu-villa/menu", "", nil, &menu)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, menu, 2)

	// Mark an item sold out
	created.IsSoldOut = true
	status = doJSON(t, app, http.MethodPut, "/api/v1/admin/menu-items/"+created.ID, token, created, nil)
	assert.Equal(t, http.StatusOK, status)

	// QR code endpoint serves a PNG
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/menu-villa/qr", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	resp.Body.Close()
}

func TestCartAndOrderFlow(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "owner-cart@example.com")
	createRestaurant(t, app, token, "cart-villa")

	// Add two items to the cart
	status := doJSON(t, app, http.MethodPost, "/api/v1/carts/cart-villa/items", "", map[string]interface{}{
		"name":     "Paneer Tikka",
		"variant":  "Half",
		"price":    160,
		"is_veg":   true,
		"quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	// Same identity merges instead of duplicating
	status = doJSON(t, app, http.MethodPost, "/api/v1/carts/cart-villa/items", "", map[string]interface{}{
		"name":     "Paneer Tikka",
		"variant":  "Half",
		"price":    160,
		"quantity": 2,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	var cartResp struct {
		Items models.Cart `json:"items"`
		Total float64     `json:"total"`
	}
	status = doJSON(t, app, http.MethodGet, "/api/v1/carts/cart-villa", "", nil, &cartResp)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, cartResp.Items, 1)
	assert.Equal(t, 3, cartResp.Items[0].Quantity)
	assert.Equal(t, 480.0, cartResp.Total)

	// Place a takeaway order
	var placed services.PlacedOrder
	status = doJSON(t, app, http.MethodPost, "/api/v1/restaurants/cart-villa/orders", "", map[string]string{
		"order_type":     "takeaway",
		"customer_name":  "Asha",
		"customer_phone": "919000000000",
	}, &placed)
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, placed.OrderID)
	assert.Contains(t, placed.Message.Text, "*New Order - Spice Villa*")
	assert.Contains(t, placed.Message.Link, "https://wa.me/919876543210?text=")

	// The countdown state is exposed on the cart
	var afterOrder map[string]interface{}
	status = doJSON(t, app, http.MethodGet, "/api/v1/carts/cart-villa", "", nil, &afterOrder)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, afterOrder, "last_order_at")

	// Cancelling the auto-clear keeps the cart
	status = doJSON(t, app, http.MethodPost, "/api/v1/carts/cart-villa/cancel-auto-clear", "", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	// The owner sees the order on the dashboard with parsed items
	var orders []services.OrderView
	status = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", token, nil, &orders)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, orders, 1)
	assert.Equal(t, placed.OrderID, orders[0].ID)
	assert.Len(t, orders[0].ParsedItems, 1)
	assert.Equal(t, "Paneer Tikka", orders[0].ParsedItems[0].Name)

	// Clear the cart manually
	status = doJSON(t, app, http.MethodDelete, "/api/v1/carts/cart-villa", "", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = doJSON(t, app, http.MethodGet, "/api/v1/carts/cart-villa", "", nil, &cartResp)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, cartResp.Items)
}

func TestPlaceOrderValidation(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "owner-validate@example.com")
	createRestaurant(t, app, token, "validate-villa")

	status := doJSON(t, app, http.MethodPost, "/api/v1/carts/validate-villa/items", "", map[string]interface{}{
		"name":     "Masala Dosa",
		"price":    80,
		"quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	// Takeaway without a phone number is rejected
	var errResp map[string]interface{}
	status = doJSON(t, app, http.MethodPost, "/api/v1/restaurants/validate-villa/orders", "", map[string]string{
		"order_type":    "takeaway",
		"customer_name": "Asha",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)

	// Delivery without an address is rejected
	status = doJSON(t, app, http.MethodPost, "/api/v1/restaurants/validate-villa/orders", "", map[string]string{
		"order_type":     "delivery",
		"customer_name":  "Asha",
		"customer_phone": "919000000000",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Unknown order types never reach the builder
	status = doJSON(t, app, http.MethodPost, "/api/v1/restaurants/validate-villa/orders", "", map[string]string{
		"order_type":    "drone-drop",
		"customer_name": "Asha",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// An empty cart cannot be ordered
	status = doJSON(t, app, http.MethodDelete, "/api/v1/carts/validate-villa", "", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = doJSON(t, app, http.MethodPost, "/api/v1/restaurants/validate-villa/orders", "", map[string]string{
		"order_type":     "takeaway",
		"customer_name":  "Asha",
		"customer_phone": "919000000000",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCustomerDetailsEndpoints(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	status := doJSON(t, app, http.MethodPut, "/api/v1/customer", "", map[string]string{
		"name":    "Asha",
		"phone":   "919000000000",
		"address": "12 MG Road",
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	var details models.CustomerDetails
	status = doJSON(t, app, http.MethodGet, "/api/v1/customer", "", nil, &details)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Asha", details.Name)
	assert.Equal(t, "919000000000", details.Phone)
}
