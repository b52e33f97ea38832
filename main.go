package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"whatsorder/internal/handlers"
	"whatsorder/internal/middleware"
	"whatsorder/internal/models"
	"whatsorder/internal/repositories"
	"whatsorder/internal/services"
	"whatsorder/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("JWT_SECRET", "change_me")
	viper.SetDefault("DATABASE_DSN", "whatsorder.db")
	viper.SetDefault("STORE_BACKEND", "gorm") // gorm | redis | memory
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("DASHBOARD_ORDERS", true)
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&repositories.KVEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Cart state store ---
	kvStore, err := openKVStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize cart state store: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// When no URL is configured, order events are simply not published.
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	restaurantRepo := repositories.NewGORMRestaurantRepository(db)
	menuRepo := repositories.NewGORMMenuRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	restaurantService := services.NewRestaurantService(restaurantRepo)
	menuService := services.NewMenuService(menuRepo, userRepo)
	cartService := services.NewCartService(kvStore)
	orderService := services.NewOrderService(orderRepo, restaurantRepo, cartService, mqClient, viper.GetBool("DASHBOARD_ORDERS"))

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, viper.GetString("BASE_URL"))
	menuHandler := handlers.NewMenuHandler(menuService, restaurantService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, restaurantService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
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

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start Auto-Clear Sweeper ---
	// Empties carts 30s after an order was placed unless the customer
	// cancelled the auto-clear; also cleans up carts from earlier sessions.
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	cartService.StartSweeper(sweepCtx)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	cancelSweep()
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase connects to Postgres when the DSN looks like a connection URL
// and falls back to a SQLite file otherwise, matching local-first deployment.
func openDatabase(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// openKVStore picks the cart state backend from configuration.
func openKVStore(db *gorm.DB) (repositories.KVStore, error) {
	switch backend := viper.GetString("STORE_BACKEND"); backend {
	case "redis":
		return repositories.NewRedisKVStore(viper.GetString("REDIS_ADDR"), viper.GetString("REDIS_PASSWORD"))
	case "memory":
		log.Println("Using in-memory cart state store; carts do not survive restarts")
		return repositories.NewMockKVStore(), nil
	default:
		return repositories.NewGORMKVStore(db), nil
	}
}
