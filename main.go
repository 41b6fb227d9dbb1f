package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/streadway/amqp"

	"freshmart/internal/cache"
	"freshmart/internal/config"
	"freshmart/internal/database"
	"freshmart/internal/handlers"
	"freshmart/internal/middleware"
	"freshmart/internal/models"
	"freshmart/internal/render"
	"freshmart/internal/repositories"
	"freshmart/internal/services"
	"freshmart/pkg/mailer"
	"freshmart/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Repositories ---
	// With no DSN configured the app boots on in-memory stores, which
	// is enough for local development.
	var (
		userRepo    repositories.UserRepository
		addressRepo repositories.AddressRepository
		skuRepo     repositories.SKURepository
		orderRepo   repositories.OrderRepository
	)
	if cfg.DatabaseDSN != "" {
		db, err := database.Connect(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		userRepo = repositories.NewGORMUserRepository(db)
		addressRepo = repositories.NewGORMAddressRepository(db)
		skuRepo = repositories.NewGORMSKURepository(db)
		orderRepo = repositories.NewGORMOrderRepository(db)
	} else {
		log.Println("No DATABASE_DSN configured, using in-memory stores")
		userRepo = repositories.NewMockUserRepository()
		addressRepo = repositories.NewMockAddressRepository()
		mockSKUs := repositories.NewMockSKURepository()
		seedSKUs(mockSKUs)
		skuRepo = mockSKUs
		orderRepo = repositories.NewMockOrderRepository()
	}

	// --- Recent-view cache ---
	var history cache.HistoryStore
	if cfg.RedisAddr != "" {
		redisHistory := cache.NewRedisHistory(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisHistory.Close()
		history = redisHistory
	} else {
		log.Println("No REDIS_ADDR configured, using in-memory view history")
		history = cache.NewMockHistory()
	}

	// --- Activation email queue ---
	var mqClient *rabbitmq.Client
	var dispatcher services.ActivationDispatcher
	if cfg.RabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		dispatcher = mqClient
	} else {
		log.Println("No RABBITMQ_URL configured, activation emails will be skipped")
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, dispatcher, cfg.SecretKey)
	profileService := services.NewProfileService(addressRepo, skuRepo, history)
	orderService := services.NewOrderService(orderRepo, cfg.OrderPageSize)
	addressService := services.NewAddressService(addressRepo)
	catalogService := services.NewCatalogService(skuRepo)

	// --- Fiber app ---
	store := session.New()
	app := fiber.New(fiber.Config{
		Views: render.New(cfg.TemplateDir),
	})
	app.Use(logger.New()) // Request logger

	// --- Routes ---
	authHandler := handlers.NewAuthHandler(authService, store)
	authHandler.RegisterRoutes(app)

	userHandler := handlers.NewUserHandler(profileService, orderService, addressService)
	userHandler.RegisterRoutes(app, middleware.LoginRequired(store, userRepo))

	app.Get("/", func(c *fiber.Ctx) error {
		skus, err := catalogService.GetAllSKUs()
		if err != nil {
			log.Printf("Error loading catalog: %v", err)
		}
		return c.Render("index", fiber.Map{"Goods": skus})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Mail worker ---
	// Drains the activation queue and delivers the emails. Without an
	// SMTP host the sender just logs, which keeps development usable.
	if mqClient != nil {
		var sender mailer.Sender
		if cfg.SMTPHost != "" {
			sender = mailer.NewSMTPSender(mailer.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
			})
		} else {
			sender = &mailer.LogSender{}
		}

		go func() {
			log.Println("Starting activation email worker...")
			handler := func(msg amqp.Delivery) error {
				var task rabbitmq.ActivationEmailTask
				if err := json.Unmarshal(msg.Body, &task); err != nil {
					log.Printf("Discarding malformed activation task: %v", err)
					return nil // Ack it: requeueing cannot fix a bad payload
				}
				subject, body := mailer.ComposeActivation(task.Username, task.Token, cfg.BaseURL)
				return sender.Send(task.Email, subject, body)
			}
			if err := mqClient.ConsumeActivationEmails(handler); err != nil {
				log.Printf("Failed to start activation email worker: %v", err)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// seedSKUs populates the in-memory catalog with some initial data.
func seedSKUs(repo repositories.SKURepository) {
	skus := []models.SKU{
		{ID: "sku-1", Name: "Strawberries", Description: "Fresh strawberries", Unit: "500g", Price: 12.50, Stock: 100, Image: "/static/strawberry.jpg"},
		{ID: "sku-2", Name: "Mangoes", Description: "Sweet ripe mangoes", Unit: "1kg", Price: 18.00, Stock: 60, Image: "/static/mango.jpg"},
		{ID: "sku-3", Name: "Oranges", Description: "Navel oranges", Unit: "1kg", Price: 9.50, Stock: 200, Image: "/static/orange.jpg"},
	}
	for i := range skus {
		if err := repo.Create(&skus[i]); err != nil {
			log.Printf("Error seeding SKU %s: %v", skus[i].Name, err)
		}
	}
}
