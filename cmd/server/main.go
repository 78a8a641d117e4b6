package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/database"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/handlers"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/logger"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/rabbitmq"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/routes"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/service"
)

const drainTimeout = 10 * time.Second

func main() {
	// Initialize logger (production mode by default, can be changed via env)
	log, err := logger.New("pizzeria-order-notification", os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to PostgreSQL
	db, err := database.Connect(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := database.RunMigrations(&cfg.Database, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to RabbitMQ
	rmq := rabbitmq.NewConnection(&cfg.RabbitMQ, log)
	if err := rmq.Connect(); err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rmq.Close()

	// Wire components and start the ingestion consumers
	svc := service.New(cfg, db, rmq, log)
	if err := svc.StartConsumers(); err != nil {
		log.Fatal("Failed to start consumers", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Pizzeria Order Notification Service",
		ServerHeader: "Fiber",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Setup routes
	routes.SetupRoutes(app,
		handlers.NewHealthHandler(db, rmq),
		handlers.NewOrdersHandler(svc.Orders, log),
		handlers.NewNotificationsHandler(svc.Notifier, rmq, &cfg.Bus, log),
	)

	// Start server in a goroutine
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		log.Info("Server starting",
			zap.String("address", addr),
		)
		if err := app.Listen(addr); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("Error during server shutdown", zap.Error(err))
	}

	// Stop consuming, then let in-flight notification deliveries finish
	svc.StopConsumers()

	drained := make(chan struct{})
	go func() {
		svc.Notifier.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		log.Warn("Timed out waiting for in-flight notifications")
	}

	log.Info("Server stopped")
}
