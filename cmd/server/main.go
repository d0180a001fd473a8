package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/Benardkosgei/ecolithafricaswap-sub000/internal/api/http"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/config"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/jobs"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/logger"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/queue"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository/postgres"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/scheduler"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/security"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Ecolith swap engine...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize event notifier
	var notifier queue.Notifier = queue.NopNotifier{}
	if cfg.RabbitMQ.URL != "" {
		notifier = queue.NewAsyncNotifier(queue.NewPublisher(cfg.RabbitMQ.URL))
		logger.Info("Event publishing enabled", "queue", queue.QueueName)
	} else {
		logger.Warn("RabbitMQ URL not configured, events will be dropped")
	}

	// Initialize Services
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.BatteryRepository,
		store.StationRepository,
		notifier,
		cfg.Billing.HourlyRateCents,
	)
	paymentSvc := service.NewPaymentService(
		store.PaymentRepository,
		store.RentalRepository,
		notifier,
		cfg.Billing.Currency,
	)

	// Initialize HTTP handlers and router
	rentalHandler := httpapi.NewRentalHandler(rentalSvc)
	paymentHandler := httpapi.NewPaymentHandler(paymentSvc)
	router := httpapi.NewRouter(db, tokenManager, rentalHandler, paymentHandler)

	// Initialize scheduler
	jobRunner := jobs.NewJobRunner(db, store, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
