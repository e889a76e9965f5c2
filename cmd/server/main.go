package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"

	httpapi "libris-backend/internal/api/http"
	"libris-backend/internal/config"
	"libris-backend/internal/logger"
	"libris-backend/internal/repository/postgres"
	"libris-backend/internal/security"
	"libris-backend/internal/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Environment overrides may live in a local .env during development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Libris Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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
	store := postgres.NewStore(db, cfg.Circulation.LowStockThreshold)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services (reminder emails are sent from the cronjob binary)
	bookSvc := service.NewBookService(store.BookRepository, store.ActivityRepository, cfg.Circulation.LowStockThreshold)
	patronSvc := service.NewPatronService(store.PatronRepository, store.FineTransactionRepository, store.ActivityRepository)
	circulationSvc := service.NewCirculationService(
		store.CirculationLedger,
		store.CheckoutRepository,
		store.ActivityRepository,
		cfg.Circulation.LoanPeriodDays,
		cfg.Circulation.MaxRenewals,
	)
	requestSvc := service.NewRequestService(
		store.BorrowRequestRepository,
		store.BookRepository,
		store.PatronRepository,
		store.ActivityRepository,
		circulationSvc,
	)
	activitySvc := service.NewActivityService(store.ActivityRepository)

	// Initialize HTTP handlers and router
	router := httpapi.NewRouter(httpapi.Handlers{
		Books:       httpapi.NewBookHandler(bookSvc),
		Patrons:     httpapi.NewPatronHandler(patronSvc),
		Circulation: httpapi.NewCirculationHandler(circulationSvc),
		Requests:    httpapi.NewRequestHandler(requestSvc),
		Activity:    httpapi.NewActivityHandler(activitySvc),
		Health:      httpapi.NewHealthHandler(db),
	}, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
