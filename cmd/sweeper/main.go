package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"rentalops-backend/internal/config"
	"rentalops-backend/internal/jobs"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository/postgres"
	"rentalops-backend/internal/scheduler"
	"rentalops-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-booking-statuses', 'mark-overdue-payments', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentalOps Sweeper...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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
	store := postgres.NewStore(db, postgres.SettingsDefaults{
		CompanyName:           cfg.Billing.CompanyName,
		Currency:              cfg.Billing.Currency,
		VatRate:               cfg.Billing.VatRate,
		InvoicePrefix:         cfg.Billing.InvoicePrefix,
		InitialInvoiceCounter: cfg.Billing.InitialInvoiceCounter,
	})

	// Initialize Services
	sweeperService := service.NewSweeperService(
		store.BookingRepository,
		store.CarRepository,
		store.PaymentRepository,
	)

	jobServices := &jobs.Services{
		Sweeper: sweeperService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Sweeper scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received")
	cronScheduler.Stop()
	logger.Info("Sweeper stopped")
}

// runJobOnce executes a single named job for manual runs
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-booking-statuses":
		jobRunner.SweepBookingStatuses()
	case "mark-overdue-payments":
		jobRunner.MarkOverduePayments()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		log.Fatalf("Unknown job name: %s", jobName)
	}
}
