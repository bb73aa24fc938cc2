package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"cheque-ledger-backend/internal/config"
	"cheque-ledger-backend/internal/jobs"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository/postgres"
	"cheque-ledger-backend/internal/scheduler"
	"cheque-ledger-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	job := flag.String("job", "", "Run a job once and exit: 'digest', 'snapshot' or 'all'")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Cheque Ledger cronjob runner...", "log_level", cfg.Log.Level)

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

	// Initialize Repositories and Services
	store := postgres.NewStore(db)
	reportService := service.NewReportService(store.TransactionRepository, store.CustomerRepository, store.VendorRepository, store.DepositRepository)
	emailService := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName, cfg.Email.DigestRecipients)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(reportService, emailService, store.SnapshotRepository)

	// Check if running a single job
	if *job != "" {
		logger.Info("Running job once", "job", *job)
		runJobOnce(jobRunner, *job)
		logger.Info("Job execution completed", "job", *job)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner, cfg.Scheduler)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "digest":
		jobRunner.SendDailyDigest()
	case "snapshot":
		jobRunner.TakeBalanceSnapshots()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - digest\n")
		fmt.Printf("  - snapshot\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
