package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "cheque-ledger-backend/internal/api/http"
	"cheque-ledger-backend/internal/config"
	"cheque-ledger-backend/internal/jobs"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository/postgres"
	"cheque-ledger-backend/internal/scheduler"
	"cheque-ledger-backend/internal/security"
	"cheque-ledger-backend/internal/service"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	skipMigrations := flag.Bool("skip-migrations", false, "Do not apply schema migrations on startup")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Cheque Ledger backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if !*skipMigrations {
		if err := postgres.RunMigrations(cfg.GetDatabaseConnectionString()); err != nil {
			logger.Error("Failed to run migrations", "error", err)
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.SessionTTL())
	var revocations security.RevocationStore
	if cfg.Session.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Error("Failed to ping redis", "addr", cfg.Session.RedisAddr, "error", err)
			log.Fatalf("Failed to ping redis: %v", err)
		}
		logger.Info("Session revocations stored in redis", "addr", cfg.Session.RedisAddr)
		revocations = security.NewRedisRevocationStore(rdb)
	} else {
		logger.Warn("No redis configured; logouts are forgotten on restart")
		revocations = security.NewMemoryRevocationStore()
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, revocations)
	userSvc := service.NewUserService(store.UserRepository, revocations, tokenManager.SessionTTL())
	customerSvc := service.NewCustomerService(store.CustomerRepository, store.TransactionRepository)
	vendorSvc := service.NewVendorService(store.VendorRepository, store.TransactionRepository)
	txSvc := service.NewTransactionService(store.TransactionRepository, store.CustomerRepository, store.VendorRepository)
	depositSvc := service.NewDepositService(store.DepositRepository, store.CustomerRepository, store.VendorRepository)
	reportSvc := service.NewReportService(store.TransactionRepository, store.CustomerRepository, store.VendorRepository, store.DepositRepository)
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName, cfg.Email.DigestRecipients)

	created, err := authSvc.EnsureBootstrapSuperuser(context.Background(), cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword)
	if err != nil {
		logger.Error("Failed to create bootstrap superuser", "error", err)
		log.Fatalf("Failed to create bootstrap superuser: %v", err)
	}
	if created {
		logger.Info("Bootstrap superuser created", "username", cfg.Auth.BootstrapUsername)
	}

	// Set up HTTP router
	opts := httpapi.Options{
		CookieName:     cfg.Auth.CookieName,
		CookieSecure:   cfg.Auth.CookieSecure,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsPath:    cfg.Metrics.Path,
		DB:             store,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = httpapi.NewMetrics()
	}
	router := httpapi.NewRouter(httpapi.Services{
		Auth:         authSvc,
		Users:        userSvc,
		Customers:    customerSvc,
		Vendors:      vendorSvc,
		Transactions: txSvc,
		Deposits:     depositSvc,
		Reports:      reportSvc,
	}, opts)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Initialize Scheduler
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobRunner := jobs.NewJobRunner(reportSvc, emailSvc, store.SnapshotRepository)
		cronScheduler, err = scheduler.NewScheduler(jobRunner, cfg.Scheduler)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cronScheduler != nil {
		cronScheduler.Start()
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		if cronScheduler != nil {
			cronScheduler.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped. Goodbye!")
}
