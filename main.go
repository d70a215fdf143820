package main

import (
	"context"
	"crypto/tls"

	"github.com/izzico/izzico-backend/config"
	"github.com/izzico/izzico-backend/db"
	"github.com/izzico/izzico-backend/handlers"
	"github.com/izzico/izzico-backend/internal/store/postgres"
	"github.com/izzico/izzico-backend/logger"
	"github.com/izzico/izzico-backend/router"
	"github.com/izzico/izzico-backend/services"
	"github.com/izzico/izzico-backend/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Apply schema migrations before accepting traffic.
	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Database pool, TLS in production.
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnString())
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	if cfg.IsProduction() {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host,
			MinVersion: tls.VersionTLS12,
		}
	}
	if cfg.Database.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Redis client, TLS in production.
	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		_ = redisClient.Close()
	}()

	supabaseClient, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil)
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}

	// Stores
	expenseStore := postgres.NewExpenseStore(pool)
	settlementStore := postgres.NewSettlementStore(pool)
	bankInfoStore := postgres.NewBankInfoStore(pool)
	propertyStore := postgres.NewPropertyStore(pool)
	userStore := postgres.NewUserStore(pool)

	// Services
	rateLimitService := services.NewRateLimitService(redisClient)
	emailService := services.NewEmailService(&cfg.Email)
	expenseService := services.NewExpenseService(expenseStore, settlementStore, propertyStore, userStore)
	settlementService := services.NewSettlementService(settlementStore, bankInfoStore,
		propertyStore, userStore, rateLimitService, emailService, cfg.RateLimit)
	bankInfoService := services.NewBankInfoService(bankInfoStore)
	exportService := services.NewExportService(expenseService, func(ctx context.Context, id string) (*types.Property, error) {
		return propertyStore.GetProperty(ctx, id)
	})
	healthService := services.NewHealthService(pool, redisClient, Version)

	// Handlers and router
	deps := router.Dependencies{
		Config:            cfg,
		ExpenseHandler:    handlers.NewExpenseHandler(expenseService, exportService),
		SettlementHandler: handlers.NewSettlementHandler(settlementService),
		BankInfoHandler:   handlers.NewBankInfoHandler(bankInfoService),
		AuthHandler:       handlers.NewAuthHandler(supabaseClient, cfg),
		HealthHandler:     handlers.NewHealthHandler(healthService),
		Logger:            log,
	}
	r := router.SetupRouter(deps)

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
