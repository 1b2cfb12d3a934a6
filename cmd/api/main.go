package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ordino-pos/ordino-api/internal/application/service"
	"github.com/ordino-pos/ordino-api/internal/config"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/cache"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/database"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/repository"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/handler"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/routes"
	"github.com/ordino-pos/ordino-api/pkg/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Initialize repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	tableRepo := repository.NewTableRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	itemRepo := repository.NewItemRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	receiptItemRepo := repository.NewReceiptItemRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize audit recorder
	auditRecorder := audit.NewRecorder(auditLogRepo, cfg.Kafka)
	defer auditRecorder.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	tableService := service.NewTableService(tableRepo, auditRecorder)
	menuService := service.NewMenuService(sectionRepo, itemRepo, historyRepo, redisCache, tx, auditRecorder)
	receiptService := service.NewReceiptService(receiptRepo, receiptItemRepo, itemRepo, tableRepo, allocationRepo, tx, auditRecorder)
	receiptItemService := service.NewReceiptItemService(receiptRepo, receiptItemRepo, auditRecorder)
	discountEngine := service.NewDiscountEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo, tx, auditRecorder, cfg.Discounts.AllowReapply)
	discountService := service.NewDiscountService(discountRepo, itemRepo, tx, auditRecorder)
	kitchenService := service.NewKitchenService(receiptItemRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Table:    handler.NewTableHandler(tableService),
		Menu:     handler.NewMenuHandler(menuService),
		Receipt:  handler.NewReceiptHandler(receiptService, receiptItemService, discountEngine),
		Discount: handler.NewDiscountHandler(discountService),
		Kitchen:  handler.NewKitchenHandler(kitchenService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("service", cfg.App.Name).Str("port", port).Str("env", cfg.App.Env).Msg("Starting server")

	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
