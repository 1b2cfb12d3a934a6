package database

import (
	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/config"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying sql.DB")
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info().Msg("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},

		// Floor and menu entities
		&entity.Table{},
		&entity.Section{},
		&entity.Item{},
		&entity.ItemPriceHistory{},

		// Receipt entities
		&entity.Receipt{},
		&entity.ReceiptItem{},
		&entity.ReceiptCounter{},

		// Discount entities
		&entity.Discount{},
		&entity.DiscountItem{},
		&entity.DiscountCondition{},
		&entity.ReceiptDiscount{},
		&entity.ReceiptItemDiscount{},

		// System entities
		&entity.IdempotencyKey{},
		&entity.AuditLog{},
	)

	if err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default roles, the receipt number
// counter row, and an admin user when configured via environment variables.
func SeedDefaultData(db *gorm.DB) error {
	log.Info().Msg("Seeding default data...")

	roleNames := []string{"admin", "manager", "waiter", "cashier", "kitchen"}
	for _, name := range roleNames {
		var existing entity.Role
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			role := entity.Role{Name: name}
			if err := db.Create(&role).Error; err != nil {
				log.Warn().Err(err).Str("role", name).Msg("failed to create role")
			}
		}
	}

	// The counter row must exist before the first receipt is created.
	var counter entity.ReceiptCounter
	if err := db.First(&counter, "id = 1").Error; err != nil {
		counter = entity.ReceiptCounter{ID: 1, Value: 0}
		if err := db.Create(&counter).Error; err != nil {
			return errors.Wrap(err, "failed to seed receipt counter")
		}
	}

	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminUsername != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("username = ?", adminUsername).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Warn().Err(err).Msg("failed to hash admin password")
			} else {
				var adminRole entity.Role
				if err := db.Where("name = ?", "admin").First(&adminRole).Error; err == nil {
					if adminName == "" {
						adminName = "Administrator"
					}
					adminUser := entity.User{
						ID:       uuid.New(),
						FullName: adminName,
						Username: adminUsername,
						Password: string(hashedPassword),
						IsActive: true,
						Roles:    []entity.Role{adminRole},
					}
					if err := db.Create(&adminUser).Error; err != nil {
						log.Warn().Err(err).Msg("failed to create admin user")
					} else {
						log.Info().Str("username", adminUsername).Msg("Admin user created")
					}
				}
			}
		} else {
			log.Info().Str("username", adminUsername).Msg("Admin user already exists")
		}
	}

	log.Info().Msg("Default data seeding completed")
	return nil
}
