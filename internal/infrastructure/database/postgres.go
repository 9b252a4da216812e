package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eazyque/eazyque-api/internal/config"
	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var log = logger.WithComponent("database")

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.App.Debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: gormlogger.New(logger.WithComponent("gorm"), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Tracing.Enabled {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			return nil, fmt.Errorf("failed to enable tracing: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.WithField("host", cfg.Database.Host).Info("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Shop{},
		&entity.User{},

		&entity.Product{},
		&entity.Inventory{},
		&entity.InventoryAudit{},

		&entity.Customer{},

		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderTaxLine{},

		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates a demo shop and its owner when ADMIN_EMAIL and
// ADMIN_PASSWORD are set. It is a no-op if the owner already exists.
func SeedDefaultData(ctx context.Context, db *gorm.DB) error {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Info("ADMIN_EMAIL not set, skipping seed")
		return nil
	}

	var existing entity.User
	err := db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", adminEmail).First(&existing).Error
	if err == nil {
		log.WithField("email", adminEmail).Info("owner already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash owner password: %w", err)
	}

	shopName := viper.GetString("ADMIN_SHOP_NAME")
	if shopName == "" {
		shopName = "Demo Store"
	}
	state := viper.GetString("ADMIN_SHOP_STATE")
	if state == "" {
		state = "Maharashtra"
	}
	ownerName := viper.GetString("ADMIN_NAME")
	if ownerName == "" {
		ownerName = "Shop Owner"
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shop := &entity.Shop{Name: shopName, Slug: utils.Slugify(shopName), State: state}
		if err := tx.Create(shop).Error; err != nil {
			return fmt.Errorf("create demo shop: %w", err)
		}
		owner := &entity.User{
			ShopID:   shop.ID,
			Name:     ownerName,
			Email:    adminEmail,
			Password: hashed,
			Role:     enum.UserRoleOwner,
			IsActive: true,
		}
		if err := tx.Omit("Shop").Create(owner).Error; err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		if err := tx.Model(shop).Update("owner_id", owner.ID).Error; err != nil {
			return err
		}
		log.WithField("shop", shop.Slug).WithField("email", adminEmail).Info("seeded demo shop")
		return nil
	})
}
