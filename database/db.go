package database

import (
	"fmt"
	"log/slog"

	"apero/internal/config"
	"apero/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the postgres connection and keeps the schema current.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey instead of raw pgx errors.
func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.DiningHall{},
		&models.Dish{},
		&models.Review{},
		&models.Comparison{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}
