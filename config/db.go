package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reviewhub-api/models"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the Postgres connection described by the DB_* environment
// variables and migrates the schema.
func InitDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_NAME", "reviewhub"),
		getenv("DB_SSLMODE", "disable"),
	)

	// TranslateError turns driver-level unique violations into
	// gorm.ErrDuplicatedKey so the services can map them to conflicts.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	return db
}

// Migrate creates or updates the schema for every model. The order matters:
// referenced tables first, so the foreign key constraints (including the
// SET NULL / CASCADE delete policies) can be created.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.Review{},
		&models.Comment{},
	)
}
