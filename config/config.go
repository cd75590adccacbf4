package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// NumberPrefix is the organisation prefix for requisition numbers,
// e.g. EEL -> EEL/2026/001.
var NumberPrefix = "EEL"

// UploadDir is the local directory for uploaded document files.
var UploadDir = "./uploads"

func Connect() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	NumberPrefix = Getenv("REQ_NUMBER_PREFIX", "EEL")
	UploadDir = Getenv("UPLOAD_DIR", "./uploads")

	dsn := os.Getenv("DB_DSN")
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := Migrations(DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed the bootstrap admin account and document type masters
	SeedAdminUser()
	SeedDocumentTypes()
}

// Getenv reads an environment variable with a fallback default.
func Getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
