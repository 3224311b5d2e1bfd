package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kitsu-backend/internal/hash"
	"kitsu-backend/internal/models"
)

type Config struct {
	DB_HOST           string
	DB_PORT           string
	DB_USER           string
	DB_PASSWORD       string
	DB_NAME           string
	ES_URL            string
	ES_USER           string
	ES_PASSWORD       string
	JWT_SECRET        string
	REFRESH_SECRET    string
	KAFKA_ADDRESS     string
	TELEGRAM_TOKEN    string
	TELEGRAM_CHAT_ID  string
	ADMIN_USERNAME    string
	ADMIN_PASSWORD    string
	UPLOAD_DIR        string
	LOG_LEVEL         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:          os.Getenv("DB_HOST"),
		DB_PORT:          os.Getenv("DB_PORT"),
		DB_USER:          os.Getenv("DB_USER"),
		DB_PASSWORD:      os.Getenv("DB_PASSWORD"),
		DB_NAME:          os.Getenv("DB_NAME"),
		ES_URL:           os.Getenv("ES_URL"),
		ES_USER:          os.Getenv("ES_USER"),
		ES_PASSWORD:      os.Getenv("ES_PASSWORD"),
		JWT_SECRET:       os.Getenv("JWT_SECRET"),
		REFRESH_SECRET:   os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:    os.Getenv("KAFKA_ADDRESS"),
		TELEGRAM_TOKEN:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TELEGRAM_CHAT_ID: os.Getenv("TELEGRAM_CHAT_ID"),
		ADMIN_USERNAME:   os.Getenv("ADMIN_USERNAME"),
		ADMIN_PASSWORD:   os.Getenv("ADMIN_PASSWORD"),
		UPLOAD_DIR:       os.Getenv("UPLOAD_DIR"),
		LOG_LEVEL:        os.Getenv("LOG_LEVEL"),
	}

	if config.UPLOAD_DIR == "" {
		config.UPLOAD_DIR = "uploads"
	}

	return config, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AdminUser{},
		&models.RefreshToken{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedAdmin makes sure the configured admin account exists.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.ADMIN_USERNAME == "" || cfg.ADMIN_PASSWORD == "" {
		log.Println("Notice: ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.AdminUser
	err := db.Where("username = ?", cfg.ADMIN_USERNAME).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("admin lookup: %w", err)
	}

	pwHash, err := hash.HashPassword(cfg.ADMIN_PASSWORD)
	if err != nil {
		return fmt.Errorf("admin password hash: %w", err)
	}

	admin := models.AdminUser{
		Username:     cfg.ADMIN_USERNAME,
		PasswordHash: pwHash,
		Role:         "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}
	return nil
}
