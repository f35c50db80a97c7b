package database

import (
	"context"
	"fmt"
	"time"

	"compsite/config"
	"compsite/models"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB
var REDIS *redis.Client

// InitDB opens the configured database and migrates the models
func InitDB() error {
	db, err := Open(config.DBDriver, dsn())
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	zap.L().Info("database ready", zap.String("driver", config.DBDriver))
	return nil
}

// Open connects to a postgres or sqlite database
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			zap.NewStdLog(zap.L().Named("gorm")),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the competitions table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Competition{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// InitRedis connects to the Redis server holding the competition images
func InitRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.RedisHost, config.RedisPort),
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	REDIS = client
	return nil
}

// Close releases the database and Redis connections
func Close() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				zap.L().Warn("closing database", zap.Error(err))
			}
		}
	}
	if REDIS != nil {
		_ = REDIS.Close()
	}
}

func dsn() string {
	if config.DBDriver == "sqlite" {
		return config.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=UTC",
		config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword)
}
