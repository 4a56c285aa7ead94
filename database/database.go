// File: /database/database.go
package database

import (
	"fmt"
	"foodshare-api/config"
	"foodshare-api/models"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memoryDSN is a private in-memory sqlite database. It lives as long as the
// single pooled connection does.
const memoryDSN = ":memory:"

func Initialize(driver, databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverMySQL:
		dialector = mysql.Open(databaseURL)
	case config.DriverPostgres:
		dialector = postgres.Open(databaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(databaseURL)
	case config.DriverMemory:
		dialector = sqlite.Open(memoryDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == config.DriverSQLite || driver == config.DriverMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		// sqlite allows one writer; an in-memory database also vanishes with
		// its connection, so keep exactly one open for good.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Post{},
		&models.Interaction{},
		&models.Rating{},
		&models.Notification{},
		&models.Profile{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}
	return nil
}

var customIndexes = []struct{ name, table, columns string }{
	{"idx_posts_status_created", "posts", "status, created_at"},
	{"idx_posts_status_expiry", "posts", "status, expiry_date"},
	{"idx_posts_owner_type", "posts", "owner_id, type"},
	{"idx_interactions_post_user", "interactions", "post_id, user_id"},
	{"idx_notifications_user_created", "notifications", "user_id, created_at"},
}

// addCustomIndexes creates the composite indexes behind the feed, the
// cleanup job and the notification list. Existing indexes are left alone.
func addCustomIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range customIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("%s: %w", idx.name, err)
		}
	}
	return nil
}

// Connect opens and migrates the configured database
func Connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn("using in-memory sqlite, data is lost on restart")
	}

	db, err := Initialize(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		Close(db)
		return nil, err
	}

	log.Info("database ready", "driver", cfg.DBDriver)
	return db, nil
}

// OpenMemory returns a fresh, migrated in-memory database
func OpenMemory() (*gorm.DB, error) {
	db, err := Initialize(config.DriverMemory, "")
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		Close(db)
		return nil, err
	}
	return db, nil
}

// Close releases the connection pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
