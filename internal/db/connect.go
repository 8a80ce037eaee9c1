package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/internal/models"
)

// Connect opens the catalog database. DSNs starting with "file:" or
// ":memory:" use sqlite (dev and tests), anything else is postgres.
// Postgres connections are retried a few times to give the database
// time to come up.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "file:") || strings.HasPrefix(dsn, ":memory:") {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return conn, nil
		}
		slog.Warn("database connection failed, retrying", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect database: %w", err)
}

// Migrate applies the GORM auto-migrations for all dataroom tables.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.AccessGrant{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
