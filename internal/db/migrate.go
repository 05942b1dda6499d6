package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/config"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured local store and applies the gorm migrations.
// Postgres gets a few retries so the app can start alongside its database container.
func Open(cfg config.StorageConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: newLogger(log.New(os.Stdout, "\r\n", log.LstdFlags), cfg.Debug)}

	var (
		conn *gorm.DB
		err  error
	)
	switch cfg.Driver {
	case "postgres":
		dsn := PostgresDSN(cfg.DSN)
		if dsn == "" {
			return nil, fmt.Errorf("storage: DATABASE_URL required for postgres")
		}
		for i := 0; i < 5; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), gcfg)
			if err == nil {
				break
			}
			log.Printf("[db] attempt %d/5 to reach %s failed: %v", i+1, RedactDSN(dsn), err)
			time.Sleep(2 * time.Second)
		}
	case "sqlite", "":
		conn, err = gorm.Open(sqlite.Open(SQLiteDSN(cfg.Path)), gcfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// newLogger is silent unless debug is set. Misses are normal for the cache
// and draft stores, so record-not-found is never reported as an error.
func newLogger(w logger.Writer, debug bool) logger.Interface {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or updates the cache tables.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.StorageEntry{}, &models.Session{}); err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	return nil
}
