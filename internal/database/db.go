package database

import (
	"fmt"
	"strings"
	"time"

	"burgerstock/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"               // SQLite driver
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

// Open connects to the database described by dialect and url. An empty dialect
// is inferred from the url.
func Open(dialect, url string, debug bool) (*gorm.DB, error) {
	dialect, dsn, err := Resolve(dialect, url)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.LogMode(debug)

	switch dialect {
	case DialectSQLite:
		// SQLite allows one writer; a single connection also keeps
		// in-memory databases alive for the lifetime of the pool.
		db.DB().SetMaxOpenConns(1)
		db.DB().SetMaxIdleConns(1)
		db.DB().SetConnMaxLifetime(0)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	default:
		db.DB().SetMaxIdleConns(10)
		db.DB().SetMaxOpenConns(100)
		db.DB().SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// OpenInMemory opens a private in-memory SQLite database and migrates it.
func OpenInMemory(name string) (*gorm.DB, error) {
	db, err := Open(DialectSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), false)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the stock and order tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.StockItem{}, &models.OrderRecord{}).Error; err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Resolve normalises the dialect name and turns url into a driver DSN.
// SQLAlchemy-style "sqlite:///inventory.db" urls are accepted.
func Resolve(dialect, url string) (string, string, error) {
	url = strings.TrimSpace(url)
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "":
		switch {
		case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
			return DialectPostgres, url, nil
		default:
			return Resolve(DialectSQLite, url)
		}
	case "sqlite", "sqlite3":
		dsn := strings.TrimPrefix(url, "sqlite:///")
		if dsn == "" {
			return "", "", fmt.Errorf("database url is required")
		}
		return DialectSQLite, dsn, nil
	case "postgres", "postgresql":
		if url == "" {
			return "", "", fmt.Errorf("database url is required")
		}
		return DialectPostgres, url, nil
	default:
		return "", "", fmt.Errorf("unsupported database dialect %q", dialect)
	}
}
