// Package database provides GORM-backed persistence plumbing.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrUnsupportedDriver indicates the database URL names a driver this build
// does not support.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Database wraps a GORM connection to a single-file SQLite database.
type Database struct {
	gdb  *gorm.DB
	path string
}

// NewDatabase opens a database from a URL of the form sqlite:///path/to/db.
func NewDatabase(ctx context.Context, url string) (Database, error) {
	path, err := parseSQLiteURL(url)
	if err != nil {
		return Database{}, fmt.Errorf("parse database url: %w", err)
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         slogGormLogger{},
		TranslateError: true,
	})
	if err != nil {
		return Database{}, fmt.Errorf("open database: %w", err)
	}

	db := Database{gdb: gdb, path: path}
	if err := db.ConfigurePool(1, 1, 30*time.Minute); err != nil {
		return Database{}, err
	}
	return db, nil
}

// parseSQLiteURL extracts the file path from a sqlite:/// URL. A bare path
// (no scheme) is accepted as-is.
func parseSQLiteURL(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, "sqlite:///"):
		return url[len("sqlite:///"):], nil
	case strings.Contains(url, "://"):
		return "", ErrUnsupportedDriver
	default:
		return url, nil
	}
}

// Session returns a GORM session bound to the given context.
func (d Database) Session(ctx context.Context) *gorm.DB {
	return d.gdb.WithContext(ctx)
}

// GORM returns the underlying GORM handle.
func (d Database) GORM() *gorm.DB {
	return d.gdb
}

// Path returns the SQLite file path.
func (d Database) Path() string {
	return d.path
}

// ConfigurePool sets connection pool limits. SQLite allows a single writer,
// so the defaults keep one open connection.
func (d Database) ConfigurePool(maxOpen, maxIdle int, maxLifetime time.Duration) error {
	sqlDB, err := d.gdb.DB()
	if err != nil {
		return fmt.Errorf("access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return nil
}

// Close closes the underlying connection.
func (d Database) Close() error {
	sqlDB, err := d.gdb.DB()
	if err != nil {
		return fmt.Errorf("access sql.DB: %w", err)
	}
	return sqlDB.Close()
}
