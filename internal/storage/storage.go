// Package storage adapts a caller-supplied *sql.DB into the bun handle the
// rest of the module uses. The module does not open connections itself; the
// host application owns pooling and credentials.
package storage

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Driver names the SQL dialect the host database speaks.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

var (
	ErrNilDB            = errors.New("storage: sql.DB is required")
	ErrUnknownDriver    = errors.New("storage: unknown driver")
	ErrDriverRequired   = errors.New("storage: driver is required")
	supportedDriverList = []Driver{DriverPostgres, DriverSQLite}
)

// ParseDriver normalizes a configured driver string. Common aliases from
// driver registration names are accepted.
func ParseDriver(raw string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", ErrDriverRequired
	case "postgres", "postgresql", "pg", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", ErrUnknownDriver
	}
}

// SupportedDrivers returns the drivers NewDB accepts.
func SupportedDrivers() []Driver {
	out := make([]Driver, len(supportedDriverList))
	copy(out, supportedDriverList)
	return out
}

// NewDB wraps the host connection with the bun dialect for the driver.
func NewDB(sqlDB *sql.DB, driver Driver) (*bun.DB, error) {
	if sqlDB == nil {
		return nil, ErrNilDB
	}
	switch driver {
	case DriverPostgres:
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	case DriverSQLite:
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	default:
		return nil, ErrUnknownDriver
	}
}
