package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// sql.Open driver names registered by the imports above
var sqlDrivers = map[string]string{
	DriverPostgres: "pgx",
	DriverSQLite:   "sqlite3",
}

// Open connects to the database for driver and verifies it with a ping.
func Open(driver, dsn string, maxOpenConns int) (*sql.DB, error) {
	name, ok := sqlDrivers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := sql.Open(name, dsn)

	if err != nil {
		return nil, err
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 5
	}

	// a private in-memory sqlite database only lives as long as its single connection
	if driver == DriverSQLite && isSQLiteMemory(dsn) {
		maxOpenConns = 1
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	err = db.PingContext(ctx)

	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func isSQLiteMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}
