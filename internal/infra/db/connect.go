package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const defaultSQLiteDSN = "file:stats.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

// Open открывает базу статистики и проверяет соединение
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	const op = "db.Open"

	var drvName string
	switch driver {
	case DriverSQLite, "":
		drvName = "sqlite"
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			return nil, fmt.Errorf("%s: dsn is required for postgres", op)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported driver: %s", op, driver)
	}

	conn, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open %s: %w", op, driver, err)
	}
	if drvName == "sqlite" {
		// sqlite не допускает параллельной записи
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: failed to ping %s: %w", op, driver, err)
	}
	return conn, nil
}
