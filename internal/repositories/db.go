package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// OpenDB opens and pings a database with one of the supported drivers.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// in-memory databases are per connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		avatar TEXT,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NULL
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		address TEXT,
		regular_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		discount_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		bathrooms INTEGER NOT NULL DEFAULT 0,
		bedrooms INTEGER NOT NULL DEFAULT 0,
		furnished BOOLEAN NOT NULL DEFAULT FALSE,
		parking BOOLEAN NOT NULL DEFAULT FALSE,
		type VARCHAR(16) NOT NULL,
		offer BOOLEAN NOT NULL DEFAULT FALSE,
		image_urls TEXT,
		user_ref VARCHAR(36) NOT NULL,
		status VARCHAR(16) NOT NULL,
		reject_reason TEXT,
		source VARCHAR(16) NOT NULL,
		area_m2 DOUBLE PRECISION NULL,
		price_text VARCHAR(255),
		direction VARCHAR(64),
		street_width VARCHAR(64),
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_user_ref ON listings (user_ref)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings (status)`,
}

// EnsureSchema creates the tables the SQL repositories use.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	for _, stmt := range schema {
		if driver == DriverMySQL && strings.HasPrefix(stmt, "CREATE INDEX") {
			// MySQL has no CREATE INDEX IF NOT EXISTS
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isDuplicateKeyError reports unique constraint violations for every
// supported driver.
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
