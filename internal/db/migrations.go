package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS cities (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		state       TEXT    NOT NULL DEFAULT '',
		description TEXT    NOT NULL DEFAULT '',
		cover_url   TEXT    NOT NULL DEFAULT '',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS beaches (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		city_id     INTEGER NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
		name        TEXT    NOT NULL,
		description TEXT    NOT NULL DEFAULT '',
		cover_url   TEXT    NOT NULL DEFAULT '',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT    NOT NULL UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tourists (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT    NOT NULL,
		email          TEXT    NOT NULL UNIQUE,
		phone          TEXT    NOT NULL DEFAULT '',
		avatar_url     TEXT    NOT NULL DEFAULT '',
		user_code      TEXT    NOT NULL DEFAULT '',
		points_balance INTEGER NOT NULL DEFAULT 0,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS realtors (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT    NOT NULL,
		email          TEXT    NOT NULL UNIQUE,
		phone          TEXT    NOT NULL DEFAULT '',
		company_name   TEXT    NOT NULL DEFAULT '',
		license_number TEXT    NOT NULL DEFAULT '',
		status         TEXT    NOT NULL DEFAULT 'pending',
		avatar_url     TEXT    NOT NULL DEFAULT '',
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS businesses (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		business_name    TEXT    NOT NULL,
		business_email   TEXT    NOT NULL UNIQUE,
		phone            TEXT    NOT NULL DEFAULT '',
		city_id          INTEGER REFERENCES cities(id) ON DELETE SET NULL,
		category_id      INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		description      TEXT    NOT NULL DEFAULT '',
		status           TEXT    NOT NULL DEFAULT 'pending',
		cashback_balance REAL    NOT NULL DEFAULT 0,
		cover_url        TEXT    NOT NULL DEFAULT '',
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS service_providers (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT    NOT NULL,
		email        TEXT    NOT NULL UNIQUE,
		service_type TEXT    NOT NULL DEFAULT '',
		phone        TEXT    NOT NULL DEFAULT '',
		city_id      INTEGER REFERENCES cities(id) ON DELETE SET NULL,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS influencers (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		name                TEXT    NOT NULL,
		email               TEXT    NOT NULL UNIQUE,
		user_code           TEXT    NOT NULL DEFAULT '',
		avatar_url          TEXT    NOT NULL DEFAULT '',
		business_id         INTEGER REFERENCES businesses(id) ON DELETE SET NULL,
		realtor_id          INTEGER REFERENCES realtors(id) ON DELETE SET NULL,
		service_provider_id INTEGER REFERENCES service_providers(id) ON DELETE SET NULL,
		created_at          DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		title         TEXT    NOT NULL,
		description   TEXT    NOT NULL DEFAULT '',
		address       TEXT    NOT NULL DEFAULT '',
		neighborhood  TEXT    NOT NULL DEFAULT '',
		city_id       INTEGER REFERENCES cities(id) ON DELETE SET NULL,
		category_id   INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		realtor_id    INTEGER REFERENCES realtors(id) ON DELETE CASCADE,
		property_type TEXT    NOT NULL DEFAULT 'sale',
		price         INTEGER NOT NULL DEFAULT 0,
		bedrooms      INTEGER NOT NULL DEFAULT 0,
		bathrooms     INTEGER NOT NULL DEFAULT 0,
		area          REAL    NOT NULL DEFAULT 0,
		cover_url     TEXT    NOT NULL DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		author_role TEXT    NOT NULL,
		author_id   INTEGER NOT NULL,
		author_name TEXT    NOT NULL DEFAULT '',
		body        TEXT    NOT NULL,
		image_url   TEXT    NOT NULL DEFAULT '',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS credentials (
		email         TEXT    PRIMARY KEY,
		password_hash TEXT    NOT NULL,
		role          TEXT    NOT NULL,
		profile_id    INTEGER NOT NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT     PRIMARY KEY,
		record_json TEXT     NOT NULL,
		expires_at  DATETIME NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		account_email TEXT    NOT NULL,
		property_id   INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_email, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS passkey_credentials (
		id              TEXT    PRIMARY KEY,
		email           TEXT    NOT NULL,
		name            TEXT    NOT NULL DEFAULT '',
		credential_json TEXT    NOT NULL,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id           INTEGER  PRIMARY KEY AUTOINCREMENT,
		name         TEXT     NOT NULL,
		email        TEXT     NOT NULL DEFAULT '',
		key_prefix   TEXT     NOT NULL,
		key_hash     TEXT     NOT NULL UNIQUE,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_used_at DATETIME
	)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	// Column additions (idempotent — checks if column exists first)
	columnMigrations := []struct {
		table, column, definition string
	}{
		{"tourists", "cashback_balance", "REAL NOT NULL DEFAULT 0"},
		{"categories", "icon", "TEXT NOT NULL DEFAULT ''"},
		{"businesses", "instagram", "TEXT NOT NULL DEFAULT ''"},
		{"service_providers", "status", "TEXT NOT NULL DEFAULT 'pending'"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("checking table info: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			return nil // column already exists
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating columns: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
