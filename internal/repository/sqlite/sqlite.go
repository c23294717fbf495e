// Package sqlite implements the repository interfaces on top of SQLite.
//
// Each collection (categories, songs, playlists, users, user_info,
// song_details) is one table keyed by an xid and filtered by user_id. There is
// no foreign key from songs to categories: removing a category leaves its
// songs in place.
//
// Rows are scanned with sqlx using the `db` tags on the model types. Where
// the row shape differs from the entity (nullable playlist_id, JSON chord
// list) a private record struct sits in between and maps to the entity.
//
// The driver is modernc.org/sqlite, a pure Go port, so no C toolchain is
// needed. It registers itself with database/sql as "sqlite".
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sakif/songbook/internal/apperror"
)

const driverName = "sqlite"

// DB wraps a sqlx connection pool and implements every repository interface.
type DB struct {
	conn *sqlx.DB
}

// New opens the database at dbPath, applies pragmas and runs migrations.
//
// dbPath examples:
//   - "data/songbook.db" → file-based database
//   - ":memory:"         → in-memory database, used by tests
func New(dbPath string) (*DB, error) {
	conn, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same tables.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// NewFromConn wraps an already-open *sql.DB without running migrations.
// Tests use it with go-sqlmock to drive driver failure paths.
func NewFromConn(conn *sql.DB) *DB {
	return &DB{conn: sqlx.NewDb(conn, driverName)}
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database is reachable. Used by the health endpoint.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Migrate creates every table and index if missing. It is idempotent.
func (db *DB) Migrate() error {
	steps := []struct {
		name string
		ddl  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				name          TEXT NOT NULL DEFAULT '',
				email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
				password_hash TEXT NOT NULL,
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`},
		// No unique index on (user_id, title): duplicate checks happen in the
		// service on create only, and a rename may collide.
		{"categories", `
			CREATE TABLE IF NOT EXISTS categories (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL,
				user_id    TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);`},
		{"playlists", `
			CREATE TABLE IF NOT EXISTS playlists (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL,
				mode_id    TEXT NOT NULL DEFAULT '',
				user_id    TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_playlists_user_id ON playlists(user_id);`},
		{"songs", `
			CREATE TABLE IF NOT EXISTS songs (
				id          TEXT PRIMARY KEY,
				category_id TEXT NOT NULL,
				title       TEXT NOT NULL,
				artist      TEXT NOT NULL DEFAULT '',
				is_done     INTEGER NOT NULL DEFAULT 0,
				is_favorite INTEGER NOT NULL DEFAULT 0,
				playlist_id TEXT,
				user_id     TEXT NOT NULL,
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_songs_user_category ON songs(user_id, category_id);
			CREATE INDEX IF NOT EXISTS idx_songs_user_playlist ON songs(user_id, playlist_id);`},
		{"user_info", `
			CREATE TABLE IF NOT EXISTS user_info (
				user_id    TEXT PRIMARY KEY,
				location   TEXT NOT NULL DEFAULT '',
				skills     TEXT NOT NULL DEFAULT '',
				instrument TEXT NOT NULL DEFAULT '',
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`},
		{"song_details", `
			CREATE TABLE IF NOT EXISTS song_details (
				song_id    TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL,
				song_key   TEXT NOT NULL DEFAULT '',
				chord_list TEXT NOT NULL DEFAULT '[]',
				notes      TEXT NOT NULL DEFAULT '',
				lyric_link TEXT NOT NULL DEFAULT '',
				tab_link   TEXT NOT NULL DEFAULT '',
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`},
	}

	for _, s := range steps {
		if _, err := db.conn.Exec(s.ddl); err != nil {
			return fmt.Errorf("creating %s table: %w", s.name, err)
		}
	}
	return nil
}

// notFoundIfNoRows converts sql.ErrNoRows into an apperror.NotFound and wraps
// anything else with the operation name.
func notFoundIfNoRows(err error, resource, id, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(resource, id)
	}
	return fmt.Errorf("sqlite: %s: %w", op, err)
}

// requireAffected returns NotFound when an UPDATE or DELETE matched no row.
func requireAffected(res sql.Result, resource, id, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: %s: reading rows affected: %w", op, err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
