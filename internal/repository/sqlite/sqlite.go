// Package sqlite implements the repository interfaces with SQLite as the
// storage backend.
//
// WHY SQLITE?
// An embedded database that lives in a single file next to the binary. No
// server to install or operate, ":memory:" databases for tests, and a
// single-writer model that fits this app's one-box deployment.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 needs CGo and a C compiler; modernc.org/sqlite is a pure
// Go translation of SQLite, so it builds and cross-compiles anywhere Go
// does.
//
// DOCUMENT SHAPE:
// The API's documents (Profile with experience/education, Post with likes/
// comments) are stored relationally: one parent table per document type and
// one child table per nested collection, tied together with foreign keys.
// Reads reassemble the document; nested-collection writes are single
// INSERT/DELETE statements, which makes each mutation atomic without any
// whole-document compare-and-swap.
//
// ORDERING:
// Every generated id is an xid, and xids sort by creation time. The nested
// collections' "prepend on add, newest first" invariant therefore falls out
// of ORDER BY id DESC with no separate position column to maintain.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under
	// the name "sqlite" in its init function.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-aggregate stores (UserStore,
// ProfileStore, PostStore) share it and implement the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection, not a pool. The PRAGMAs below apply per connection,
	// and a ":memory:" database is a separate empty database on every new
	// connection. SQLite only supports one writer anyway; database/sql
	// queues concurrent calls on the single connection.
	conn.SetMaxOpenConns(1)

	// Force an immediate connection so a bad path or permissions problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode lets reads proceed while a write is in flight; the default
	// journal mode locks the whole database for every write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The nested-collection
	// tables and the profile→user relationship depend on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Defer this right after New so the WAL
// is flushed and the file lock released even on a panic.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent; a fresh database and a restarted server both end up in the
// same place.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS profiles (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			handle          TEXT NOT NULL UNIQUE,
			company         TEXT NOT NULL DEFAULT '',
			website         TEXT NOT NULL DEFAULT '',
			location        TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL DEFAULT '',
			skills          TEXT NOT NULL DEFAULT '',
			bio             TEXT NOT NULL DEFAULT '',
			github_username TEXT NOT NULL DEFAULT '',
			social_youtube   TEXT NOT NULL DEFAULT '',
			social_twitter   TEXT NOT NULL DEFAULT '',
			social_facebook  TEXT NOT NULL DEFAULT '',
			social_linkedin  TEXT NOT NULL DEFAULT '',
			social_instagram TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS experience (
			id          TEXT PRIMARY KEY,
			profile_id  TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			company     TEXT NOT NULL,
			location    TEXT NOT NULL DEFAULT '',
			from_date   DATETIME NOT NULL,
			to_date     DATETIME,
			current     INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_experience_profile_id ON experience(profile_id);

		CREATE TABLE IF NOT EXISTS education (
			id             TEXT PRIMARY KEY,
			profile_id     TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			school         TEXT NOT NULL,
			degree         TEXT NOT NULL,
			field_of_study TEXT NOT NULL,
			from_date      DATETIME NOT NULL,
			to_date        DATETIME,
			current        INTEGER NOT NULL DEFAULT 0,
			description    TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_education_profile_id ON education(profile_id);

		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text       TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);

		CREATE TABLE IF NOT EXISTS likes (
			id      TEXT PRIMARY KEY,
			post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			UNIQUE (post_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL,
			text       TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
