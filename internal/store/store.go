// Package store reads the blog's relational data model. It is a thin
// query layer over database/sql; the schema is owned elsewhere and
// Bootstrap only creates it when missing.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("store: not found")

// Order selects the sort column for article listings. Both sort descending.
type Order string

const (
	OrderPubTime   Order = "pub_time"
	OrderViewTimes Order = "view_times"
)

type Store struct {
	db *sql.DB
}

// Open opens the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY on view counts.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS category (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS article (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	en_title TEXT NOT NULL UNIQUE,
	summary TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	status INTEGER NOT NULL DEFAULT 0,
	view_times INTEGER NOT NULL DEFAULT 0,
	pub_time INTEGER NOT NULL,
	category_id INTEGER REFERENCES category(id)
);
CREATE TABLE IF NOT EXISTS "column" (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	summary TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS column_article (
	column_id INTEGER NOT NULL REFERENCES "column"(id),
	article_id INTEGER NOT NULL REFERENCES article(id),
	PRIMARY KEY (column_id, article_id)
);
CREATE TABLE IF NOT EXISTS carousel (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	img TEXT NOT NULL DEFAULT '',
	article_id INTEGER REFERENCES article(id)
);
CREATE TABLE IF NOT EXISTS nav (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	status INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS news (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	pub_time INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS link (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	create_time INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	img TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS session (
	token TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES user(id),
	expire_time INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS comment (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	article_id INTEGER NOT NULL REFERENCES article(id),
	user_name TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	create_time INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS notification (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	to_user_id INTEGER NOT NULL REFERENCES user(id),
	title TEXT NOT NULL,
	text TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	is_read INTEGER NOT NULL DEFAULT 0,
	create_time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS article_status_pub ON article(status, pub_time);
CREATE INDEX IF NOT EXISTS news_pub ON news(pub_time);
`

// Bootstrap creates any missing table. It never alters existing ones.
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	return nil
}

func unix(t time.Time) int64 { return t.Unix() }

func fromUnix(sec int64) time.Time { return time.Unix(sec, 0) }

func init() {
	// SQLite's LIKE and lower() only fold ASCII.
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, casefold)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// foldedContains is a SQL condition true when the case-folded column holds
// a needle built by needle().
func foldedContains(col string) string {
	return "instr(casefold(" + col + "), ?) > 0"
}

func needle(s string) string { return strings.ToLower(s) }
