// Package store persists study events and LLM calls in SQLite through the
// ent SQL builder. A single global sequence orders rows across tables.
package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/caarlos0/env/v11"

	_ "modernc.org/sqlite"
)

// Connection settings for a single local user, applied to every pooled
// connection through the DSN. WAL lets the history command read while a
// study session writes. Schema migration requires foreign keys on.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// withPragmas appends the pragmas to a file path or DSN.
func withPragmas(dsn string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + q.Encode()
}

type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequence
}

// Open connects to the database at dsn and creates any missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, drv: drv, seq: &sequence{drv: drv}}, nil
}

// DB exposes the raw handle for ad-hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv, seq: s.seq, now: time.Now}
}

// PathConfig locates the database file.
type PathConfig struct {
	DB       string `env:"STUDYBUDDY_DB"`
	DataHome string `env:"XDG_DATA_HOME"`
}

// ResolvePath picks the database file: override if set, else
// $STUDYBUDDY_DB, else studybuddy/studybuddy.db under $XDG_DATA_HOME
// (~/.local/share when unset). The parent directory is created.
func ResolvePath(override string) (string, error) {
	var cfg PathConfig
	if err := env.Parse(&cfg); err != nil {
		return "", fmt.Errorf("parse path env: %w", err)
	}
	path := cmp.Or(override, cfg.DB)
	if path == "" {
		data := cfg.DataHome
		if data == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			data = filepath.Join(home, ".local", "share")
		}
		path = filepath.Join(data, "studybuddy", "studybuddy.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	return path, nil
}
