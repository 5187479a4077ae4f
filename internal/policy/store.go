package policy

import (
	"database/sql"
	"fmt"
	"strings"

	// Blank-imported exactly as sentra's internal/database/database.go
	// does, to register the four SQL drivers a Store DSN may
	// name — this package never queries a database on its own behalf,
	// only on an operator's explicit opt-in.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store loads additional taint-policy entries from a
// "taint_policy(kind, pattern)" table in any of the four supported
// engines, to be layered over the built-in Default() policy. This is
// the analyzer's one sanctioned touch of external database I/O
// (spec.md §1 excludes database I/O from the core proper; the store
// lives outside internal/engine and is wired in by the CLI only when
// a DSN is explicitly configured).
type Store struct {
	db *sql.DB
}

// Open opens a policy store for the given engine ("mysql", "postgres",
// "sqlite3", or "sqlserver") and DSN, mirroring the driver-name switch
// in sentra's DatabaseModule.Connect.
func Open(engine, dsn string) (*Store, error) {
	driver, err := driverName(engine)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("policy store: %w", err)
	}
	return &Store{db: db}, nil
}

func driverName(engine string) (string, error) {
	switch strings.ToLower(engine) {
	case "mysql":
		return "mysql", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "sqlite3", "sqlite":
		return "sqlite3", nil
	case "sqlserver", "mssql":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("policy store: unsupported engine %q", engine)
	}
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// Load reads every row of "select kind, pattern from taint_policy" and
// groups patterns by kind ("source", "sink", "combinator").
func (s *Store) Load() (sources, sinks, combinators []string, err error) {
	rows, err := s.db.Query(`select kind, pattern from taint_policy`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("policy store: load: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, pattern string
		if err := rows.Scan(&kind, &pattern); err != nil {
			return nil, nil, nil, fmt.Errorf("policy store: scan: %w", err)
		}
		switch strings.ToLower(kind) {
		case "source":
			sources = append(sources, pattern)
		case "sink":
			sinks = append(sinks, pattern)
		case "combinator":
			combinators = append(combinators, pattern)
		}
	}
	return sources, sinks, combinators, rows.Err()
}

// LoadInto layers the store's overrides over base and returns the
// combined policy.
func (s *Store) LoadInto(base Policy) (Policy, error) {
	sources, sinks, combinators, err := s.Load()
	if err != nil {
		return base, err
	}
	return base.WithOverrides(sources, sinks, combinators), nil
}
