// File path: internal/history/store.go

// Package history persists a catalog of completed analyses in SQLite. The
// store is an optional supplement: with no configured path the service runs
// entirely in memory and keeps nothing between requests.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ananyap-codes/TDSproj2/internal/analyst"
	"github.com/ananyap-codes/TDSproj2/internal/common"
)

// Record is one catalog row. Answers are stored JSON-encoded; charts and
// computation payloads are deliberately not persisted.
type Record struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Questions string    `db:"questions" json:"questions"`
	FileNames string    `db:"file_names" json:"file_names"`
	Answers   string    `db:"answers" json:"answers"`
	Success   bool      `db:"success" json:"success"`
}

// Store wraps a pooled sqlx.DB connection to the SQLite catalog.
type Store struct {
	db *sqlx.DB
}

const busyTimeoutMillis = 5000

// Open constructs a Store backed by the SQLite database at the provided
// path, migrating the schema on first use.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busyTimeoutMillis)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	common.Logger().Info("history: catalog opened", "path", abs)
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`CREATE TABLE IF NOT EXISTS analyses (
                id TEXT PRIMARY KEY,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                questions TEXT NOT NULL,
                file_names TEXT,
                answers TEXT,
                success INTEGER NOT NULL DEFAULT 0
        );`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);`,
}

func (s *Store) migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("history store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// Insert catalogs one completed analysis. A nil store is a no-op so callers
// never branch on whether history is enabled.
func (s *Store) Insert(ctx context.Context, questions string, fileNames []string, result *analyst.Result) error {
	if s == nil || s.db == nil {
		return nil
	}
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	sorted := append([]string(nil), fileNames...)
	sort.Strings(sorted)
	rec := Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Questions: questions,
		FileNames: strings.Join(sorted, ","),
		Answers:   string(answers),
		Success:   result.Success,
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO analyses
                (id, created_at, questions, file_names, answers, success)
                VALUES (:id, :created_at, :questions, :file_names, :answers, :success)`, rec)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Recent returns the newest records first, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var out []Record
	err := s.db.SelectContext(ctx, &out, `SELECT id, created_at, questions, file_names, answers, success
                FROM analyses ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	return out, nil
}
