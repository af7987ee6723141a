package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vela-lang/go-vela/diag"
)

// SQLiteStore persists reports in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at path. Use ":memory:"
// for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	unit_id TEXT NOT NULL,
	program TEXT NOT NULL,
	created_at TEXT NOT NULL,
	ok INTEGER NOT NULL,
	errors INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	diagnostics TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_program ON reports(program);
`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one report.
func (s *SQLiteStore) Append(ctx context.Context, report *Report) error {
	diagnostics, err := json.Marshal(report.Diagnostics)
	if err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO reports (unit_id, program, created_at, ok, errors, warnings, diagnostics)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.UnitID,
		report.Program,
		report.CreatedAt.Format(time.RFC3339Nano),
		boolToInt(report.Ok),
		report.Errors,
		report.Warnings,
		string(diagnostics),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// List returns the reports for a program name, oldest first.
func (s *SQLiteStore) List(ctx context.Context, program string) ([]*Report, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT unit_id, program, created_at, ok, errors, warnings, diagnostics
FROM reports WHERE program = ? ORDER BY id`, program)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []*Report
	for rows.Next() {
		var (
			r           Report
			createdAt   string
			ok          int
			diagnostics string
		)
		if err := rows.Scan(&r.UnitID, &r.Program, &createdAt, &ok, &r.Errors, &r.Warnings, &diagnostics); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		r.Ok = ok != 0
		if diagnostics != "null" && diagnostics != "" {
			var ds []*diag.Diagnostic
			if err := json.Unmarshal([]byte(diagnostics), &ds); err != nil {
				return nil, fmt.Errorf("decode diagnostics: %w", err)
			}
			r.Diagnostics = ds
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
