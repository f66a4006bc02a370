package portfolio

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// SQLiteStore keeps positions in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the database and runs migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			ticker   TEXT PRIMARY KEY,
			cost     TEXT,
			category TEXT NOT NULL,
			note     TEXT NOT NULL DEFAULT '',
			ord      INTEGER NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec %q: %w", q[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListPositions(ctx context.Context) ([]types.Position, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, cost, category, note FROM positions ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Position
	for rows.Next() {
		var p types.Position
		var cat string
		if err := rows.Scan(&p.Ticker, &p.CostBasis, &cat, &p.Note); err != nil {
			return nil, err
		}
		if p.Category, err = types.ParseCategory(cat); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Ticker, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplacePositions swaps the whole table in one transaction.
func (s *SQLiteStore) ReplacePositions(ctx context.Context, positions []types.Position) error {
	v, err := Validate(positions)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM positions`); err != nil {
		return err
	}
	for i, p := range v {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO positions (ticker, cost, category, note, ord) VALUES (?,?,?,?,?)`,
			p.Ticker, p.CostBasis, string(p.Category), p.Note, i,
		); err != nil {
			return fmt.Errorf("insert %s: %w", p.Ticker, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
