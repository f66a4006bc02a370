package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// SQLiteRecorder persists assessments to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at      INTEGER NOT NULL,
			ticker           TEXT NOT NULL,
			period           TEXT NOT NULL,
			as_of            TEXT NOT NULL,
			latest_price     REAL,
			price_change_pct REAL,
			pl_pct           TEXT,
			ema20            REAL,
			ema50            REAL,
			ema200           REAL,
			macd             REAL,
			signal           REAL,
			histogram        REAL,
			days_to_earnings INTEGER,
			judgments        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_ticker_ts ON assessments(ticker, recorded_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAssessment(ctx context.Context, a *types.TacticalAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var plPct sql.NullString
	if a.ProfitLoss != nil {
		plPct = sql.NullString{String: a.ProfitLoss.Pct.StringFixed(4), Valid: true}
	}
	var days sql.NullInt64
	if a.DaysToEarnings != nil {
		days = sql.NullInt64{Int64: int64(*a.DaysToEarnings), Valid: true}
	}
	codes := make([]string, len(a.Judgments))
	for i, j := range a.Judgments {
		codes[i] = string(j.Code)
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO assessments
		(recorded_at, ticker, period, as_of, latest_price, price_change_pct, pl_pct,
		 ema20, ema50, ema200, macd, signal, histogram, days_to_earnings, judgments)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.now().Unix(), a.Ticker, a.Period.String(), a.AsOf.Format(time.DateOnly),
		a.LatestPrice, a.PriceChangePct, plPct,
		a.Latest.EMA20, a.Latest.EMA50, a.Latest.EMA200,
		a.Latest.MACD, a.Latest.Signal, a.Latest.Histogram,
		days, strings.Join(codes, ","),
	)
	return err
}

// Recent returns the newest records for ticker, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, ticker string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT
		recorded_at, ticker, period, as_of, latest_price, price_change_pct, pl_pct,
		ema20, ema50, ema200, macd, signal, histogram, days_to_earnings, judgments
		FROM assessments WHERE ticker = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		strings.ToUpper(ticker), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec        Record
			recordedAt int64
			asOf       string
			plPct      sql.NullString
			days       sql.NullInt64
		)
		if err := rows.Scan(&recordedAt, &rec.Ticker, &rec.Period, &asOf,
			&rec.LatestPrice, &rec.PriceChangePct, &plPct,
			&rec.EMA20, &rec.EMA50, &rec.EMA200, &rec.MACD, &rec.Signal, &rec.Histogram,
			&days, &rec.Judgments); err != nil {
			return nil, err
		}
		rec.RecordedAt = time.Unix(recordedAt, 0).UTC()
		if rec.AsOf, err = time.Parse(time.DateOnly, asOf); err != nil {
			return nil, fmt.Errorf("as_of %q: %w", asOf, err)
		}
		if plPct.Valid {
			s := plPct.String
			rec.PLPct = &s
		}
		if days.Valid {
			d := int(days.Int64)
			rec.DaysToEarnings = &d
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
