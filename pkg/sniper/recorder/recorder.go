// Package recorder keeps a history of assessments.
package recorder

import (
	"context"
	"time"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Record is one stored assessment row.
type Record struct {
	RecordedAt     time.Time
	Ticker         string
	Period         string
	AsOf           time.Time
	LatestPrice    float64
	PriceChangePct float64
	PLPct          *string
	EMA20          float64
	EMA50          float64
	EMA200         float64
	MACD           float64
	Signal         float64
	Histogram      float64
	DaysToEarnings *int
	Judgments      string
}

// Recorder persists assessments for later review.
type Recorder interface {
	RecordAssessment(ctx context.Context, a *types.TacticalAssessment) error
	Recent(ctx context.Context, ticker string, limit int) ([]Record, error)
	Close() error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAssessment(_ context.Context, _ *types.TacticalAssessment) error {
	return nil
}

func (n *NoopRecorder) Recent(_ context.Context, _ string, _ int) ([]Record, error) {
	return nil, nil
}

func (n *NoopRecorder) Close() error { return nil }
