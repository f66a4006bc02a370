// Package engine runs fetch, normalize, indicators, valuation, enrichment and judgment for tickers.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/komsit37/sniper/pkg/sniper/enrich"
	"github.com/komsit37/sniper/pkg/sniper/indicator"
	"github.com/komsit37/sniper/pkg/sniper/judge"
	"github.com/komsit37/sniper/pkg/sniper/market"
	"github.com/komsit37/sniper/pkg/sniper/normalize"
	"github.com/komsit37/sniper/pkg/sniper/position"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Engine evaluates tickers against its collaborators. Fundamentals and Names are optional.
type Engine struct {
	Prices       market.PriceSource
	Fundamentals enrich.Service
	Names        enrich.NameService
	Clock        func() time.Time
	Logger       *zap.Logger
}

// New creates an engine; nil fundamentals disables enrichment.
func New(prices market.PriceSource, fundamentals enrich.Service, logger *zap.Logger) *Engine {
	if fundamentals == nil {
		fundamentals = enrich.None{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Prices: prices, Fundamentals: enrich.NewGuard(fundamentals), Clock: time.Now, Logger: logger}
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Series fetches bars and computes the full indicator series; the charting hand-off.
func (e *Engine) Series(ctx context.Context, ticker string, period types.Period) ([]types.PriceBar, indicator.Series, error) {
	bars, err := e.Prices.Bars(ctx, ticker, period)
	if err != nil {
		return nil, indicator.Series{}, types.Unavailable("prices", ticker, err)
	}
	bars, err = normalize.Bars(bars)
	if err != nil {
		return nil, indicator.Series{}, err
	}
	return bars, indicator.Compute(bars), nil
}

// Assess produces the tactical assessment for one ticker.
// Price failures are returned; fundamentals failures only leave the enrichment fields absent.
func (e *Engine) Assess(ctx context.Context, ticker string, period types.Period, cost decimal.NullDecimal) (*types.TacticalAssessment, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, types.ErrInvalidTicker
	}

	bars, series, err := e.Series(ctx, ticker, period)
	if err != nil {
		return nil, err
	}
	val, err := position.Evaluate(bars, cost)
	if err != nil {
		return nil, err
	}
	latest, _ := series.Last()

	a := &types.TacticalAssessment{
		Ticker:         ticker,
		Period:         period,
		AsOf:           bars[len(bars)-1].Date,
		Bars:           len(bars),
		LatestPrice:    val.LatestPrice,
		PriceChange:    val.PriceChange,
		PriceChangePct: val.PriceChangePct,
		ProfitLoss:     val.ProfitLoss,
		Latest:         latest,
	}
	e.enrich(ctx, a)
	a.Judgments = judge.Judge(judge.From(a))
	return a, nil
}

func (e *Engine) enrich(ctx context.Context, a *types.TacticalAssessment) {
	if e.Fundamentals == nil {
		return
	}
	snap, err := e.Fundamentals.Fundamentals(ctx, a.Ticker)
	if errors.Is(err, types.ErrNotApplicable) {
		return
	}
	a.FundamentalsApplicable = true
	if err != nil {
		e.logger().Warn("fundamentals unavailable", zap.String("ticker", a.Ticker), zap.Error(err))
		return
	}
	en := enrich.Enrich(snap, e.now())
	a.SharesTrendPct = en.SharesTrendPct
	a.DaysToEarnings = en.DaysToEarnings
	a.InstitutionalOwnershipPct = en.InstitutionalOwnershipPct
	a.ShortInterestPct = en.ShortInterestPct
}

// Evaluate assesses every position in order. A failing ticker records its error
// in its entry and never stops the batch. Only context cancellation ends it early.
func (e *Engine) Evaluate(ctx context.Context, positions []types.Position, period types.Period) []types.Entry {
	out := make([]types.Entry, 0, len(positions))
	for _, p := range positions {
		entry := types.Entry{Position: p}
		if err := ctx.Err(); err != nil {
			entry.Err = err
			out = append(out, entry)
			continue
		}

		start := time.Now()
		a, err := e.Assess(ctx, p.Ticker, period, p.CostBasis)
		if err != nil {
			entry.Err = err
			e.logger().Info("assessment failed",
				zap.String("ticker", p.Ticker),
				zap.String("period", period.String()),
				zap.String("reason", types.Reason(err)),
				zap.Error(err))
		} else {
			entry.Assessment = a
			e.logger().Debug("assessed",
				zap.String("ticker", p.Ticker),
				zap.String("period", period.String()),
				zap.Duration("duration", time.Since(start)))
		}
		entry.Name = e.name(ctx, p.Ticker)
		out = append(out, entry)
	}
	return out
}

func (e *Engine) name(ctx context.Context, ticker string) string {
	if e.Names == nil {
		return ""
	}
	n, err := e.Names.Name(ctx, ticker)
	if err != nil {
		e.logger().Debug("name lookup failed", zap.String("ticker", ticker), zap.Error(err))
		return ""
	}
	return n
}

// Radar evaluates the holdings among positions and ranks them by days to earnings.
// Watchlist positions are never fetched.
func (e *Engine) Radar(ctx context.Context, positions []types.Position, period types.Period) []types.Entry {
	holdings := make([]types.Position, 0, len(positions))
	for _, p := range positions {
		if p.Category == types.CategoryHolding {
			holdings = append(holdings, p)
		}
	}
	return judge.Rank(e.Evaluate(ctx, holdings, period))
}
