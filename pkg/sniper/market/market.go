// Package market fetches daily price history.
package market

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/sniper/pkg/sniper/normalize"
	"github.com/komsit37/sniper/pkg/sniper/types"
	"github.com/komsit37/sniper/pkg/sniper/yahoo"
)

// PriceSource returns ascending daily bars for a ticker over a lookback period.
// Unknown or delisted tickers yield types.ErrEmptySeries.
type PriceSource interface {
	Bars(ctx context.Context, ticker string, period types.Period) ([]types.PriceBar, error)
}

// YahooChart reads daily bars from the v8 chart endpoint through yf-go.
type YahooChart struct {
	client *yfgo.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewYahooChart(client *yahoo.Client, logger *zap.Logger) *YahooChart {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YahooChart{client: client.YF(), logger: logger, now: time.Now}
}

var chartHeader = [][]string{{"Open"}, {"High"}, {"Low"}, {"Close"}, {"Volume"}}

func (s *YahooChart) Bars(ctx context.Context, ticker string, period types.Period) ([]types.PriceBar, error) {
	now := s.now()
	from, to := period.Start(now).Unix(), now.Unix()
	res, err := s.client.ChartTyped(ctx, ticker, yfgo.ChartOptions{
		Interval:   "1d",
		Period1:    &from,
		Period2:    &to,
		Events:     "div|split",
		ReturnType: "object",
	})
	if err != nil {
		if noData(err) {
			return nil, types.ErrEmptySeries
		}
		return nil, types.Unavailable("yahoo chart", ticker, err)
	}

	bars, err := normalize.Table(rawTable(res))
	if err != nil {
		return nil, types.Unavailable("yahoo chart", ticker, err)
	}
	s.logger.Debug("chart loaded",
		zap.String("ticker", ticker),
		zap.String("period", period.String()),
		zap.Int("bars", len(bars)))
	return bars, nil
}

// noData reports yf-go's errors for unknown or delisted symbols.
func noData(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404 not found") ||
		strings.Contains(msg, "no data found") ||
		strings.Contains(msg, "no chart data returned")
}

// rawTable lays the columnar chart payload out as rows. Timestamps are shifted by the
// exchange offset so each bar lands on its local trading date.
func rawTable(r yfgo.ChartResult) normalize.RawTable {
	raw := normalize.RawTable{Header: chartHeader}
	if len(r.Timestamp) == 0 || len(r.Indicators.Quote) == 0 {
		return raw
	}
	q := r.Indicators.Quote[0]
	prices := [][]*float64{q.Open, q.High, q.Low, q.Close}

	raw.Index = make([]time.Time, len(r.Timestamp))
	raw.Rows = make([][]float64, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		raw.Index[i] = time.Unix(ts+r.Meta.GmtOffset, 0).UTC()
		row := make([]float64, 0, len(prices)+1)
		for _, col := range prices {
			row = append(row, at(col, i))
		}
		raw.Rows[i] = append(row, volumeAt(q.Volume, i))
	}
	return raw
}

func at(col []*float64, i int) float64 {
	if i >= len(col) || col[i] == nil {
		return math.NaN()
	}
	return *col[i]
}

func volumeAt(col []*int64, i int) float64 {
	if i >= len(col) || col[i] == nil {
		return math.NaN()
	}
	return float64(*col[i])
}
