package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCostBasis(t *testing.T) {
	tests := []struct {
		name string
		cost decimal.NullDecimal
		want bool
	}{
		{"absent", NoCost, false},
		{"zero", Cost(0), false},
		{"negative", Cost(-5), false},
		{"positive", Cost(100), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Position{Ticker: "NVDA", CostBasis: tt.cost, Category: CategoryHolding}
			assert.Equal(t, tt.want, p.HasCostBasis())
			assert.Equal(t, tt.want, UsableCost(tt.cost))
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Holdings")
	require.NoError(t, err)
	assert.Equal(t, CategoryHolding, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryWatchlist, c)

	_, err = ParseCategory("shorts")
	assert.Error(t, err)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, Period1Y, p)

	p, err = ParsePeriod(" 3Y ")
	require.NoError(t, err)
	assert.Equal(t, Period3Y, p)

	_, err = ParsePeriod("10y")
	assert.Error(t, err)
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Period3Mo.Start(now))
	assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), Period3Y.Start(now))
	assert.Equal(t, 63, Period3Mo.TradingDays())
}

func TestSourceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := Unavailable("yahoo", "NVDA", cause)

	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmptySeries)

	var se *SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "NVDA", se.Ticker)
	assert.Equal(t, "yahoo NVDA: connection reset", err.Error())
}

func TestUnavailableKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("chart: %w", ErrEmptySeries)
	assert.Same(t, wrapped, Unavailable("yahoo", "ZZZZ", wrapped))
	assert.Nil(t, Unavailable("yahoo", "ZZZZ", nil))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "no data", Reason(ErrEmptySeries))
	assert.Equal(t, "n/a", Reason(fmt.Errorf("x: %w", ErrNotApplicable)))
	assert.Equal(t, "source unavailable", Reason(Unavailable("yahoo", "", errors.New("boom"))))
	assert.Equal(t, "invalid ticker", Reason(ErrInvalidTicker))
	assert.Equal(t, "", Reason(nil))
}
