package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

func quarterly(counts ...float64) []types.SharesPoint {
	start := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	out := make([]types.SharesPoint, len(counts))
	for i, c := range counts {
		out[i] = types.SharesPoint{Date: start.AddDate(0, 3*i, 0), Shares: c}
	}
	return out
}

func TestSharesTrendPct(t *testing.T) {
	tests := []struct {
		name    string
		history []types.SharesPoint
		want    float64
		ok      bool
	}{
		{"empty", nil, 0, false},
		{"single point", quarterly(100), 0, false},
		{"two points use oldest", quarterly(100, 110), 10, true},
		{"four points use oldest", quarterly(200, 190, 180, 170), -15, true},
		{"five points year over year", quarterly(100, 100, 95, 95, 90), -10, true},
		{"six points skip oldest", quarterly(50, 100, 100, 100, 100, 105), 5, true},
		{"flat", quarterly(100, 100, 100, 100, 100), 0, true},
		{"zero reference", quarterly(0, 100), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SharesTrendPct(tt.history)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDaysToEarnings(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	in := func(days int) *time.Time {
		d := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
		return &d
	}

	d, ok := DaysToEarnings(in(12), today)
	assert.True(t, ok)
	assert.Equal(t, 12, d)

	d, ok = DaysToEarnings(in(0), today)
	assert.True(t, ok)
	assert.Equal(t, 0, d)

	_, ok = DaysToEarnings(in(-1), today)
	assert.False(t, ok, "a past date is stale, not a negative countdown")

	_, ok = DaysToEarnings(nil, today)
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := map[string]InstrumentKind{
		"^GSPC":    KindIndex,
		"^n225":    KindIndex,
		"BTC-USD":  KindCrypto,
		"eth-usdt": KindCrypto,
		"EURUSD=X": KindFX,
		"CL=F":     KindFuture,
		"NVDA":     KindEquity,
		"7203.T":   KindEquity,
		"BRK-B":    KindEquity,
		"-USD":     KindEquity,
	}
	for ticker, want := range tests {
		assert.Equal(t, want, Classify(ticker), ticker)
	}
	assert.True(t, Applicable("MSFT"))
	assert.False(t, Applicable("^GSPC"))
}

func TestEnrich(t *testing.T) {
	inst, short := 62.5, 12.0
	next := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	e := Enrich(types.FundamentalsSnapshot{
		SharesHistory:             quarterly(100, 100, 95, 95, 90),
		InstitutionalOwnershipPct: &inst,
		ShortInterestPct:          &short,
		NextEarningsDate:          &next,
	}, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	require.NotNil(t, e.SharesTrendPct)
	assert.InDelta(t, -10.0, *e.SharesTrendPct, 1e-9)
	require.NotNil(t, e.DaysToEarnings)
	assert.Equal(t, 10, *e.DaysToEarnings)
	assert.Equal(t, &inst, e.InstitutionalOwnershipPct)

	empty := Enrich(types.FundamentalsSnapshot{}, time.Now())
	assert.Nil(t, empty.SharesTrendPct)
	assert.Nil(t, empty.DaysToEarnings)
}

type countingService struct {
	calls int
	err   error
}

func (c *countingService) Fundamentals(_ context.Context, ticker string) (types.FundamentalsSnapshot, error) {
	c.calls++
	return types.FundamentalsSnapshot{Ticker: ticker}, c.err
}

func TestGuardShortCircuits(t *testing.T) {
	next := &countingService{}
	g := NewGuard(next)

	for _, ticker := range []string{"^GSPC", "BTC-USD"} {
		_, err := g.Fundamentals(context.Background(), ticker)
		assert.ErrorIs(t, err, types.ErrNotApplicable, ticker)
	}
	assert.Equal(t, 0, next.calls, "guard must not reach the wrapped service")

	s, err := g.Fundamentals(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", s.Ticker)
	assert.Equal(t, 1, next.calls)
}

func TestNone(t *testing.T) {
	_, err := None{}.Fundamentals(context.Background(), "NVDA")
	assert.ErrorIs(t, err, types.ErrNotApplicable)
}

func TestCacheService(t *testing.T) {
	next := &countingService{}
	c := NewCacheService(next, time.Minute, 8)

	_, err := c.Fundamentals(context.Background(), "nvda")
	require.NoError(t, err)
	_, err = c.Fundamentals(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	failing := &countingService{err: errors.New("boom")}
	fc := NewCacheService(failing, time.Minute, 8)
	_, _ = fc.Fundamentals(context.Background(), "AMD")
	_, _ = fc.Fundamentals(context.Background(), "AMD")
	assert.Equal(t, 2, failing.calls, "errors are not cached")
}

func TestParseFile(t *testing.T) {
	fs, err := ParseFile([]byte(`
fundamentals:
  nvda:
    shares:
      - {date: 2024-03-31, count: 95}
      - {date: 2023-03-31, count: 100}
    institutional_pct: 65.2
    next_earnings: 2024-08-28
`))
	require.NoError(t, err)

	s, err := fs.Fundamentals(context.Background(), "NVDA")
	require.NoError(t, err)
	require.Len(t, s.SharesHistory, 2)
	assert.Equal(t, 100.0, s.SharesHistory[0].Shares, "sorted oldest first")
	require.NotNil(t, s.InstitutionalOwnershipPct)
	assert.Equal(t, 65.2, *s.InstitutionalOwnershipPct)
	assert.Nil(t, s.ShortInterestPct)
	require.NotNil(t, s.NextEarningsDate)
	assert.Equal(t, 28, s.NextEarningsDate.Day())

	unknown, err := fs.Fundamentals(context.Background(), "AMD")
	require.NoError(t, err)
	assert.Empty(t, unknown.SharesHistory)

	_, err = ParseFile([]byte("fundamentals:\n  X:\n    next_earnings: soon\n"))
	assert.Error(t, err)
}

func TestStaticNames(t *testing.T) {
	n, err := StaticNames{"NVDA": "NVIDIA Corporation"}.Name(context.Background(), "nvda")
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA Corporation", n)
}
