package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

func generateBars(closes []float64) []types.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = types.PriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func generateWave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/7) + float64(i)*0.1
	}
	return out
}

func TestEMARecurrence(t *testing.T) {
	got := EMA([]float64{10, 12, 11}, 2)
	require.Len(t, got, 3)
	assert.InDelta(t, 10.0, got[0], 1e-6)
	assert.InDelta(t, 11.333333, got[1], 1e-6)
	assert.InDelta(t, 11.111111, got[2], 1e-6)
}

func TestEMAEdgeCases(t *testing.T) {
	assert.Empty(t, EMA(nil, 20))
	assert.Equal(t, []float64{0, 0}, EMA([]float64{1, 2}, 0))
	assert.Equal(t, []float64{42}, EMA([]float64{42}, 200))
}

func TestComputeHistogramIdentity(t *testing.T) {
	for _, n := range []int{1, 2, 30, 300} {
		s := Compute(generateBars(generateWave(n)))
		require.Equal(t, n, s.Len())
		for i := 0; i < n; i++ {
			assert.Equal(t, s.MACD[i]-s.Signal[i], s.Histogram[i], "n=%d i=%d", n, i)
		}
	}
}

func TestComputeMACDMatchesFastMinusSlow(t *testing.T) {
	closes := generateWave(60)
	s := Compute(generateBars(closes))
	fast := EMA(closes, MACDFast)
	slow := EMA(closes, MACDSlow)
	for i := range closes {
		assert.Equal(t, fast[i]-slow[i], s.MACD[i])
	}
	// signal is seeded by MACD[0], not Close[0]
	assert.Equal(t, s.MACD[0], s.Signal[0])
	assert.Equal(t, 0.0, s.Histogram[0])
}

func TestComputeSeededByFirstClose(t *testing.T) {
	s := Compute(generateBars([]float64{50, 55}))
	assert.Equal(t, 50.0, s.EMA20[0])
	assert.Equal(t, 50.0, s.EMA200[0])
	assert.InDelta(t, 50+5*2.0/21, s.EMA20[1], 1e-9)
}

func TestComputeIsDeterministic(t *testing.T) {
	bars := generateBars(generateWave(250))
	assert.Equal(t, Compute(bars), Compute(bars))
}

func TestLast(t *testing.T) {
	_, ok := Series{}.Last()
	assert.False(t, ok)

	s := Compute(generateBars([]float64{1, 2, 3}))
	p, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, s.EMA20[2], p.EMA20)
	assert.Equal(t, s.Histogram[2], p.Histogram)
}

func TestWarmupAdequate(t *testing.T) {
	assert.False(t, WarmupAdequate(types.Period3Mo, SpanLong))
	assert.True(t, WarmupAdequate(types.Period1Y, SpanLong))
	assert.True(t, WarmupAdequate(types.Period3Mo, SpanMedium))
}
