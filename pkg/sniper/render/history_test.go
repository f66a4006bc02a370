package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sniper/pkg/sniper/recorder"
)

func records() []recorder.Record {
	pl := "12.5"
	days := 9
	return []recorder.Record{
		{
			RecordedAt:     time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC),
			Ticker:         "NVDA",
			Period:         "1y",
			AsOf:           time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			LatestPrice:    112.5,
			PriceChangePct: 1.25,
			PLPct:          &pl,
			EMA20:          105,
			EMA200:         90,
			MACD:           1.5,
			DaysToEarnings: &days,
			Judgments:      "bullish_bias,earnings_window",
		},
		{
			RecordedAt: time.Date(2024, 5, 9, 14, 0, 0, 0, time.UTC),
			Ticker:     "NVDA",
			Period:     "1y",
			AsOf:       time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HistoryTable(&buf, records(), false))
	out := buf.String()
	assert.Contains(t, out, "2024-05-10")
	assert.Contains(t, out, "112.50")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "9d")
	assert.Contains(t, out, "bullish_bias, earnings_window")
	assert.NotContains(t, out, "\x1b[")
}

func TestHistoryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HistoryJSON(&buf, records(), false))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-05-10", rows[0]["as_of"])
	assert.Equal(t, []any{"bullish_bias", "earnings_window"}, rows[0]["judgments"])
	assert.Equal(t, "12.5", rows[0]["pl_pct"])
	assert.Equal(t, []any{}, rows[1]["judgments"])
	assert.NotContains(t, rows[1], "pl_pct")
	assert.NotContains(t, rows[1], "days_to_earnings")
}
