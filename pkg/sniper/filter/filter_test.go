package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

var book = []types.Position{
	{Ticker: "NVDA", Category: types.CategoryHolding},
	{Ticker: "AMD", Category: types.CategoryHolding},
	{Ticker: "AAPL", Category: types.CategoryWatchlist},
	{Ticker: "BTC-USD", Category: types.CategoryWatchlist},
}

func tickers(ps []types.Position) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Ticker)
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"", []string{"NVDA", "AMD", "AAPL", "BTC-USD"}},
		{"nvda, aapl", []string{"NVDA", "AAPL"}},
		{"a*", []string{"AMD", "AAPL"}},
		{"/^A.D$/", []string{"AMD"}},
		{"usd", []string{"BTC-USD"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tickers(Apply(f, book)))
		})
	}

	_, err := Parse("/([/")
	assert.Error(t, err)
}

func TestCategoryAnd(t *testing.T) {
	sub, err := Parse("a")
	require.NoError(t, err)
	f := And{Category(types.CategoryHolding), sub}
	assert.Equal(t, []string{"NVDA", "AMD"}, tickers(Apply(f, book)))
	assert.Equal(t, "category:holding", Category(types.CategoryHolding).String())
	assert.Len(t, Apply(And{}, book), 4)
}
