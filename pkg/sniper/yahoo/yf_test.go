package yahoo_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/sniper/pkg/sniper/yahoo"
	"github.com/komsit37/sniper/pkg/sniper/yahoo/yahootest"
)

const priceBody = `{"quoteSummary":{"result":[{"price":{"shortName":"NVIDIA Corporation","regularMarketPrice":{"raw":900.5,"fmt":"900.50"}}}],"error":null}}`

func TestYFQuoteSummaryEstablishesSession(t *testing.T) {
	srv := yahootest.New(t, map[string]http.HandlerFunc{
		"/v10/finance/quoteSummary/": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, yahootest.Crumb, r.URL.Query().Get("crumb"))
			w.Write([]byte(priceBody))
		},
	})
	c := srv.Client()
	assert.Same(t, c.YF(), c.YF())

	res, err := c.YF().QuoteSummaryTyped(context.Background(), "NVDA", []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	require.NoError(t, err)
	require.NotNil(t, res.Price)
	assert.Equal(t, "NVIDIA Corporation", res.Price.ShortName)
	assert.Zero(t, srv.Rejected())
}

func TestYFSharesRateLimit(t *testing.T) {
	srv := yahootest.New(t, nil)
	c := srv.Client(yahoo.WithRateLimit(1))

	// one token: the first session request spends it and every later one would wait past the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.YF().ChartTyped(ctx, "NVDA", yfgo.ChartOptions{Interval: "1d"})
	assert.Error(t, err)
	assert.Equal(t, []string{"/"}, srv.Requests())
}
