package enrich

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sniper/pkg/sniper/types"
	"github.com/komsit37/sniper/pkg/sniper/yahoo"
	"github.com/komsit37/sniper/pkg/sniper/yahoo/yahootest"
)

const timeseriesBody = `{"timeseries":{"result":[{"meta":{"symbol":["NVDA"]},
"quarterlyOrdinarySharesNumber":[
 {"asOfDate":"2024-03-31","reportedValue":{"raw":90}},
 null,
 {"asOfDate":"2023-03-31","reportedValue":{"raw":100}},
 {"asOfDate":"2023-06-30","reportedValue":{"raw":100}},
 {"asOfDate":"2023-09-30","reportedValue":{"raw":95}},
 {"asOfDate":"2023-12-31","reportedValue":{"raw":95}}
]}],"error":null}}`

// 2024-05-22 and 2024-04-01 as unix seconds
const summaryBody = `{"quoteSummary":{"result":[{
"defaultKeyStatistics":{"heldPercentInstitutions":{"raw":0.652},"shortPercentOfFloat":{"raw":0.125}},
"calendarEvents":{"earnings":{"earningsDate":[{"raw":1716336000},{"raw":1711929600}]}}}],"error":null}}`

func newYahooServer(t *testing.T, timeseries, summary int) *yahootest.Server {
	t.Helper()
	return yahootest.New(t, map[string]http.HandlerFunc{
		"/ws/fundamentals-timeseries/": func(w http.ResponseWriter, r *http.Request) {
			if timeseries != http.StatusOK {
				w.WriteHeader(timeseries)
				return
			}
			w.Write([]byte(timeseriesBody))
		},
		"/v10/finance/quoteSummary/": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "defaultKeyStatistics,calendarEvents", r.URL.Query().Get("modules"))
			if summary != http.StatusOK {
				w.WriteHeader(summary)
				return
			}
			w.Write([]byte(summaryBody))
		},
	})
}

func newService(srv *yahootest.Server) *YahooService {
	s := NewYahooService(srv.Client(), nil)
	s.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestYahooServiceFundamentals(t *testing.T) {
	srv := newYahooServer(t, http.StatusOK, http.StatusOK)

	snap, err := newService(srv).Fundamentals(context.Background(), "NVDA")
	require.NoError(t, err)

	require.Len(t, snap.SharesHistory, 5)
	assert.Equal(t, 100.0, snap.SharesHistory[0].Shares)
	pct, ok := SharesTrendPct(snap.SharesHistory)
	require.True(t, ok)
	assert.InDelta(t, -10.0, pct, 1e-9)

	require.NotNil(t, snap.InstitutionalOwnershipPct)
	assert.InDelta(t, 65.2, *snap.InstitutionalOwnershipPct, 1e-9)
	require.NotNil(t, snap.ShortInterestPct)
	assert.InDelta(t, 12.5, *snap.ShortInterestPct, 1e-9)
	require.NotNil(t, snap.NextEarningsDate)
	assert.Equal(t, time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC), *snap.NextEarningsDate)
}

func TestYahooServiceQuoteSummaryUsesCrumb(t *testing.T) {
	srv := newYahooServer(t, http.StatusOK, http.StatusOK)
	svc := newService(srv)

	for _, ticker := range []string{"NVDA", "AMD"} {
		snap, err := svc.Fundamentals(context.Background(), ticker)
		require.NoError(t, err)
		require.NotNil(t, snap.InstitutionalOwnershipPct, ticker)
		require.NotNil(t, snap.NextEarningsDate, ticker)
	}
	assert.Zero(t, srv.Rejected(), "quoteSummary reached without cookie and crumb")

	var order []string
	for _, p := range srv.Requests() {
		if p == "/v1/test/getcrumb" || strings.HasPrefix(p, "/v10/finance/quoteSummary/") {
			order = append(order, p)
		}
	}
	assert.Equal(t, []string{
		"/v1/test/getcrumb",
		"/v10/finance/quoteSummary/NVDA",
		"/v10/finance/quoteSummary/AMD",
	}, order)
}

func TestYahooServicePartial(t *testing.T) {
	srv := newYahooServer(t, http.StatusOK, http.StatusUnauthorized)

	snap, err := newService(srv).Fundamentals(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Len(t, snap.SharesHistory, 5)
	assert.Nil(t, snap.InstitutionalOwnershipPct)
	assert.Nil(t, snap.NextEarningsDate)
}

func TestYahooServiceUnavailable(t *testing.T) {
	srv := newYahooServer(t, http.StatusInternalServerError, http.StatusUnauthorized)

	_, err := newService(srv).Fundamentals(context.Background(), "NVDA")
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
}

func TestNextEarningsFallsBackToLatest(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	raw := float64(1716336000)
	d := nextEarnings([]yahoo.Value{{Raw: &raw}}, now)
	require.NotNil(t, d)
	assert.Equal(t, 22, d.Day())
	assert.Nil(t, nextEarnings(nil, now))
}
