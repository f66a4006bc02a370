package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/sniper/pkg/sniper/normalize"
	"github.com/komsit37/sniper/pkg/sniper/types"
	"github.com/komsit37/sniper/pkg/sniper/yahoo"
)

const sharesSeries = "quarterlyOrdinarySharesNumber"

var summaryModules = []yfgo.QuoteSummaryModule{yfgo.ModuleDefaultKeyStatistics, yfgo.ModuleCalendarEvents}

// YahooService reads quarterly share counts from the fundamentals timeseries endpoint
// and ownership, short interest and the earnings calendar from quoteSummary via yf-go.
type YahooService struct {
	client *yahoo.Client
	yf     *yfgo.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewYahooService(client *yahoo.Client, logger *zap.Logger) *YahooService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YahooService{client: client, yf: client.YF(), logger: logger, now: time.Now}
}

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *yahoo.Error                 `json:"error"`
	} `json:"timeseries"`
}

type sharesObservation struct {
	AsOfDate      string      `json:"asOfDate"`
	ReportedValue yahoo.Value `json:"reportedValue"`
}

// summaryResult is the slice of quoteSummary.result[0] the snapshot reads.
type summaryResult struct {
	DefaultKeyStatistics struct {
		HeldPercentInstitutions yahoo.Value `json:"heldPercentInstitutions"`
		ShortPercentOfFloat     yahoo.Value `json:"shortPercentOfFloat"`
	} `json:"defaultKeyStatistics"`
	CalendarEvents struct {
		Earnings struct {
			EarningsDate []yahoo.Value `json:"earningsDate"`
		} `json:"earnings"`
	} `json:"calendarEvents"`
}

func (s *YahooService) Fundamentals(ctx context.Context, ticker string) (types.FundamentalsSnapshot, error) {
	snap := types.FundamentalsSnapshot{Ticker: ticker}

	history, sharesErr := s.shares(ctx, ticker)
	if sharesErr == nil {
		snap.SharesHistory = history
	}
	summaryErr := s.summary(ctx, ticker, &snap)

	// partial snapshots are normal for thinly covered tickers
	if sharesErr != nil && summaryErr != nil {
		return types.FundamentalsSnapshot{}, types.Unavailable("yahoo fundamentals", ticker, errors.Join(sharesErr, summaryErr))
	}
	if sharesErr != nil {
		s.logger.Warn("shares history unavailable", zap.String("ticker", ticker), zap.Error(sharesErr))
	}
	if summaryErr != nil {
		s.logger.Warn("quote summary unavailable", zap.String("ticker", ticker), zap.Error(summaryErr))
	}
	return snap, nil
}

func (s *YahooService) shares(ctx context.Context, ticker string) ([]types.SharesPoint, error) {
	now := s.now()
	params := url.Values{}
	params.Set("type", sharesSeries)
	params.Set("period1", strconv.FormatInt(now.AddDate(-3, 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))

	var resp timeseriesResponse
	path := "/ws/fundamentals-timeseries/v1/finance/timeseries/" + url.PathEscape(ticker)
	if err := s.client.Get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Timeseries.Error != nil {
		return nil, resp.Timeseries.Error
	}

	var out []types.SharesPoint
	for _, res := range resp.Timeseries.Result {
		raw, ok := res[sharesSeries]
		if !ok {
			continue
		}
		var obs []*sharesObservation
		if err := json.Unmarshal(raw, &obs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", sharesSeries, err)
		}
		for _, o := range obs {
			if o == nil {
				continue
			}
			v, ok := o.ReportedValue.Float()
			if !ok || v <= 0 {
				continue
			}
			d, err := time.Parse("2006-01-02", o.AsOfDate)
			if err != nil {
				continue
			}
			out = append(out, types.SharesPoint{Date: d, Shares: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *YahooService) summary(ctx context.Context, ticker string, snap *types.FundamentalsSnapshot) error {
	raw, err := s.yf.QuoteSummary(ctx, ticker, summaryModules)
	if err != nil {
		return err
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("quote summary: %w", err)
	}
	var res summaryResult
	if err := json.Unmarshal(b, &res); err != nil {
		return fmt.Errorf("quote summary: %w", err)
	}

	if v, ok := res.DefaultKeyStatistics.HeldPercentInstitutions.Float(); ok {
		pct := v * 100
		snap.InstitutionalOwnershipPct = &pct
	}
	if v, ok := res.DefaultKeyStatistics.ShortPercentOfFloat.Float(); ok {
		pct := v * 100
		snap.ShortInterestPct = &pct
	}
	snap.NextEarningsDate = nextEarnings(res.CalendarEvents.Earnings.EarningsDate, s.now())
	return nil
}

// nextEarnings picks the earliest announced date not before today, falling back to the latest one.
func nextEarnings(dates []yahoo.Value, now time.Time) *time.Time {
	today := normalize.Date(now)
	var best, last *time.Time
	for _, v := range dates {
		raw, ok := v.Float()
		if !ok {
			continue
		}
		d := normalize.Date(time.Unix(int64(raw), 0).UTC())
		if last == nil || d.After(*last) {
			dd := d
			last = &dd
		}
		if d.Before(today) {
			continue
		}
		if best == nil || d.Before(*best) {
			dd := d
			best = &dd
		}
	}
	if best != nil {
		return best
	}
	return last
}
