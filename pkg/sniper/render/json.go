package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Name    string      `json:"name"`
	Columns []string    `json:"columns"`
	Entries []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Ticker     string          `json:"ticker"`
	Name       string          `json:"name,omitempty"`
	Category   string          `json:"category"`
	Cost       *string         `json:"cost,omitempty"`
	Note       string          `json:"note,omitempty"`
	Assessment *jsonAssessment `json:"assessment,omitempty"`
	Error      string          `json:"error,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

type jsonAssessment struct {
	Period         string          `json:"period"`
	AsOf           string          `json:"asOf"`
	Bars           int             `json:"bars"`
	LatestPrice    float64         `json:"latestPrice"`
	PriceChange    float64         `json:"priceChange"`
	PriceChangePct float64         `json:"priceChangePct"`
	ProfitLoss     *jsonProfitLoss `json:"profitLoss,omitempty"`
	Indicators     jsonIndicators  `json:"indicators"`

	FundamentalsApplicable    bool     `json:"fundamentalsApplicable"`
	SharesTrendPct            *float64 `json:"sharesTrendPct,omitempty"`
	DaysToEarnings            *int     `json:"daysToEarnings,omitempty"`
	InstitutionalOwnershipPct *float64 `json:"institutionalOwnershipPct,omitempty"`
	ShortInterestPct          *float64 `json:"shortInterestPct,omitempty"`

	Judgments []jsonJudgment `json:"judgments"`
}

type jsonIndicators struct {
	EMA20     float64 `json:"ema20"`
	EMA50     float64 `json:"ema50"`
	EMA200    float64 `json:"ema200"`
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

func toJSONIndicators(p types.IndicatorPoint) jsonIndicators {
	return jsonIndicators{EMA20: p.EMA20, EMA50: p.EMA50, EMA200: p.EMA200, MACD: p.MACD, Signal: p.Signal, Histogram: p.Histogram}
}

type jsonProfitLoss struct {
	Amount string `json:"amount"`
	Pct    string `json:"pct"`
}

type jsonJudgment struct {
	Code string `json:"code"`
	Text string `json:"text"`
	Tone string `json:"tone"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, sheets []types.Sheet, opts RenderOptions) error {
	out := make([]jsonModel, 0, len(sheets))
	for _, s := range sheets {
		cols := s.Columns
		if len(opts.Columns) > 0 {
			cols = opts.Columns
		}
		entries := make([]jsonEntry, 0, len(s.Entries))
		for _, e := range s.Entries {
			entries = append(entries, toJSONEntry(e))
		}
		out = append(out, jsonModel{Name: s.Name, Columns: cols, Entries: entries})
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func toJSONEntry(e types.Entry) jsonEntry {
	je := jsonEntry{
		Ticker:   e.Position.Ticker,
		Name:     e.Name,
		Category: string(e.Position.Category),
		Note:     e.Position.Note,
	}
	if e.Position.CostBasis.Valid {
		c := e.Position.CostBasis.Decimal.String()
		je.Cost = &c
	}
	if e.Err != nil {
		je.Error = e.Err.Error()
		je.Reason = types.Reason(e.Err)
	}
	if a := e.Assessment; a != nil {
		ja := &jsonAssessment{
			Period:                    a.Period.String(),
			AsOf:                      a.AsOf.Format(time.DateOnly),
			Bars:                      a.Bars,
			LatestPrice:               a.LatestPrice,
			PriceChange:               a.PriceChange,
			PriceChangePct:            a.PriceChangePct,
			Indicators:                toJSONIndicators(a.Latest),
			FundamentalsApplicable:    a.FundamentalsApplicable,
			SharesTrendPct:            a.SharesTrendPct,
			DaysToEarnings:            a.DaysToEarnings,
			InstitutionalOwnershipPct: a.InstitutionalOwnershipPct,
			ShortInterestPct:          a.ShortInterestPct,
			Judgments:                 make([]jsonJudgment, 0, len(a.Judgments)),
		}
		if pl := a.ProfitLoss; pl != nil {
			ja.ProfitLoss = &jsonProfitLoss{Amount: pl.Amount.StringFixed(2), Pct: pl.Pct.StringFixed(2)}
		}
		for _, j := range a.Judgments {
			ja.Judgments = append(ja.Judgments, jsonJudgment{Code: string(j.Code), Text: j.Text, Tone: j.Tone.String()})
		}
		je.Assessment = ja
	}
	return je
}
