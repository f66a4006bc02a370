// Package position values a price series against an optional cost basis.
package position

import (
	"github.com/shopspring/decimal"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

var hundred = decimal.NewFromInt(100)

// Valuation is the live price, day-over-day change and optional profit/loss.
type Valuation struct {
	LatestPrice    float64
	PriceChange    float64
	PriceChangePct float64
	ProfitLoss     *types.ProfitLoss
}

// Evaluate values the last bar of an ascending series. At least two bars are required.
// ProfitLoss is nil when cost is absent or not positive.
func Evaluate(bars []types.PriceBar, cost decimal.NullDecimal) (Valuation, error) {
	if len(bars) < 2 {
		return Valuation{}, types.ErrInsufficientHistory
	}
	latest := bars[len(bars)-1].Close
	prev := bars[len(bars)-2].Close

	v := Valuation{
		LatestPrice: latest,
		PriceChange: latest - prev,
	}
	if prev != 0 {
		v.PriceChangePct = v.PriceChange / prev * 100
	}
	v.ProfitLoss = ProfitLoss(latest, cost)
	return v, nil
}

// ProfitLoss computes the unrealized result of price against cost, or nil without a usable cost.
func ProfitLoss(price float64, cost decimal.NullDecimal) *types.ProfitLoss {
	if !types.UsableCost(cost) {
		return nil
	}
	amount := decimal.NewFromFloat(price).Sub(cost.Decimal)
	return &types.ProfitLoss{
		Amount: amount,
		Pct:    amount.Div(cost.Decimal).Mul(hundred),
	}
}
