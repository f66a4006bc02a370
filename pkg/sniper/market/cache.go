package market

import (
	"context"
	"strings"
	"time"

	"github.com/komsit37/sniper/pkg/sniper/cache"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// CacheService memoizes a PriceSource per ticker and period. Failures are not cached.
type CacheService struct {
	next  PriceSource
	cache *cache.TTL[[]types.PriceBar]
}

func NewCacheService(next PriceSource, ttl time.Duration, size int) *CacheService {
	return &CacheService{next: next, cache: cache.New[[]types.PriceBar](ttl, size)}
}

func (c *CacheService) Bars(ctx context.Context, ticker string, period types.Period) ([]types.PriceBar, error) {
	k := strings.ToUpper(ticker) + "|" + period.String()
	if bars, ok := c.cache.Get(k); ok {
		return bars, nil
	}
	bars, err := c.next.Bars(ctx, ticker, period)
	if err != nil {
		return nil, err
	}
	c.cache.Put(k, bars)
	return bars, nil
}
