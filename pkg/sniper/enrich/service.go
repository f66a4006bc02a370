// Package enrich derives fundamentals signals and fetches the snapshots they come from.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/komsit37/sniper/pkg/sniper/cache"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Service fetches a fundamentals snapshot for a ticker.
type Service interface {
	Fundamentals(ctx context.Context, ticker string) (types.FundamentalsSnapshot, error)
}

// Guard short-circuits indices, crypto pairs and other non-equities with
// ErrNotApplicable before the wrapped service is called.
type Guard struct {
	next Service
}

func NewGuard(next Service) *Guard { return &Guard{next: next} }

func (g *Guard) Fundamentals(ctx context.Context, ticker string) (types.FundamentalsSnapshot, error) {
	if kind := Classify(ticker); kind != KindEquity {
		return types.FundamentalsSnapshot{}, fmt.Errorf("%s is %s: %w", ticker, kind, types.ErrNotApplicable)
	}
	return g.next.Fundamentals(ctx, ticker)
}

// None reports every ticker as not applicable; used when fundamentals are disabled.
type None struct{}

func (None) Fundamentals(_ context.Context, ticker string) (types.FundamentalsSnapshot, error) {
	return types.FundamentalsSnapshot{}, fmt.Errorf("fundamentals disabled for %s: %w", ticker, types.ErrNotApplicable)
}

// CacheService decorates a Service with a TTL+LRU cache. Failures are not cached.
type CacheService struct {
	next  Service
	cache *cache.TTL[types.FundamentalsSnapshot]
}

func NewCacheService(next Service, ttl time.Duration, size int) *CacheService {
	return &CacheService{next: next, cache: cache.New[types.FundamentalsSnapshot](ttl, size)}
}

func (c *CacheService) Fundamentals(ctx context.Context, ticker string) (types.FundamentalsSnapshot, error) {
	k := strings.ToUpper(ticker)
	if s, ok := c.cache.Get(k); ok {
		return s, nil
	}
	s, err := c.next.Fundamentals(ctx, ticker)
	if err != nil {
		return s, err
	}
	c.cache.Put(k, s)
	return s, nil
}
