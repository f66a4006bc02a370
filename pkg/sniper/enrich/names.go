package enrich

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	yfgo "github.com/komsit37/yf-go"
)

// NameService resolves a display name for a ticker.
type NameService interface {
	Name(ctx context.Context, ticker string) (string, error)
}

// YFNames implements NameService using yf-go's price module. Pass the client from
// yahoo.Client.YF so name lookups share the session and rate limit.
type YFNames struct {
	client  *yfgo.Client
	timeout time.Duration

	mu    sync.Mutex
	names map[string]string
}

func NewYFNames(client *yfgo.Client, timeout time.Duration) *YFNames {
	return &YFNames{client: client, timeout: timeout, names: map[string]string{}}
}

func (s *YFNames) Name(ctx context.Context, ticker string) (string, error) {
	if ticker == "" {
		return "", nil
	}
	key := strings.ToUpper(ticker)
	s.mu.Lock()
	if n, ok := s.names[key]; ok {
		s.mu.Unlock()
		return n, nil
	}
	s.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.client.QuoteSummaryTyped(cctx, ticker, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return "", err
	}
	if res.Price == nil {
		return "", fmt.Errorf("no price module for %s", ticker)
	}
	name := res.Price.ShortName
	if name == "" {
		name = res.Price.LongName
	}

	s.mu.Lock()
	s.names[key] = name
	s.mu.Unlock()
	return name, nil
}

// StaticNames serves names from a map; unknown tickers resolve to "".
type StaticNames map[string]string

func (m StaticNames) Name(_ context.Context, ticker string) (string, error) {
	return m[strings.ToUpper(ticker)], nil
}
