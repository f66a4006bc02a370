// Package portfolio loads and stores position lists.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Store reads and replaces the portfolio snapshot.
type Store interface {
	ListPositions(ctx context.Context) ([]types.Position, error)
	ReplacePositions(ctx context.Context, positions []types.Position) error
}

// DefaultPositions returns the starter portfolio as a fresh slice.
func DefaultPositions() []types.Position {
	return []types.Position{
		{Ticker: "NVDA", CostBasis: types.Cost(450.00), Category: types.CategoryHolding},
		{Ticker: "TSLA", CostBasis: types.Cost(220.50), Category: types.CategoryHolding},
		{Ticker: "AMD", CostBasis: types.Cost(110.00), Category: types.CategoryHolding},
		{Ticker: "MSFT", CostBasis: types.Cost(350.00), Category: types.CategoryHolding},
		{Ticker: "AAPL", Category: types.CategoryWatchlist},
		{Ticker: "PLTR", Category: types.CategoryWatchlist},
		{Ticker: "COIN", Category: types.CategoryWatchlist},
		{Ticker: "SMCI", Category: types.CategoryWatchlist},
	}
}

// DuplicateTickerError reports a ticker listed more than once.
type DuplicateTickerError struct {
	Ticker string
}

func (e DuplicateTickerError) Error() string {
	return fmt.Sprintf("duplicate ticker %q", e.Ticker)
}

// Validate normalizes tickers to upper case and rejects empty or duplicate ones.
// The returned slice is a copy.
func Validate(positions []types.Position) ([]types.Position, error) {
	out := make([]types.Position, len(positions))
	seen := make(map[string]bool, len(positions))
	for i, p := range positions {
		p.Ticker = strings.ToUpper(strings.TrimSpace(p.Ticker))
		if p.Ticker == "" {
			return nil, fmt.Errorf("position %d: empty ticker", i)
		}
		if seen[p.Ticker] {
			return nil, DuplicateTickerError{Ticker: p.Ticker}
		}
		seen[p.Ticker] = true
		if p.Category == "" {
			p.Category = types.CategoryWatchlist
		}
		out[i] = p
	}
	return out, nil
}

// Split separates holdings from watchlist entries, keeping order.
func Split(positions []types.Position) (holdings, watchlist []types.Position) {
	for _, p := range positions {
		if p.Category == types.CategoryHolding {
			holdings = append(holdings, p)
		} else {
			watchlist = append(watchlist, p)
		}
	}
	return holdings, watchlist
}

// MemoryStore keeps positions in memory, seeded with an injected default list.
type MemoryStore struct {
	mu        sync.RWMutex
	positions []types.Position
}

func NewMemoryStore(seed []types.Position) *MemoryStore {
	return &MemoryStore{positions: append([]types.Position(nil), seed...)}
}

func (m *MemoryStore) ListPositions(_ context.Context) ([]types.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.Position(nil), m.positions...), nil
}

func (m *MemoryStore) ReplacePositions(_ context.Context, positions []types.Position) error {
	v, err := Validate(positions)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.positions = v
	m.mu.Unlock()
	return nil
}
