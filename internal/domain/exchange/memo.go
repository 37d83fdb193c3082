package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Memo caches resolved rates for the duration of one response. Unknown rates
// are cached too, so a missing pair is looked up at most once per response.
type Memo struct {
	resolver *Resolver

	mu    sync.Mutex
	rates map[string]*decimal.Decimal
}

// NewMemo wraps a resolver with a per-response cache.
func NewMemo(resolver *Resolver) *Memo {
	return &Memo{
		resolver: resolver,
		rates:    make(map[string]*decimal.Decimal),
	}
}

// Resolve returns the cached rate when the pair was already looked up in this
// response, resolving and caching otherwise.
func (m *Memo) Resolve(ctx context.Context, from, to string, date time.Time) (*decimal.Decimal, error) {
	key := from + "|" + to + "|" + date.Format("2006-01-02")

	m.mu.Lock()
	if rate, ok := m.rates[key]; ok {
		m.mu.Unlock()
		return rate, nil
	}
	m.mu.Unlock()

	rate, err := m.resolver.Resolve(ctx, from, to, date)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.rates[key] = rate
	m.mu.Unlock()
	return rate, nil
}
