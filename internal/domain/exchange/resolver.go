package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/possync/backend/internal/domain/shared"
)

// Quote is a stored conversion rate effective on a date.
type Quote struct {
	FromCurrency string
	ToCurrency   string
	Date         time.Time
	Rate         decimal.Decimal
}

// RateSource is the authoritative external rate lookup. Implementations
// return shared.ErrNotFound when no rate is published for the pair and date.
type RateSource interface {
	Lookup(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error)
}

// QuoteRepository reads stored currency quotes.
type QuoteRepository interface {
	// LatestDirect returns the most recent from→to quote dated on or before
	// the given date, or shared.ErrNotFound.
	LatestDirect(ctx context.Context, from, to string, onOrBefore time.Time) (*Quote, error)
}

// Resolver resolves a conversion rate between two currencies as of a date.
// A nil rate means "unknown": callers must surface that rather than assume 1.0.
type Resolver struct {
	source RateSource
	quotes QuoteRepository
}

// NewResolver creates a resolver over an external rate source and the stored
// quote table. Either collaborator may be nil, which disables its step of the
// fallback chain.
func NewResolver(source RateSource, quotes QuoteRepository) *Resolver {
	return &Resolver{source: source, quotes: quotes}
}

// Resolve walks the fallback chain: identity, external source, stored direct
// quote, inverted stored inverse quote. External source failures fall through
// to the stored quotes so a flaky rate provider never blocks a sync response.
func (r *Resolver) Resolve(ctx context.Context, from, to string, date time.Time) (*decimal.Decimal, error) {
	from, err := normalizeCurrency(from)
	if err != nil {
		return nil, err
	}
	to, err = normalizeCurrency(to)
	if err != nil {
		return nil, err
	}

	if from == to {
		one := decimal.NewFromInt(1)
		return &one, nil
	}

	if r.source != nil {
		rate, err := r.source.Lookup(ctx, from, to, date)
		if err == nil && rate.IsPositive() {
			return &rate, nil
		}
	}

	if r.quotes == nil {
		return nil, nil
	}

	quote, err := r.quotes.LatestDirect(ctx, from, to, date)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if quote != nil && quote.Rate.IsPositive() {
		rate := quote.Rate
		return &rate, nil
	}

	inverse, err := r.quotes.LatestDirect(ctx, to, from, date)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if inverse != nil && inverse.Rate.IsPositive() {
		rate := decimal.NewFromInt(1).DivRound(inverse.Rate, 9)
		return &rate, nil
	}

	return nil, nil
}

func normalizeCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", shared.ValidationFailed(fmt.Sprintf("Unknown currency code %q", code))
	}
	return unit.String(), nil
}
