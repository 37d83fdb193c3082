// Package rates implements the external currency rate lookup over a
// frankfurter-compatible HTTP provider.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/possync/backend/internal/domain/shared"
)

// HTTPSource fetches historical rates from a provider exposing the
// frankfurter.app API shape: GET {base}/{yyyy-mm-dd}?from=X&to=Y returning
// {"rates": {"Y": n}}.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source against the given provider base URL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup returns the published from→to rate on the given date, or
// shared.ErrNotFound when the provider has no rate for the pair.
func (s *HTTPSource) Lookup(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/%s?from=%s&to=%s",
		s.baseURL, date.Format("2006-01-02"), url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching rate %s/%s: %w", from, to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, shared.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate provider returned %d for %s/%s", resp.StatusCode, from, to)
	}

	var payload struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decoding rate response: %w", err)
	}

	raw, ok := payload.Rates[to]
	if !ok {
		return decimal.Zero, shared.ErrNotFound
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate provider returned malformed rate %q: %w", raw.String(), err)
	}
	return rate, nil
}
