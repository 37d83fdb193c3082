package config

import (
	"context"
	"sync"
)

// Settings are the operator-editable knobs, as opposed to deploy-time Config.
// They live in the database and are cached in-process behind a version
// counter; writers bump the version so readers can tell a stale copy apart.
type Settings struct {
	DefaultCustomer       string `json:"default_customer"`
	AllowCreditSales      bool   `json:"allow_credit_sales"`
	OpenInvoiceWindowDays int    `json:"open_invoice_window_days"`
	PaidInvoiceWindowDays int    `json:"paid_invoice_window_days"`
	AlertLimit            int    `json:"alert_limit"`
}

// DefaultSettings returns the settings used before an operator saves any.
func DefaultSettings() Settings {
	return Settings{
		OpenInvoiceWindowDays: 30,
		PaidInvoiceWindowDays: 7,
		AlertLimit:            50,
	}
}

// SettingsStore persists the settings document.
type SettingsStore interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

// SettingsProvider is the explicit replacement for an ambient mutable
// settings global: it is constructed once, injected where needed, and
// invalidated only by its own Update.
type SettingsProvider struct {
	store SettingsStore

	mu      sync.RWMutex
	current Settings
	version uint64
}

// NewSettingsProvider loads the initial settings snapshot.
func NewSettingsProvider(ctx context.Context, store SettingsStore) (*SettingsProvider, error) {
	s, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsProvider{store: store, current: *s, version: 1}, nil
}

// Get returns the cached settings and the version they belong to.
func (p *SettingsProvider) Get() (Settings, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.version
}

// Update persists new settings and bumps the version. The cache is replaced
// only after the store accepted the write.
func (p *SettingsProvider) Update(ctx context.Context, s Settings) (uint64, error) {
	if err := p.store.Save(ctx, &s); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = s
	p.version++
	return p.version, nil
}
