package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/alert"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/exchange"
	"github.com/possync/backend/internal/domain/shared"
)

// Options tune the planner's windows and limits.
type Options struct {
	// OpenInvoiceWindowDays bounds how far back open invoices are fetched.
	OpenInvoiceWindowDays int
	// PaidInvoiceWindowDays bounds how far back recently paid invoices are fetched.
	PaidInvoiceWindowDays int
	// PaymentWindowDays bounds the payment entry window.
	PaymentWindowDays int
	// AlertLimit caps how many alerts one response carries.
	AlertLimit int
	// DefaultPageLimit and MaxPageLimit bound per-family pages.
	DefaultPageLimit int
	MaxPageLimit     int
}

// DefaultOptions are the windows the clients were built against.
func DefaultOptions() Options {
	return Options{
		OpenInvoiceWindowDays: 30,
		PaidInvoiceWindowDays: 7,
		PaymentWindowDays:     30,
		AlertLimit:            50,
		DefaultPageLimit:      100,
		MaxPageLimit:          500,
	}
}

// Planner assembles bootstrap snapshots and delta change-sets. It holds no
// mutable state across calls; every method is safe for concurrent use.
type Planner struct {
	opts      Options
	inventory InventoryReader
	customers CustomerReader
	suppliers SupplierReader
	invoices  InvoiceReader
	payments  PaymentReader
	profiles  ProfileReader
	sessions  SessionReader
	reference ReferenceReader
	stubs     StubReader
	rules     AlertRuleReader
	rates     *exchange.Resolver
	perms     document.PermissionChecker
	caps      document.Capabilities
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlanner wires the planner to its readers.
func NewPlanner(
	opts Options,
	inventory InventoryReader,
	customers CustomerReader,
	suppliers SupplierReader,
	invoices InvoiceReader,
	payments PaymentReader,
	profiles ProfileReader,
	sessions SessionReader,
	reference ReferenceReader,
	stubs StubReader,
	rules AlertRuleReader,
	rates *exchange.Resolver,
	perms document.PermissionChecker,
	caps document.Capabilities,
	logger *zap.Logger,
) *Planner {
	return &Planner{
		opts:      opts,
		inventory: inventory,
		customers: customers,
		suppliers: suppliers,
		invoices:  invoices,
		payments:  payments,
		profiles:  profiles,
		sessions:  sessions,
		reference: reference,
		stubs:     stubs,
		rules:     rules,
		rates:     rates,
		perms:     perms,
		caps:      caps,
		logger:    logger,
		now:       time.Now,
	}
}

// authorize loads the profile and checks the actor may sync against it: read
// permission on items plus an open session on the profile.
func (p *Planner) authorize(ctx context.Context, actor, profileName string) (*ProfileRow, error) {
	if !p.perms.HasPermission(ctx, actor, document.KindItem, document.ActionRead) {
		return nil, shared.PermissionDenied("Not permitted to read inventory")
	}
	profile, err := p.profiles.Profile(ctx, profileName)
	if err != nil {
		return nil, err
	}
	if !p.profileAllowsUser(profile, actor) {
		return nil, shared.PermissionDenied("Profile " + profileName + " is not assigned to this user")
	}
	open, err := p.sessions.HasOpenSession(ctx, profileName, actor)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, shared.ValidationFailed("No open session for profile " + profileName)
	}
	return profile, nil
}

// profileAllowsUser treats a profile with no user list as open to everyone.
func (p *Planner) profileAllowsUser(profile *ProfileRow, actor string) bool {
	if len(profile.Users) == 0 {
		return true
	}
	for _, u := range profile.Users {
		if u == actor {
			return true
		}
	}
	return false
}

// MyProfiles lists the enabled profiles the actor may operate. It needs read
// permission on sessions but no open session; clients call it before opening
// one.
func (p *Planner) MyProfiles(ctx context.Context, actor string) ([]ProfileRow, error) {
	if !p.perms.HasPermission(ctx, actor, document.KindPOSSession, document.ActionRead) {
		return nil, shared.PermissionDenied("Not permitted to read POS profiles")
	}
	return p.profiles.ProfilesForUser(ctx, actor)
}

// engine builds the alert engine from the stored rule set.
func (p *Planner) engine(ctx context.Context) (*alert.Engine, error) {
	rules, err := p.rules.Rules(ctx)
	if err != nil {
		return nil, err
	}
	return alert.NewEngine(rules, alert.WithLimit(p.opts.AlertLimit)), nil
}

// visibleRows applies the negative-stock rule: rows whose raw on-hand count
// has drifted negative are hidden from clients unless they carry an alert.
// The check is on the physical count, not the projection; incoming purchase
// orders can push the projection positive while the shelf count is still
// wrong, and such a row must not ship as a sellable line.
func visibleRows(rows []InventoryRow, alerts []alert.Result) []InventoryRow {
	alerted := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		alerted[a.ItemCode] = true
	}
	visible := make([]InventoryRow, 0, len(rows))
	for _, row := range rows {
		if row.OnHandQty.IsNegative() && !alerted[row.ItemCode] {
			continue
		}
		visible = append(visible, row)
	}
	return visible
}

func (p *Planner) page(offset, limit int) shared.Page {
	return shared.Page{Offset: offset, Limit: limit}.Normalize(p.opts.DefaultPageLimit, p.opts.MaxPageLimit)
}
