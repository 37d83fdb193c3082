package alert

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Status is the stock-health level assigned to an item.
type Status string

const (
	StatusCritical Status = "CRITICAL"
	StatusLow      Status = "LOW"
)

// SnapshotRow is one warehouse's view of an item at evaluation time. Rows are
// derived per request and never persisted.
type SnapshotRow struct {
	ItemCode     string
	ItemGroup    string
	SellableQty  decimal.Decimal
	ProjectedQty decimal.Decimal
	ReorderLevel *decimal.Decimal
	ReorderQty   *decimal.Decimal
	IsStocked    bool
}

// Result is one alert derived from a snapshot row and its matching rule.
type Result struct {
	ItemCode     string           `json:"item_code"`
	Status       Status           `json:"status"`
	Qty          decimal.Decimal  `json:"qty"`
	ReorderLevel *decimal.Decimal `json:"reorder_level,omitempty"`
	ReorderQty   *decimal.Decimal `json:"reorder_qty,omitempty"`
}

// Engine evaluates snapshot rows against a fixed rule set. Rules are sorted
// once at construction; evaluation is read-only and safe for concurrent use.
type Engine struct {
	rules           []Rule
	defaultCritical decimal.Decimal
	defaultLow      decimal.Decimal
	limit           int
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultRatios sets the fallback thresholds used when no rule matches.
func WithDefaultRatios(critical, low decimal.Decimal) Option {
	return func(e *Engine) {
		if critical.IsNegative() {
			critical = decimal.Zero
		}
		if low.LessThan(critical) {
			low = critical
		}
		e.defaultCritical = critical
		e.defaultLow = low
	}
}

// WithLimit caps how many alerts one evaluation returns. Zero means no cap.
func WithLimit(limit int) Option {
	return func(e *Engine) { e.limit = limit }
}

// NewEngine builds an engine over the given rules.
func NewEngine(rules []Rule, opts ...Option) *Engine {
	e := &Engine{
		rules:           sortRules(rules),
		defaultCritical: decimal.NewFromFloat(0.25),
		defaultLow:      decimal.NewFromFloat(0.5),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ruleFor picks the thresholds for one item in one warehouse. The exact
// (warehouse, item group) scope wins over (warehouse, *), which wins over
// (*, item group), which wins over (*, *); within a tier the lowest priority
// wins. Falls back to the engine defaults when nothing matches.
func (e *Engine) ruleFor(warehouse, itemGroup string) (critical, low decimal.Decimal) {
	for tier := 0; tier < 4; tier++ {
		for _, r := range e.rules {
			if r.matchesTier(warehouse, itemGroup, tier) {
				return r.CriticalRatio, r.LowRatio
			}
		}
	}
	return e.defaultCritical, e.defaultLow
}

// Evaluate computes alerts for one warehouse's snapshot rows. Non-stocked
// items never alert. Results come back CRITICAL first, then LOW, ascending
// quantity within each status, truncated to the configured limit.
func (e *Engine) Evaluate(warehouse string, rows []SnapshotRow) []Result {
	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		if !row.IsStocked {
			continue
		}
		status, ok := e.evaluateRow(warehouse, row)
		if !ok {
			continue
		}
		results = append(results, Result{
			ItemCode:     row.ItemCode,
			Status:       status,
			Qty:          row.ProjectedQty,
			ReorderLevel: row.ReorderLevel,
			ReorderQty:   row.ReorderQty,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Status != results[j].Status {
			return results[i].Status == StatusCritical
		}
		return results[i].Qty.LessThan(results[j].Qty)
	})

	if e.limit > 0 && len(results) > e.limit {
		results = results[:e.limit]
	}
	return results
}

func (e *Engine) evaluateRow(warehouse string, row SnapshotRow) (Status, bool) {
	if row.ProjectedQty.LessThanOrEqual(decimal.Zero) {
		return StatusCritical, true
	}
	if row.ReorderLevel == nil || !row.ReorderLevel.IsPositive() {
		return "", false
	}
	critical, low := e.ruleFor(warehouse, row.ItemGroup)
	level := *row.ReorderLevel
	if row.ProjectedQty.LessThanOrEqual(level.Mul(critical)) {
		return StatusCritical, true
	}
	if row.ProjectedQty.LessThanOrEqual(level.Mul(low)) {
		return StatusLow, true
	}
	return "", false
}
