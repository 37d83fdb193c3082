package alert

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Wildcard matches any warehouse or item group in a rule scope.
const Wildcard = "*"

// Rule scopes stock-health thresholds to a (warehouse, item group) pair.
// Ratios are fractions of an item's reorder level: projected quantity at or
// below reorder_level*CriticalRatio is CRITICAL, at or below
// reorder_level*LowRatio is LOW.
type Rule struct {
	Warehouse     string
	ItemGroup     string
	CriticalRatio decimal.Decimal
	LowRatio      decimal.Decimal
	Priority      int
}

// NewRule builds a rule with its ratio invariants enforced: negative ratios
// clamp to zero and LowRatio clamps up to CriticalRatio. Clamping happens
// here, at authoring time, so evaluation never re-checks.
func NewRule(warehouse, itemGroup string, criticalRatio, lowRatio decimal.Decimal, priority int) Rule {
	if criticalRatio.IsNegative() {
		criticalRatio = decimal.Zero
	}
	if lowRatio.LessThan(criticalRatio) {
		lowRatio = criticalRatio
	}
	if warehouse == "" {
		warehouse = Wildcard
	}
	if itemGroup == "" {
		itemGroup = Wildcard
	}
	return Rule{
		Warehouse:     warehouse,
		ItemGroup:     itemGroup,
		CriticalRatio: criticalRatio,
		LowRatio:      lowRatio,
		Priority:      priority,
	}
}

// matchesTier reports whether the rule's scope sits in the given specificity
// tier for one (warehouse, item group) lookup. Tier 0 is the exact pair, tiers
// 1-3 widen to wildcards.
func (r Rule) matchesTier(warehouse, itemGroup string, tier int) bool {
	switch tier {
	case 0:
		return r.Warehouse == warehouse && r.ItemGroup == itemGroup
	case 1:
		return r.Warehouse == warehouse && r.ItemGroup == Wildcard
	case 2:
		return r.Warehouse == Wildcard && r.ItemGroup == itemGroup
	default:
		return r.Warehouse == Wildcard && r.ItemGroup == Wildcard
	}
}

// sortRules orders rules by ascending priority, with a named item group ahead
// of a wildcard at equal priority. Declaration order never matters after this.
func sortRules(rules []Rule) []Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].ItemGroup != Wildcard && sorted[j].ItemGroup == Wildcard
	})
	return sorted
}
