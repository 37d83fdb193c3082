package auth

import (
	"context"

	"github.com/possync/backend/internal/domain/document"
)

// Role names recognized by the default policy.
const (
	RoleAdministrator = "Administrator"
	RoleManager       = "POS Manager"
	RoleCashier       = "Cashier"
)

// Policy maps a role to the actions it may perform per document kind.
// RoleAdministrator bypasses the map entirely.
type Policy map[string]map[document.Kind][]document.Action

// DefaultPolicy grants cashiers the day-to-day trade operations and managers
// everything cashiers have plus cancellation and customer maintenance.
func DefaultPolicy() Policy {
	cashier := map[document.Kind][]document.Action{
		document.KindSalesInvoice: {document.ActionRead, document.ActionCreate, document.ActionSubmit},
		document.KindPaymentEntry: {document.ActionRead, document.ActionCreate, document.ActionSubmit},
		document.KindPOSSession:   {document.ActionRead, document.ActionCreate, document.ActionWrite},
		document.KindCustomer:     {document.ActionRead},
		document.KindItem:         {document.ActionRead},
		document.KindPOSSettings:  {document.ActionRead},
	}
	manager := map[document.Kind][]document.Action{
		document.KindSalesInvoice: {document.ActionRead, document.ActionCreate, document.ActionSubmit, document.ActionCancel},
		document.KindPaymentEntry: {document.ActionRead, document.ActionCreate, document.ActionSubmit, document.ActionCancel},
		document.KindPOSSession:   {document.ActionRead, document.ActionCreate, document.ActionWrite},
		document.KindCustomer:     {document.ActionRead, document.ActionCreate, document.ActionWrite},
		document.KindItem:         {document.ActionRead},
		document.KindPOSSettings:  {document.ActionRead, document.ActionWrite},
	}
	return Policy{
		RoleCashier: cashier,
		RoleManager: manager,
	}
}

// RolePermissionChecker decides document permissions from the roles carried in
// the request's validated claims. The actor parameter identifies who is asking;
// the roles come from the context, never from client input.
type RolePermissionChecker struct {
	policy Policy
}

// NewRolePermissionChecker builds a checker over the given policy.
// A nil policy falls back to DefaultPolicy.
func NewRolePermissionChecker(policy Policy) *RolePermissionChecker {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &RolePermissionChecker{policy: policy}
}

// HasPermission implements document.PermissionChecker.
func (c *RolePermissionChecker) HasPermission(ctx context.Context, actor string, kind document.Kind, action document.Action) bool {
	claims := ClaimsFromContext(ctx)
	if claims == nil || claims.Email != actor {
		return false
	}
	for _, role := range claims.Roles {
		if role == RoleAdministrator {
			return true
		}
		for _, granted := range c.policy[role][kind] {
			if granted == action {
				return true
			}
		}
	}
	return false
}
