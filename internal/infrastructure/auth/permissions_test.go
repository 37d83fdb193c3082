package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/possync/backend/internal/domain/document"
)

func authedCtx(email string, roles ...string) context.Context {
	return WithClaims(context.Background(), &Claims{Email: email, Roles: roles})
}

func TestRolePermissionChecker_DefaultPolicy(t *testing.T) {
	checker := NewRolePermissionChecker(nil)

	t.Run("cashier can create invoices but not cancel", func(t *testing.T) {
		ctx := authedCtx("cashier@shop.example", RoleCashier)
		assert.True(t, checker.HasPermission(ctx, "cashier@shop.example", document.KindSalesInvoice, document.ActionCreate))
		assert.False(t, checker.HasPermission(ctx, "cashier@shop.example", document.KindSalesInvoice, document.ActionCancel))
	})

	t.Run("cashier cannot write customers", func(t *testing.T) {
		ctx := authedCtx("cashier@shop.example", RoleCashier)
		assert.False(t, checker.HasPermission(ctx, "cashier@shop.example", document.KindCustomer, document.ActionWrite))
	})

	t.Run("manager can cancel and maintain customers", func(t *testing.T) {
		ctx := authedCtx("manager@shop.example", RoleManager)
		assert.True(t, checker.HasPermission(ctx, "manager@shop.example", document.KindSalesInvoice, document.ActionCancel))
		assert.True(t, checker.HasPermission(ctx, "manager@shop.example", document.KindCustomer, document.ActionWrite))
	})

	t.Run("administrator bypasses the policy", func(t *testing.T) {
		ctx := authedCtx("root@shop.example", RoleAdministrator)
		assert.True(t, checker.HasPermission(ctx, "root@shop.example", document.KindItem, document.ActionCancel))
	})
}

func TestRolePermissionChecker_DeniesUnauthenticated(t *testing.T) {
	checker := NewRolePermissionChecker(nil)
	assert.False(t, checker.HasPermission(context.Background(), "cashier@shop.example", document.KindSalesInvoice, document.ActionCreate))
}

func TestRolePermissionChecker_ActorMustMatchClaims(t *testing.T) {
	checker := NewRolePermissionChecker(nil)
	ctx := authedCtx("cashier@shop.example", RoleCashier)
	assert.False(t, checker.HasPermission(ctx, "someone-else@shop.example", document.KindSalesInvoice, document.ActionCreate))
}

func TestRolePermissionChecker_UnknownRoleDenied(t *testing.T) {
	checker := NewRolePermissionChecker(nil)
	ctx := authedCtx("intern@shop.example", "Intern")
	assert.False(t, checker.HasPermission(ctx, "intern@shop.example", document.KindSalesInvoice, document.ActionRead))
}

func TestRolesFromContext(t *testing.T) {
	assert.Nil(t, RolesFromContext(context.Background()))

	ctx := authedCtx("cashier@shop.example", RoleCashier, RoleManager)
	assert.Equal(t, []string{RoleCashier, RoleManager}, RolesFromContext(ctx))
}
