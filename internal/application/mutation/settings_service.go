package mutation

import (
	"context"
	"encoding/json"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/idempotency"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/config"
)

// UpdateSettingsRequest replaces the operator-editable settings document.
type UpdateSettingsRequest struct {
	ClientRequestID       string `json:"client_request_id" binding:"max=140"`
	DefaultCustomer       string `json:"default_customer" binding:"max=140"`
	AllowCreditSales      bool   `json:"allow_credit_sales"`
	OpenInvoiceWindowDays int    `json:"open_invoice_window_days" binding:"min=1,max=365"`
	PaidInvoiceWindowDays int    `json:"paid_invoice_window_days" binding:"min=1,max=365"`
	AlertLimit            int    `json:"alert_limit" binding:"min=1,max=500"`
}

// SettingsMutationResponse is the replayable summary of a settings update.
type SettingsMutationResponse struct {
	Settings config.Settings `json:"settings"`
	Version  uint64          `json:"version"`
}

// SettingsService updates the settings document through the idempotent
// executor, so a retried save never bumps the version twice.
type SettingsService struct {
	executor *Executor
	provider *config.SettingsProvider
	perms    document.PermissionChecker
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(executor *Executor, provider *config.SettingsProvider, perms document.PermissionChecker) *SettingsService {
	return &SettingsService{
		executor: executor,
		provider: provider,
		perms:    perms,
	}
}

// Update persists the new settings and returns the snapshot with its version.
func (s *SettingsService) Update(ctx context.Context, actor string, req UpdateSettingsRequest) (json.RawMessage, error) {
	if !s.perms.HasPermission(ctx, actor, document.KindPOSSettings, document.ActionWrite) {
		return nil, shared.PermissionDenied("Not permitted to change settings")
	}

	payload, err := payloadOf(req)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, Request{
		ClientKey: req.ClientRequestID,
		Endpoint:  "settings.update",
		Actor:     actor,
		Payload:   payload,
	}, func(ctx context.Context) (any, idempotency.Reference, error) {
		next := config.Settings{
			DefaultCustomer:       req.DefaultCustomer,
			AllowCreditSales:      req.AllowCreditSales,
			OpenInvoiceWindowDays: req.OpenInvoiceWindowDays,
			PaidInvoiceWindowDays: req.PaidInvoiceWindowDays,
			AlertLimit:            req.AlertLimit,
		}
		version, err := s.provider.Update(ctx, next)
		if err != nil {
			return nil, idempotency.Reference{}, err
		}
		resp := SettingsMutationResponse{Settings: next, Version: version}
		return resp, idempotency.Reference{DocType: string(document.KindPOSSettings), DocID: "POS Settings"}, nil
	})
}
