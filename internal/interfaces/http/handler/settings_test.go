package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/possync/backend/internal/application/mutation"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/infrastructure/config"
)

type stubSettings struct {
	resp json.RawMessage
	err  error
	req  mutation.UpdateSettingsRequest
}

func (s *stubSettings) Update(ctx context.Context, actor string, req mutation.UpdateSettingsRequest) (json.RawMessage, error) {
	s.req = req
	return s.resp, s.err
}

type stubSource struct {
	settings config.Settings
	version  uint64
}

func (s *stubSource) Get() (config.Settings, uint64) { return s.settings, s.version }

type grantAll struct{}

func (grantAll) HasPermission(ctx context.Context, actor string, kind document.Kind, action document.Action) bool {
	return true
}

type denyAll struct{}

func (denyAll) HasPermission(ctx context.Context, actor string, kind document.Kind, action document.Action) bool {
	return false
}

func newSettingsRouter(settings *stubSettings, source *stubSource, perms document.PermissionChecker) *gin.Engine {
	return newTestRouter(func(rg *gin.RouterGroup) {
		NewSettingsHandler(settings, source, perms, testLogger()).RegisterRoutes(rg)
	})
}

func TestSettingsGetReturnsSnapshotAndVersion(t *testing.T) {
	source := &stubSource{settings: config.Settings{DefaultCustomer: "Walk-in", AlertLimit: 50}, version: 3}
	r := newSettingsRouter(&stubSettings{}, source, grantAll{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":3`)
	assert.Contains(t, w.Body.String(), `"default_customer":"Walk-in"`)
}

func TestSettingsGetDeniedWithoutReadPermission(t *testing.T) {
	r := newSettingsRouter(&stubSettings{}, &stubSource{}, denyAll{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSettingsUpdateBindsAndForwards(t *testing.T) {
	settings := &stubSettings{resp: json.RawMessage(`{"version":4}`)}
	r := newSettingsRouter(settings, &stubSource{}, grantAll{})

	body := `{"client_request_id":"set-1","default_customer":"Walk-in","open_invoice_window_days":45,"paid_invoice_window_days":7,"alert_limit":25}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45, settings.req.OpenInvoiceWindowDays)
	assert.Equal(t, "set-1", settings.req.ClientRequestID)
}

func TestSettingsUpdateRejectsOutOfRangeWindow(t *testing.T) {
	r := newSettingsRouter(&stubSettings{}, &stubSource{}, grantAll{})

	body := `{"client_request_id":"set-2","open_invoice_window_days":0,"paid_invoice_window_days":7,"alert_limit":25}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
