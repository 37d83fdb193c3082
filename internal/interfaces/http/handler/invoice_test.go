package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/possync/backend/internal/application/mutation"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/shared"
)

type stubInvoices struct {
	createResp json.RawMessage
	cancelResp json.RawMessage
	err        error
}

func (s *stubInvoices) CreateSubmit(ctx context.Context, actor string, req mutation.CreateInvoiceRequest) (json.RawMessage, error) {
	return s.createResp, s.err
}

func (s *stubInvoices) Cancel(ctx context.Context, actor string, req mutation.CancelInvoiceRequest) (json.RawMessage, error) {
	return s.cancelResp, s.err
}

func newInvoiceRouter(invoices *stubInvoices, recorder *captureRecorder) *gin.Engine {
	return newTestRouter(func(rg *gin.RouterGroup) {
		NewInvoiceHandler(invoices, recorder, testLogger()).RegisterRoutes(rg)
	})
}

const createInvoiceBody = `{
	"client_request_id": "req-1",
	"customer": "CUST-1",
	"pos_profile": "Main Counter",
	"items": [{"item_code": "SKU-1", "qty": "2"}]
}`

func TestInvoiceCreateRecordsActivity(t *testing.T) {
	invoices := &stubInvoices{createResp: json.RawMessage(`{"name":"SINV-1","docstatus":1,"grand_total":"20","currency":"USD"}`)}
	recorder := &captureRecorder{}
	r := newInvoiceRouter(invoices, recorder)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(createInvoiceBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, testActor, entry.Actor)
	assert.Equal(t, "create", entry.Action)
	assert.Equal(t, document.Ref{Kind: document.KindSalesInvoice, ID: "SINV-1"}, entry.Ref)
}

func TestInvoiceCreateUnexpectedErrorIsMasked(t *testing.T) {
	invoices := &stubInvoices{err: errors.New("pq: deadlock detected")}
	r := newInvoiceRouter(invoices, &captureRecorder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(createInvoiceBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), "deadlock")
}

func TestInvoiceCreateConflictPassesThrough(t *testing.T) {
	invoices := &stubInvoices{err: shared.NewDomainError(shared.CodeConflict, "Key req-1 was reused with a different payload")}
	r := newInvoiceRouter(invoices, &captureRecorder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(createInvoiceBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeConflict, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "req-1")
}

func TestInvoiceCancelRecordsReason(t *testing.T) {
	invoices := &stubInvoices{cancelResp: json.RawMessage(`{"name":"SINV-2","docstatus":2}`)}
	recorder := &captureRecorder{}
	r := newInvoiceRouter(invoices, recorder)

	body := `{"client_request_id":"req-2","name":"SINV-2","reason":"Customer returned goods"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/cancel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "cancel", recorder.entries[0].Action)
	assert.Equal(t, "Customer returned goods", recorder.entries[0].Detail)
}

func TestInvoiceCreateMissingItemsIsValidationError(t *testing.T) {
	r := newInvoiceRouter(&stubInvoices{}, &captureRecorder{})

	body := `{"client_request_id":"req-3","customer":"CUST-1","pos_profile":"Main Counter","items":[]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeValidation, resp.Error.Code)
}
