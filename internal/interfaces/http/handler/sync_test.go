package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncapp "github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/domain/shared"
)

type stubPlanner struct {
	bootstrapReq syncapp.BootstrapRequest
	deltaReq     syncapp.DeltaRequest
	err          error
	profiles     []syncapp.ProfileRow
}

func (s *stubPlanner) Bootstrap(ctx context.Context, actor string, req syncapp.BootstrapRequest) (*syncapp.BootstrapResponse, error) {
	s.bootstrapReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &syncapp.BootstrapResponse{Watermark: time.Now().UTC()}, nil
}

func (s *stubPlanner) Delta(ctx context.Context, actor string, req syncapp.DeltaRequest) (*syncapp.DeltaResponse, error) {
	s.deltaReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &syncapp.DeltaResponse{Watermark: time.Now().UTC()}, nil
}

func (s *stubPlanner) MyProfiles(ctx context.Context, actor string) ([]syncapp.ProfileRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profiles, nil
}

func newSyncRouter(planner *stubPlanner) *gin.Engine {
	return newTestRouter(func(rg *gin.RouterGroup) {
		NewSyncHandler(planner, testLogger()).RegisterRoutes(rg)
	})
}

func TestSyncBootstrapBindsQuery(t *testing.T) {
	planner := &stubPlanner{}
	r := newSyncRouter(planner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/bootstrap?pos_profile=Main%20Counter&offset=10&limit=50", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Main Counter", planner.bootstrapReq.POSProfile)
	assert.Equal(t, 10, planner.bootstrapReq.Offset)
	assert.Equal(t, 50, planner.bootstrapReq.Limit)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)
	assert.False(t, resp.ServerTime.IsZero())
}

func TestSyncBootstrapMissingProfileIsValidationError(t *testing.T) {
	r := newSyncRouter(&stubPlanner{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/bootstrap", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "pos_profile", resp.Error.Details[0].Field)
}

func TestSyncDeltaMapsDomainError(t *testing.T) {
	planner := &stubPlanner{err: shared.ValidationFailed("Unknown entity type warehouse")}
	r := newSyncRouter(planner)

	body := `{"pos_profile":"Main Counter","modified_since":"2026-08-01T00:00:00Z","entity_types":["warehouse"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/delta", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeValidation, resp.Error.Code)
	assert.Equal(t, "Unknown entity type warehouse", resp.Error.Message)
}

func TestMyProfilesReturnsEmptyArrayNotNull(t *testing.T) {
	r := newSyncRouter(&stubPlanner{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pos/profiles", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"profiles":[]`)
}
