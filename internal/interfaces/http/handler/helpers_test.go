package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/interfaces/http/dto"
	"github.com/possync/backend/internal/interfaces/http/middleware"
)

const testActor = "cashier@shop"

// newTestRouter builds a router with the request ID middleware and a stub
// authentication layer that injects a fixed actor.
func newTestRouter(register func(rg *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.ActorKey, testActor)
		c.Next()
	})
	api := r.Group("/api/v1")
	register(api)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func testLogger() *zap.Logger { return zap.NewNop() }

// recordedEntry captures one Record call for assertions.
type recordedEntry struct {
	Actor  string
	Action string
	Ref    document.Ref
	Detail string
}

type captureRecorder struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (r *captureRecorder) Record(ctx context.Context, actor, action string, ref document.Ref, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, recordedEntry{Actor: actor, Action: action, Ref: ref, Detail: detail})
}
