package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ticketlens/backend/internal/ai"
	"github.com/ticketlens/backend/internal/config"
	"github.com/ticketlens/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okService struct{}

func (okService) Answer(ctx context.Context, query string) (models.QueryResponse, error) {
	return models.QueryResponse{Text: "ok", Timestamp: "2024-05-01T00:00:00Z"}, nil
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func TestRouterPreflight(t *testing.T) {
	r := Router(config.Config{CORSAllowed: "*"}, okService{}, okPinger{}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}

func TestRouterQuery(t *testing.T) {
	r := Router(config.Config{}, okService{}, okPinger{}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"hola"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterListModelsRequiresAdminKey(t *testing.T) {
	lister := &ai.MockGenerator{Models: []string{"m1"}}
	r := Router(config.Config{AdminKey: "k"}, okService{}, okPinger{}, lister, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/list-models", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/list-models", nil)
	req.Header.Set("X-Admin-Key", "k")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
