package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhvule/teacart/internal/cart"
	"github.com/minhvule/teacart/internal/upstream"
	pkgauth "github.com/minhvule/teacart/pkg/auth"
	"github.com/minhvule/teacart/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
)

type noopBackend struct{}

func (noopBackend) FetchCart(ctx context.Context, storeID string) ([]upstream.CartItem, error) {
	return nil, nil
}
func (noopBackend) AddItem(ctx context.Context, input upstream.AddItemInput) error { return nil }
func (noopBackend) UpdateQuantity(ctx context.Context, storeID, itemID string, quantity int) error {
	return nil
}
func (noopBackend) UpdateItem(ctx context.Context, storeID, itemID string, cfg upstream.ItemConfig) error {
	return nil
}
func (noopBackend) RemoveItem(ctx context.Context, storeID, itemID string) error { return nil }
func (noopBackend) ClearCart(ctx context.Context, storeID string) error          { return nil }

func newTestRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()

	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "teacart-test", ExpirationMinutes: 60}
	cfg := &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080"},
		JWT: jwtCfg,
	}

	manager, err := cart.NewManager(noopBackend{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	return NewRouter(cfg, nil, Dependencies{
		Manager:  manager,
		Registry: prometheus.NewRegistry(),
	}), jwtCfg
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s returned %d", path, rec.Code)
		}
	}
}

func TestCartRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestCartRoutesAcceptValidToken(t *testing.T) {
	t.Parallel()

	router, jwtCfg := newTestRouter(t)

	token, err := pkgauth.MintAccessToken(jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		SessionID: "session-1",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}
