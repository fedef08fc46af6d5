package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minhvule/teacart/api/middleware"
	cartsvc "github.com/minhvule/teacart/internal/cart"
	"github.com/minhvule/teacart/internal/upstream"
	"github.com/shopspring/decimal"
)

type stubBackend struct {
	items    []upstream.CartItem
	addCalls int
}

func (s *stubBackend) FetchCart(ctx context.Context, storeID string) ([]upstream.CartItem, error) {
	return append([]upstream.CartItem(nil), s.items...), nil
}

func (s *stubBackend) AddItem(ctx context.Context, input upstream.AddItemInput) error {
	s.addCalls++
	s.items = append(s.items, upstream.CartItem{
		ID:              "backend-1",
		Product:         upstream.ProductRef{ID: input.ProductID, Name: "Trà sữa"},
		Quantity:        input.Quantity,
		SizeOption:      input.SizeOption,
		SizeOptionPrice: decimal.NewFromInt(30000),
		SugarLevel:      input.SugarLevel,
		IceOption:       input.IceOption,
		SpecialNotes:    input.SpecialNotes,
	})
	return nil
}

func (s *stubBackend) UpdateQuantity(ctx context.Context, storeID, itemID string, quantity int) error {
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Quantity = quantity
		}
	}
	return nil
}

func (s *stubBackend) UpdateItem(ctx context.Context, storeID, itemID string, cfg upstream.ItemConfig) error {
	return nil
}

func (s *stubBackend) RemoveItem(ctx context.Context, storeID, itemID string) error {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return nil
}

func (s *stubBackend) ClearCart(ctx context.Context, storeID string) error {
	s.items = nil
	return nil
}

type stubResolver struct {
	store   *cartsvc.Store
	revoked []string
}

func (s *stubResolver) StoreFor(ctx context.Context, sessionID string) (*cartsvc.Store, error) {
	return s.store, nil
}

func (s *stubResolver) RevokeSession(ctx context.Context, sessionID string) error {
	s.revoked = append(s.revoked, sessionID)
	return s.store.SetAuthenticated(ctx, false)
}

func newTestResolver(t *testing.T, backend *stubBackend, withStore bool) *stubResolver {
	t.Helper()
	store, err := cartsvc.NewStore("session-1", backend, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()
	if err := store.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("SetAuthenticated: %v", err)
	}
	if withStore {
		if err := store.SwitchStore(ctx, "store-a"); err != nil {
			t.Fatalf("SwitchStore: %v", err)
		}
		store.WaitForSwitch()
	}
	return &stubResolver{store: store}
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithSessionID(req.Context(), "session-1")
	ctx = middleware.WithAccessToken(ctx, "token-1")
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return envelope
}

func TestCartFetchReconcilesAndReturnsView(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{items: []upstream.CartItem{{
		ID:              "backend-1",
		Product:         upstream.ProductRef{ID: "p1", Name: "Trà sữa"},
		Quantity:        2,
		SizeOption:      "M",
		SizeOptionPrice: decimal.NewFromInt(30000),
		SugarLevel:      "100%",
		IceOption:       "Chung",
	}}}
	resolver := newTestResolver(t, backend, true)

	rec := httptest.NewRecorder()
	CartFetch(resolver, nil)(rec, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["totalQuantity"].(float64) != 2 {
		t.Errorf("expected total quantity 2, got %v", data["totalQuantity"])
	}
	items := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].(map[string]any)["backendId"] != "backend-1" {
		t.Errorf("backend id missing from view: %v", items[0])
	}
}

func TestHandlersRequireSession(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, &stubBackend{}, true)

	rec := httptest.NewRecorder()
	CartFetch(resolver, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	code := envelope["error"].(map[string]any)["code"]
	if code != "AUTH_REQUIRED" {
		t.Errorf("expected AUTH_REQUIRED, got %v", code)
	}
}

func TestItemAddValidatesBody(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	resolver := newTestResolver(t, backend, true)

	rec := httptest.NewRecorder()
	ItemAdd(resolver, nil)(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity": 2}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if backend.addCalls != 0 {
		t.Errorf("invalid payload still reached the backend")
	}
}

func TestItemAddWithoutStoreSelection(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	resolver := newTestResolver(t, backend, false)

	rec := httptest.NewRecorder()
	ItemAdd(resolver, nil)(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"productId":"p1"}`))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	code := envelope["error"].(map[string]any)["code"]
	if code != "NO_STORE_SELECTED" {
		t.Errorf("expected NO_STORE_SELECTED, got %v", code)
	}
	if backend.addCalls != 0 {
		t.Errorf("store-less add still reached the backend")
	}
}

func TestItemAddCreatesLine(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	resolver := newTestResolver(t, backend, true)

	body := `{"productId":"p1","quantity":2,"sugarLevel":"70"}`
	rec := httptest.NewRecorder()
	ItemAdd(resolver, nil)(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	items := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	item := items[0].(map[string]any)
	if item["sugarLevel"] != "70%" {
		t.Errorf("sugar level not normalized: %v", item["sugarLevel"])
	}
	if backend.addCalls != 1 {
		t.Errorf("expected one backend add, got %d", backend.addCalls)
	}
}

func TestStoreSwitchReturnsSnapshotView(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	resolver := newTestResolver(t, backend, true)

	rec := httptest.NewRecorder()
	StoreSwitch(resolver, nil)(rec, authedRequest(http.MethodPut, "/api/v1/cart/store", `{"storeId":"store-b"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["storeId"] != "store-b" {
		t.Errorf("active store not switched: %v", data["storeId"])
	}
	resolver.store.WaitForSwitch()
}

func TestSessionRevoke(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, &stubBackend{}, true)

	rec := httptest.NewRecorder()
	SessionRevoke(resolver, nil)(rec, authedRequest(http.MethodPost, "/api/v1/cart/session/revoke", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(resolver.revoked) != 1 || resolver.revoked[0] != "session-1" {
		t.Errorf("session not revoked: %v", resolver.revoked)
	}
	if resolver.store.IsAuthenticated() {
		t.Error("store still authenticated after revoke")
	}
}
