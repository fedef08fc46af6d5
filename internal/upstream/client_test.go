package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minhvule/teacart/pkg/config"
	pkgerrors "github.com/minhvule/teacart/pkg/errors"
	"github.com/shopspring/decimal"
)

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(config.UpstreamConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		FetchRetries:   2,
		FetchBackoff:   time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestFetchCartNotFoundIsEmpty(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	items, err := client.FetchCart(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestFetchCartRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"_id":             "line-1",
				"productId":       map[string]any{"_id": "p1", "name": "Tra Sua", "images": []string{"a.jpg"}},
				"quantity":        2,
				"sizeOption":      "M",
				"sizeOptionPrice": 30000,
				"sugarLevel":      "70%",
				"iceOption":       "Chung",
				"toppings": []map[string]any{
					{"toppingId": map[string]any{"_id": "t1", "name": "Tran Chau", "extraPrice": 5000}},
				},
			}},
		})
	}))

	items, err := client.FetchCart(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	item := items[0]
	if item.ID != "line-1" || item.Product.ID != "p1" || item.Product.Name != "Tra Sua" {
		t.Fatalf("unexpected item decode: %+v", item)
	}
	if len(item.Toppings) != 1 || item.Toppings[0].Topping.ID != "t1" {
		t.Fatalf("unexpected toppings: %+v", item.Toppings)
	}
	if !item.Toppings[0].Topping.ExtraPrice.Equal(decimalFromInt(5000)) {
		t.Fatalf("unexpected topping price: %s", item.Toppings[0].Topping.ExtraPrice)
	}
}

func TestFetchCartDecodesBareReferences(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"_id":             "line-2",
				"productId":       "p2",
				"quantity":        1,
				"sizeOption":      "L",
				"sizeOptionPrice": 45000,
				"sugarLevel":      "100%",
				"iceOption":       "Chung",
				"toppings":        []map[string]any{{"toppingId": "t9"}},
			}},
		})
	}))

	items, err := client.FetchCart(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Product.ID != "p2" || items[0].Product.Name != "" {
		t.Fatalf("bare product ref should decode to id only: %+v", items[0].Product)
	}
	if items[0].Toppings[0].Topping.ID != "t9" {
		t.Fatalf("bare topping ref should decode to id only: %+v", items[0].Toppings[0])
	}
}

func TestPingFailsOnServerError(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	status.Store(http.StatusOK)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("healthy upstream must ping clean, got %v", err)
	}

	status.Store(http.StatusInternalServerError)
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error when upstream answers 500")
	}
}

func TestMutationsAreNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.AddItem(context.Background(), AddItemInput{StoreID: "store-1", ProductID: "p1", Quantity: 1})
	if err == nil {
		t.Fatal("expected error for failed mutation")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("mutations must not be retried, got %d calls", calls.Load())
	}
}

func TestMutationPayloadShapes(t *testing.T) {
	t.Parallel()

	var captured struct {
		method string
		path   string
		auth   string
		body   map[string]any
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&captured.body)
		w.WriteHeader(http.StatusOK)
	}))

	ctx := WithAuthToken(context.Background(), "tok-1")
	err := client.UpdateItem(ctx, "store-1", "line-1", ItemConfig{
		Quantity:   3,
		SizeOption: "L",
		SugarLevel: "70%",
		IceOption:  "It",
		Toppings:   []string{"t1", "t2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.method != http.MethodPut || captured.path != "/cart/update" {
		t.Fatalf("unexpected request %s %s", captured.method, captured.path)
	}
	if captured.auth != "Bearer tok-1" {
		t.Fatalf("expected forwarded bearer token, got %q", captured.auth)
	}
	newConfig, ok := captured.body["newConfig"].(map[string]any)
	if !ok {
		t.Fatalf("missing newConfig in payload: %v", captured.body)
	}
	toppings, ok := newConfig["toppings"].([]any)
	if !ok || len(toppings) != 2 || toppings[0] != "t1" {
		t.Fatalf("update toppings must be bare ids: %v", newConfig["toppings"])
	}
}

func TestRemoveAndClearUseDeleteWithBody(t *testing.T) {
	t.Parallel()

	type seen struct {
		method string
		path   string
		body   map[string]any
	}
	var requests []seen
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		requests = append(requests, seen{method: r.Method, path: r.URL.Path, body: body})
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.RemoveItem(context.Background(), "store-1", "line-9"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := client.ClearCart(context.Background(), "store-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if requests[0].method != http.MethodDelete || requests[0].path != "/cart/item" {
		t.Fatalf("unexpected remove request: %+v", requests[0])
	}
	if requests[0].body["itemId"] != "line-9" {
		t.Fatalf("remove must target the backend id: %v", requests[0].body)
	}
	if requests[1].path != "/cart/clear" || requests[1].body["storeId"] != "store-1" {
		t.Fatalf("unexpected clear request: %+v", requests[1])
	}
}
