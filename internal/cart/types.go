package cart

import (
	"sort"
	"strings"
	"time"

	"github.com/minhvule/teacart/pkg/enums"
	"github.com/shopspring/decimal"
)

// ToppingRef is the canonical topping representation inside the cart core.
// Upstream payloads are normalized into this shape at ingress; no other
// topping encoding circulates past that boundary.
type ToppingRef struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ExtraPrice decimal.Decimal `json:"extra_price"`
}

// LineItem is one configured drink in the cart. BackendID stays empty until
// the line has round-tripped through the upstream cart at least once; every
// remote update and removal targets that id.
type LineItem struct {
	ProductID    string          `json:"product_id"`
	BackendID    string          `json:"backend_id,omitempty"`
	Name         string          `json:"name"`
	Images       []string        `json:"images,omitempty"`
	SizeOption   string          `json:"size_option"`
	SugarLevel   string          `json:"sugar_level"`
	IceOption    string          `json:"ice_option"`
	SpecialNotes string          `json:"special_notes,omitempty"`
	Toppings     []ToppingRef    `json:"toppings,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// LineTotal returns unit price times quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StoreSnapshot is the cached item list for one commerce store.
type StoreSnapshot struct {
	Items       []LineItem `json:"items"`
	LastUpdated time.Time  `json:"last_updated"`
}

// SnapshotInfo is the read-only projection exposed per store.
type SnapshotInfo struct {
	StoreID     string          `json:"store_id"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	LastUpdated time.Time       `json:"last_updated"`
}

// PersistedState is the durable warm-start payload, written under a single
// namespaced key per session. Loading and transient error state are never
// persisted.
type PersistedState struct {
	Items         []LineItem               `json:"items"`
	SelectedKeys  []string                 `json:"selected_keys"`
	ActiveStoreID string                   `json:"active_store_id"`
	Snapshots     map[string]StoreSnapshot `json:"snapshots"`
}

// NormalizeSugarLevel guarantees the percentage form the upstream API expects.
func NormalizeSugarLevel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return enums.DefaultSugarLevel
	}
	if strings.HasSuffix(trimmed, "%") {
		return trimmed
	}
	return trimmed + "%"
}

// normalizeToppings returns a defensive copy sorted by topping id.
func normalizeToppings(toppings []ToppingRef) []ToppingRef {
	if len(toppings) == 0 {
		return nil
	}
	out := make([]ToppingRef, len(toppings))
	copy(out, toppings)
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

func cloneItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].Images = append([]string(nil), out[i].Images...)
		out[i].Toppings = append([]ToppingRef(nil), out[i].Toppings...)
	}
	return out
}
