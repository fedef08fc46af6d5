package cart

import (
	"testing"

	"github.com/minhvule/teacart/internal/upstream"
	"github.com/shopspring/decimal"
)

func TestFromBackendComputesUnitPrice(t *testing.T) {
	t.Parallel()

	items := FromBackend([]upstream.CartItem{{
		ID:              "backend-1",
		Product:         upstream.ProductRef{ID: "p1", Name: "Trà sữa", Images: []string{"a.jpg"}},
		Quantity:        2,
		SizeOption:      "L",
		SizeOptionPrice: decimal.NewFromInt(35000),
		SugarLevel:      "70",
		IceOption:       "Ít",
		Toppings: []upstream.ToppingEntry{
			{Topping: upstream.ToppingDetail{ID: "t1", Name: "Pearl", ExtraPrice: decimal.NewFromInt(5000)}},
			{Topping: upstream.ToppingDetail{ID: "t2", Name: "Pudding", ExtraPrice: decimal.NewFromInt(7000)}},
		},
	}})

	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	item := items[0]
	if !item.UnitPrice.Equal(decimal.NewFromInt(47000)) {
		t.Errorf("expected unit price 47000, got %s", item.UnitPrice)
	}
	if item.BackendID != "backend-1" {
		t.Errorf("backend id not carried: %q", item.BackendID)
	}
	if item.SugarLevel != "70%" {
		t.Errorf("sugar not normalized: %q", item.SugarLevel)
	}
	if !item.LineTotal().Equal(decimal.NewFromInt(94000)) {
		t.Errorf("expected line total 94000, got %s", item.LineTotal())
	}
}

func TestFromBackendDegradesMissingNestedData(t *testing.T) {
	t.Parallel()

	items := FromBackend([]upstream.CartItem{{
		ID:       "backend-2",
		Product:  upstream.ProductRef{ID: "p9"},
		Quantity: 0,
		Toppings: []upstream.ToppingEntry{
			{Topping: upstream.ToppingDetail{ID: "t1"}},
		},
	}})

	item := items[0]
	if item.Name != "Unavailable product" {
		t.Errorf("expected placeholder name, got %q", item.Name)
	}
	if item.Quantity != 1 {
		t.Errorf("expected quantity floor of 1, got %d", item.Quantity)
	}
	if !item.UnitPrice.Equal(decimal.Zero) {
		t.Errorf("expected zero price for unpriced data, got %s", item.UnitPrice)
	}
}

func TestFromBackendEmpty(t *testing.T) {
	t.Parallel()

	if got := FromBackend(nil); got != nil {
		t.Errorf("expected nil for nil input, got %v", got)
	}
}
