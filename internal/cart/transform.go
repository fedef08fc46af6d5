package cart

import (
	"github.com/minhvule/teacart/internal/upstream"
	"github.com/shopspring/decimal"
)

const missingProductName = "Unavailable product"

// FromBackend maps the upstream wire representation onto local line items,
// computing the derived unit price. Partial nested data (an unpopulated
// product or topping) degrades to zero price and a placeholder name instead
// of failing the whole transformation.
func FromBackend(items []upstream.CartItem) []LineItem {
	if len(items) == 0 {
		return nil
	}

	out := make([]LineItem, 0, len(items))
	for _, raw := range items {
		item := LineItem{
			ProductID:    raw.Product.ID,
			BackendID:    raw.ID,
			Name:         raw.Product.Name,
			Images:       append([]string(nil), raw.Product.Images...),
			SizeOption:   raw.SizeOption,
			SugarLevel:   NormalizeSugarLevel(raw.SugarLevel),
			IceOption:    raw.IceOption,
			SpecialNotes: raw.SpecialNotes,
			Quantity:     raw.Quantity,
		}
		if item.Name == "" {
			item.Name = missingProductName
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}

		unitPrice := raw.SizeOptionPrice
		for _, entry := range raw.Toppings {
			topping := ToppingRef{
				ID:         entry.Topping.ID,
				Name:       entry.Topping.Name,
				ExtraPrice: entry.Topping.ExtraPrice,
			}
			item.Toppings = append(item.Toppings, topping)
			unitPrice = unitPrice.Add(topping.ExtraPrice)
		}
		item.Toppings = normalizeToppings(item.Toppings)
		item.UnitPrice = unitPrice
		if item.UnitPrice.LessThan(decimal.Zero) {
			item.UnitPrice = decimal.Zero
		}

		out = append(out, item)
	}
	return out
}
