package cart

import (
	"github.com/minhvule/teacart/api/validators"
	cartsvc "github.com/minhvule/teacart/internal/cart"
	"github.com/shopspring/decimal"
)

const maxNotesLength = 500

type toppingPayload struct {
	ID         string          `json:"id" validate:"required"`
	Name       string          `json:"name"`
	ExtraPrice decimal.Decimal `json:"extraPrice"`
}

type itemMatchPayload struct {
	ProductID  string           `json:"productId" validate:"required"`
	SizeOption string           `json:"sizeOption"`
	SugarLevel string           `json:"sugarLevel"`
	IceOption  string           `json:"iceOption"`
	Toppings   []toppingPayload `json:"toppings" validate:"omitempty,dive"`
}

type addItemRequest struct {
	ProductID    string           `json:"productId" validate:"required"`
	Name         string           `json:"name"`
	Quantity     int              `json:"quantity" validate:"omitempty,min=1,max=99"`
	SizeOption   string           `json:"sizeOption"`
	SugarLevel   string           `json:"sugarLevel"`
	IceOption    string           `json:"iceOption"`
	SpecialNotes string           `json:"specialNotes"`
	Toppings     []toppingPayload `json:"toppings" validate:"omitempty,dive"`
}

type quantityRequest struct {
	Item     itemMatchPayload `json:"item" validate:"required"`
	Quantity int              `json:"quantity" validate:"required,min=1,max=99"`
}

type configRequest struct {
	Item      itemMatchPayload `json:"item" validate:"required"`
	NewConfig newConfigPayload `json:"newConfig" validate:"required"`
}

type newConfigPayload struct {
	Quantity     int              `json:"quantity" validate:"omitempty,min=1,max=99"`
	SizeOption   string           `json:"sizeOption"`
	SugarLevel   string           `json:"sugarLevel"`
	IceOption    string           `json:"iceOption"`
	SpecialNotes string           `json:"specialNotes"`
	Toppings     []toppingPayload `json:"toppings" validate:"omitempty,dive"`
}

type removeItemRequest struct {
	Item itemMatchPayload `json:"item" validate:"required"`
}

type switchStoreRequest struct {
	StoreID string `json:"storeId" validate:"required"`
}

type selectionRequest struct {
	Keys []string `json:"keys"`
}

func toToppingRefs(payload []toppingPayload) []cartsvc.ToppingRef {
	if len(payload) == 0 {
		return nil
	}
	refs := make([]cartsvc.ToppingRef, 0, len(payload))
	for _, topping := range payload {
		refs = append(refs, cartsvc.ToppingRef{
			ID:         topping.ID,
			Name:       topping.Name,
			ExtraPrice: topping.ExtraPrice,
		})
	}
	return refs
}

func toItemMatch(payload itemMatchPayload) cartsvc.ItemMatch {
	return cartsvc.ItemMatch{
		ProductID:  payload.ProductID,
		SizeOption: payload.SizeOption,
		SugarLevel: payload.SugarLevel,
		IceOption:  payload.IceOption,
		Toppings:   toToppingRefs(payload.Toppings),
	}
}

func toAddItemInput(payload addItemRequest) cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		ProductID:    payload.ProductID,
		Name:         validators.SanitizeString(payload.Name, 0),
		Quantity:     payload.Quantity,
		SizeOption:   payload.SizeOption,
		SugarLevel:   payload.SugarLevel,
		IceOption:    payload.IceOption,
		SpecialNotes: validators.SanitizeString(payload.SpecialNotes, maxNotesLength),
		Toppings:     toToppingRefs(payload.Toppings),
	}
}

func toConfigUpdate(payload newConfigPayload) cartsvc.ConfigUpdate {
	return cartsvc.ConfigUpdate{
		Quantity:     payload.Quantity,
		SizeOption:   payload.SizeOption,
		SugarLevel:   payload.SugarLevel,
		IceOption:    payload.IceOption,
		SpecialNotes: validators.SanitizeString(payload.SpecialNotes, maxNotesLength),
		Toppings:     toToppingRefs(payload.Toppings),
	}
}
