package upstream

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductRef is the backend's product reference on a cart line. The API
// returns either a bare identifier or the populated product document, so
// both shapes decode into this one canonical form.
type ProductRef struct {
	ID     string
	Name   string
	Images []string
}

func (p *ProductRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*p = ProductRef{ID: id}
		return nil
	}

	var doc struct {
		ID     string   `json:"_id"`
		Name   string   `json:"name"`
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("product reference is neither an id nor a document: %w", err)
	}
	*p = ProductRef{ID: doc.ID, Name: doc.Name, Images: doc.Images}
	return nil
}

func (p ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ID)
}

// ToppingDetail is the canonical topping reference. Accepts a bare id or a
// populated {_id, name, extraPrice} document.
type ToppingDetail struct {
	ID         string
	Name       string
	ExtraPrice decimal.Decimal
}

func (t *ToppingDetail) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*t = ToppingDetail{ID: id}
		return nil
	}

	var doc struct {
		ID         string          `json:"_id"`
		Name       string          `json:"name"`
		ExtraPrice decimal.Decimal `json:"extraPrice"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("topping reference is neither an id nor a document: %w", err)
	}
	*t = ToppingDetail{ID: doc.ID, Name: doc.Name, ExtraPrice: doc.ExtraPrice}
	return nil
}

// ToppingEntry wraps the backend's `{toppingId: ...}` nesting.
type ToppingEntry struct {
	Topping ToppingDetail `json:"toppingId"`
}

// CartItem is the wire shape of one persisted cart line.
type CartItem struct {
	ID              string          `json:"_id"`
	Product         ProductRef      `json:"productId"`
	Quantity        int             `json:"quantity"`
	SizeOption      string          `json:"sizeOption"`
	SizeOptionPrice decimal.Decimal `json:"sizeOptionPrice"`
	SugarLevel      string          `json:"sugarLevel"`
	IceOption       string          `json:"iceOption"`
	SpecialNotes    string          `json:"specialNotes"`
	Toppings        []ToppingEntry  `json:"toppings"`
}

type cartEnvelope struct {
	Items []CartItem `json:"items"`
}

// ToppingIDRef is the bare-id topping reference the add endpoint expects.
type ToppingIDRef struct {
	ToppingID string `json:"toppingId"`
}

// AddItemInput is the payload for POST /cart/add.
type AddItemInput struct {
	StoreID      string         `json:"storeId"`
	ProductID    string         `json:"productId"`
	Quantity     int            `json:"quantity"`
	SizeOption   string         `json:"sizeOption"`
	SugarLevel   string         `json:"sugarLevel"`
	IceOption    string         `json:"iceOption"`
	SpecialNotes string         `json:"specialNotes"`
	Toppings     []ToppingIDRef `json:"toppings"`
}

// ItemConfig is the full replacement configuration for PUT /cart/update.
// Toppings here are bare identifiers, not objects.
type ItemConfig struct {
	Quantity     int      `json:"quantity"`
	SizeOption   string   `json:"sizeOption"`
	SugarLevel   string   `json:"sugarLevel"`
	IceOption    string   `json:"iceOption"`
	SpecialNotes string   `json:"specialNotes"`
	Toppings     []string `json:"toppings"`
}

type quantityPayload struct {
	StoreID  string `json:"storeId"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type updatePayload struct {
	StoreID   string     `json:"storeId"`
	ItemID    string     `json:"itemId"`
	NewConfig ItemConfig `json:"newConfig"`
}

type itemRefPayload struct {
	StoreID string `json:"storeId"`
	ItemID  string `json:"itemId"`
}

type storePayload struct {
	StoreID string `json:"storeId"`
}
