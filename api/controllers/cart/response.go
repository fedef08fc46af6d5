package cart

import (
	"time"

	cartsvc "github.com/minhvule/teacart/internal/cart"
	"github.com/shopspring/decimal"
)

type toppingView struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ExtraPrice decimal.Decimal `json:"extraPrice"`
}

type itemView struct {
	Key          string          `json:"key"`
	BackendID    string          `json:"backendId,omitempty"`
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Images       []string        `json:"images,omitempty"`
	SizeOption   string          `json:"sizeOption"`
	SugarLevel   string          `json:"sugarLevel"`
	IceOption    string          `json:"iceOption"`
	SpecialNotes string          `json:"specialNotes,omitempty"`
	Toppings     []toppingView   `json:"toppings,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

type cartView struct {
	StoreID       string          `json:"storeId"`
	Items         []itemView      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	CartTotal     decimal.Decimal `json:"cartTotal"`
	SelectedKeys  []string        `json:"selectedKeys"`
	SelectedTotal decimal.Decimal `json:"selectedTotal"`
	Loading       bool            `json:"loading"`
}

type snapshotView struct {
	StoreID     string          `json:"storeId"`
	ItemCount   int             `json:"itemCount"`
	Total       decimal.Decimal `json:"total"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

func newItemView(item cartsvc.LineItem) itemView {
	toppings := make([]toppingView, 0, len(item.Toppings))
	for _, topping := range item.Toppings {
		toppings = append(toppings, toppingView{
			ID:         topping.ID,
			Name:       topping.Name,
			ExtraPrice: topping.ExtraPrice,
		})
	}
	return itemView{
		Key:          item.ConfigKey(),
		BackendID:    item.BackendID,
		ProductID:    item.ProductID,
		Name:         item.Name,
		Images:       item.Images,
		SizeOption:   item.SizeOption,
		SugarLevel:   item.SugarLevel,
		IceOption:    item.IceOption,
		SpecialNotes: item.SpecialNotes,
		Toppings:     toppings,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		LineTotal:    item.LineTotal(),
	}
}

func newCartView(store *cartsvc.Store) cartView {
	items := store.Items()
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, newItemView(item))
	}
	selected := store.SelectedKeys()
	if selected == nil {
		selected = []string{}
	}
	return cartView{
		StoreID:       store.ActiveStoreID(),
		Items:         views,
		TotalQuantity: store.TotalQuantity(),
		CartTotal:     store.CartTotal(),
		SelectedKeys:  selected,
		SelectedTotal: store.SelectedTotal(),
		Loading:       store.IsLoading(),
	}
}

func newSnapshotViews(infos []cartsvc.SnapshotInfo) []snapshotView {
	views := make([]snapshotView, 0, len(infos))
	for _, info := range infos {
		views = append(views, snapshotView{
			StoreID:     info.StoreID,
			ItemCount:   info.ItemCount,
			Total:       info.Total,
			LastUpdated: info.LastUpdated,
		})
	}
	return views
}
