// Package cart holds the per-session cart engine. Every mutation is total:
// the caller always gets the post-operation cart back, and failures surface
// as notifications instead of errors.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/rockshoes/cart-service/internal/inventory"
)

// Item is one cart line: the product snapshot taken at add-time plus the
// current amount. Later catalog changes do not retroactively alter the
// snapshot fields, only Amount moves.
type Item struct {
	ProductID int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Amount    int64           `json:"amount"`
}

// Subtotal is price times amount for the line.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Amount))
}

func newItem(product inventory.Product, amount int64) Item {
	return Item{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
		Amount:    amount,
	}
}

// encodeSnapshot serializes the cart as an ordered JSON array of line items.
func encodeSnapshot(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

// decodeSnapshot parses a stored snapshot. A malformed payload hydrates as
// an empty cart rather than poisoning the session.
func decodeSnapshot(payload []byte) []Item {
	if len(payload) == 0 {
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return []Item{}
	}
	if items == nil {
		return []Item{}
	}
	return items
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func findItem(items []Item, productID int64) (int, bool) {
	for i := range items {
		if items[i].ProductID == productID {
			return i, true
		}
	}
	return 0, false
}
