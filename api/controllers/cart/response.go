package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/rockshoes/cart-service/internal/cart"
	"github.com/rockshoes/cart-service/pkg/types"
)

// LineItem is the wire shape of one cart line.
type LineItem struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Amount   int64           `json:"amount"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the response payload for every cart endpoint: the current
// cart plus, for mutations, how the operation ended.
type CartView struct {
	SessionID string          `json:"session_id"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Outcome   *types.Outcome  `json:"outcome,omitempty"`
}

func newCartView(sessionID string, items []cartsvc.Item, outcome *types.Outcome) CartView {
	lines := make([]LineItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		subtotal := item.Subtotal()
		total = total.Add(subtotal)
		lines = append(lines, LineItem{
			ID:       item.ProductID,
			Title:    item.Title,
			Price:    item.Price,
			Image:    item.Image,
			Amount:   item.Amount,
			Subtotal: subtotal,
		})
	}
	return CartView{
		SessionID: sessionID,
		Items:     lines,
		Total:     total,
		Outcome:   outcome,
	}
}
