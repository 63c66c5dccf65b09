package cart

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/rockshoes/cart-service/pkg/errors"
)

// SetAmountRequest is the PUT body for a quantity change. The amount is
// forwarded as-is: the engine rejects non-positive values itself, with a
// notification, so the body validator must not intercept them.
type SetAmountRequest struct {
	Amount int64 `json:"amount"`
}

func productIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || productID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product ID must be a positive integer")
	}
	return productID, nil
}
