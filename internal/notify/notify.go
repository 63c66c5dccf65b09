// Package notify delivers user-facing cart notifications. Delivery is
// fire-and-forget: a failed or rejected cart operation produces exactly one
// notification and never an error to the caller.
package notify

import "context"

// Severity classifies a notification for downstream renderers.
type Severity string

const (
	// SeverityWarn flags a rejected request the user can correct, such as
	// asking for more units than the catalog has in stock.
	SeverityWarn Severity = "warn"
	// SeverityError flags an operation that failed outright.
	SeverityError Severity = "error"
)

// Canonical notification messages. The stock message matches the wording
// surfaced on HTTP 409 responses so clients see one string for the condition.
const (
	MsgStockExceeded = "requested quantity exceeds available stock"
	MsgAddFailed     = "failed to add product"
	MsgRemoveFailed  = "failed to remove product"
	MsgUpdateFailed  = "failed to update product quantity"
)

// Notification is a single user-facing event emitted by a cart operation.
type Notification struct {
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	ProductID int64    `json:"product_id,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

// Notifier delivers notifications. Implementations must not block cart
// operations on delivery problems; errors stay inside the notifier.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
