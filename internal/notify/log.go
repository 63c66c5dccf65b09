package notify

import (
	"context"
	"errors"

	"github.com/rockshoes/cart-service/pkg/logger"
)

// LogNotifier writes notifications to the service log. It is the default
// sink when no Pub/Sub topic is configured.
type LogNotifier struct {
	logg *logger.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier binds the notifier to the provided logger.
func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Notify(ctx context.Context, notification Notification) {
	if n == nil || n.logg == nil {
		return
	}

	ctx = n.logg.WithFields(ctx, map[string]any{
		"severity":   string(notification.Severity),
		"product_id": notification.ProductID,
		"session_id": notification.SessionID,
	})

	switch notification.Severity {
	case SeverityWarn:
		n.logg.Warn(ctx, notification.Message)
	default:
		n.logg.Error(ctx, "cart notification", errors.New(notification.Message))
	}
}
