package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/rockshoes/cart-service/pkg/logger"
)

const defaultPublishTimeout = 10 * time.Second

// publishResult abstracts the Pub/Sub publish acknowledgement for testing.
type publishResult interface {
	Get(ctx context.Context) (string, error)
}

// publisher abstracts the Pub/Sub topic publisher for testing.
type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}

// PubSubNotifier publishes notifications as JSON events on a Pub/Sub topic.
// Publish failures are logged and dropped; the cart operation already
// completed by the time delivery is attempted.
type PubSubNotifier struct {
	pub     publisher
	logg    *logger.Logger
	timeout time.Duration
}

var _ Notifier = (*PubSubNotifier)(nil)

// NewPubSubNotifier binds the notifier to the provided topic publisher.
func NewPubSubNotifier(pub *gcppubsub.Publisher, logg *logger.Logger) *PubSubNotifier {
	return &PubSubNotifier{
		pub:     &gcpPublisher{Publisher: pub},
		logg:    logg,
		timeout: defaultPublishTimeout,
	}
}

func (n *PubSubNotifier) Notify(ctx context.Context, notification Notification) {
	if n == nil || n.pub == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		n.logError(ctx, "marshal cart notification", err)
		return
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"severity":   string(notification.Severity),
			"product_id": strconv.FormatInt(notification.ProductID, 10),
		},
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	result := n.pub.Publish(publishCtx, msg)
	if result == nil {
		return
	}
	if _, err := result.Get(publishCtx); err != nil {
		n.logError(ctx, "publish cart notification", err)
	}
}

func (n *PubSubNotifier) logError(ctx context.Context, msg string, err error) {
	if n.logg == nil {
		return
	}
	n.logg.Error(ctx, msg, err)
}
