package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/rockshoes/cart-service/pkg/logger"
)

type fakeResult struct {
	err error
}

func (r *fakeResult) Get(context.Context) (string, error) {
	return "msg-1", r.err
}

type fakePublisher struct {
	published []*gcppubsub.Message
	result    publishResult
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.published = append(p.published, msg)
	return p.result
}

func TestPubSubNotifierPublishesJSONEvent(t *testing.T) {
	pub := &fakePublisher{result: &fakeResult{}}
	notifier := &PubSubNotifier{pub: pub, timeout: time.Second}

	notifier.Notify(context.Background(), Notification{
		Severity:  SeverityWarn,
		Message:   MsgStockExceeded,
		ProductID: 3,
		SessionID: "sess-1",
	})

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 message, got %d", len(pub.published))
	}
	msg := pub.published[0]

	var decoded Notification
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded.Message != MsgStockExceeded || decoded.ProductID != 3 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
	if msg.Attributes["severity"] != "warn" {
		t.Fatalf("unexpected severity attribute %q", msg.Attributes["severity"])
	}
	if msg.Attributes["product_id"] != "3" {
		t.Fatalf("unexpected product attribute %q", msg.Attributes["product_id"])
	}
}

func TestPubSubNotifierSwallowsPublishFailure(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	pub := &fakePublisher{result: &fakeResult{err: errors.New("deadline exceeded")}}
	notifier := &PubSubNotifier{pub: pub, logg: logg, timeout: time.Second}

	notifier.Notify(context.Background(), Notification{
		Severity: SeverityError,
		Message:  MsgAddFailed,
	})

	if !strings.Contains(buf.String(), "publish cart notification") {
		t.Fatalf("expected publish failure to be logged, got %s", buf.String())
	}
}

func TestLogNotifierWritesSeverityFields(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	notifier := NewLogNotifier(logg)
	notifier.Notify(context.Background(), Notification{
		Severity:  SeverityWarn,
		Message:   MsgStockExceeded,
		ProductID: 2,
		SessionID: "sess-9",
	})

	out := buf.String()
	for _, want := range []string{MsgStockExceeded, `"product_id":2`, `"session_id":"sess-9"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q: %s", want, out)
		}
	}
}

func TestLogNotifierNilReceiverIsSafe(t *testing.T) {
	var notifier *LogNotifier
	notifier.Notify(context.Background(), Notification{Message: MsgRemoveFailed})
}
