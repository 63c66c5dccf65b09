package cartstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeSnapshotRedis struct {
	values  map[string]string
	pingErr error
	setErr  error
}

func newFakeSnapshotRedis() *fakeSnapshotRedis {
	return &fakeSnapshotRedis{values: map[string]string{}}
}

func (f *fakeSnapshotRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	default:
		return errors.New("unsupported value type")
	}
	return nil
}

func (f *fakeSnapshotRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeSnapshotRedis) Ping(_ context.Context) error {
	return f.pingErr
}

func (f *fakeSnapshotRedis) SnapshotKey(sessionID string) string {
	return "rockshoes:cart_snapshot:" + sessionID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, err := NewRedisStore(newFakeSnapshotRedis())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, found, err := store.Load(ctx, "sess-1"); err != nil || found {
		t.Fatalf("expected empty load, got found=%v err=%v", found, err)
	}

	payload := []byte(`[{"id":1,"amount":2}]`)
	if err := store.Save(ctx, "sess-1", payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatalf("expected snapshot to exist")
	}
	if string(got) != string(payload) {
		t.Fatalf("unexpected payload %s", got)
	}

	if _, found, _ := store.Load(ctx, "sess-2"); found {
		t.Fatalf("sessions must not share snapshots")
	}
}

func TestRedisStoreSurfacesSaveError(t *testing.T) {
	fake := newFakeSnapshotRedis()
	fake.setErr = errors.New("connection reset")

	store, err := NewRedisStore(fake)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Save(context.Background(), "sess-1", []byte("x")); err == nil {
		t.Fatalf("expected save error")
	}
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisStore(nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
