package cart

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rockshoes/cart-service/internal/inventory"
	"github.com/rockshoes/cart-service/internal/notify"
	"github.com/rockshoes/cart-service/pkg/metrics"
)

type fakeInventory struct {
	productFn func(ctx context.Context, productID int64) (*inventory.Product, error)
	stockFn   func(ctx context.Context, productID int64) (*inventory.StockInfo, error)
}

func (f *fakeInventory) Product(ctx context.Context, productID int64) (*inventory.Product, error) {
	if f.productFn == nil {
		return nil, errors.New("product not stubbed")
	}
	return f.productFn(ctx, productID)
}

func (f *fakeInventory) Stock(ctx context.Context, productID int64) (*inventory.StockInfo, error) {
	if f.stockFn == nil {
		return nil, errors.New("stock not stubbed")
	}
	return f.stockFn(ctx, productID)
}

type fakeStore struct {
	snapshots map[string][]byte
	loadErr   error
	saveErr   error
	saveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{snapshots: map[string][]byte{}}
}

func (f *fakeStore) Load(_ context.Context, sessionID string) ([]byte, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	payload, ok := f.snapshots[sessionID]
	return payload, ok, nil
}

func (f *fakeStore) Save(_ context.Context, sessionID string, payload []byte) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshots[sessionID] = payload
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

type fakeNotifier struct {
	sent []notify.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) {
	f.sent = append(f.sent, n)
}

func catalogInventory(stockByID map[int64]int64) *fakeInventory {
	return &fakeInventory{
		productFn: func(_ context.Context, productID int64) (*inventory.Product, error) {
			return &inventory.Product{
				ID:    productID,
				Title: "Tenis",
				Price: decimal.NewFromFloat(179.9),
				Image: "https://cdn.test/tenis.jpg",
			}, nil
		},
		stockFn: func(_ context.Context, productID int64) (*inventory.StockInfo, error) {
			amount, ok := stockByID[productID]
			if !ok {
				return nil, errors.New("unknown product")
			}
			return &inventory.StockInfo{ID: productID, Amount: amount}, nil
		},
	}
}

func newTestEngine(inv inventory.Client, store *fakeStore, notifier *fakeNotifier) *Engine {
	return NewEngine("sess-1", inv, store, notifier, metrics.NewCartMetrics(nil), nil)
}

func seedSnapshot(t *testing.T, store *fakeStore, items []Item) {
	t.Helper()
	payload, err := encodeSnapshot(items)
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	store.snapshots["sess-1"] = payload
}

func storedItems(t *testing.T, store *fakeStore) []Item {
	t.Helper()
	return decodeSnapshot(store.snapshots["sess-1"])
}

func TestAddCreatesLineWithAmountOne(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 5}), store, notifier)

	items, outcome := engine.Add(context.Background(), 1)

	if !outcome.Committed {
		t.Fatalf("expected commit, got %+v", outcome)
	}
	if len(items) != 1 || items[0].ProductID != 1 || items[0].Amount != 1 {
		t.Fatalf("unexpected cart %+v", items)
	}
	if items[0].Title != "Tenis" || items[0].Price.String() != "179.9" {
		t.Fatalf("product snapshot not captured: %+v", items[0])
	}
	if got := storedItems(t, store); !reflect.DeepEqual(got, items) {
		t.Fatalf("snapshot does not mirror cart: %+v vs %+v", got, items)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("success must be silent, got %+v", notifier.sent)
	}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Title: "Tenis", Amount: 2}})
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 5}), store, &fakeNotifier{})

	items, outcome := engine.Add(context.Background(), 1)

	if !outcome.Committed {
		t.Fatalf("expected commit, got %+v", outcome)
	}
	if len(items) != 1 || items[0].Amount != 3 {
		t.Fatalf("unexpected cart %+v", items)
	}
}

func TestAddRejectsWhenStockExhausted(t *testing.T) {
	store := newFakeStore()
	before := []Item{{ProductID: 1, Title: "Tenis", Amount: 3}}
	seedSnapshot(t, store, before)
	snapshotBefore := string(store.snapshots["sess-1"])

	notifier := &fakeNotifier{}
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 3}), store, notifier)

	items, outcome := engine.Add(context.Background(), 1)

	if outcome.Committed {
		t.Fatalf("expected rejection")
	}
	if outcome.Message != notify.MsgStockExceeded {
		t.Fatalf("unexpected outcome message %q", outcome.Message)
	}
	if !reflect.DeepEqual(items, before) {
		t.Fatalf("cart changed on rejection: %+v", items)
	}
	if string(store.snapshots["sess-1"]) != snapshotBefore {
		t.Fatalf("snapshot changed on rejection")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Message != notify.MsgStockExceeded {
		t.Fatalf("unexpected notifications %+v", notifier.sent)
	}
	if notifier.sent[0].ProductID != 1 {
		t.Fatalf("notification missing product ID: %+v", notifier.sent[0])
	}
}

func TestAddRejectsNewLineWithoutStock(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 0}), store, notifier)

	items, outcome := engine.Add(context.Background(), 1)

	if outcome.Committed || len(items) != 0 {
		t.Fatalf("expected empty cart after rejection, got %+v %+v", items, outcome)
	}
	if store.saveCalls != 0 {
		t.Fatalf("rejection must not touch the store")
	}
}

func TestAddConvertsLookupFailureToNotification(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := newTestEngine(catalogInventory(map[int64]int64{}), store, notifier)

	items, outcome := engine.Add(context.Background(), 999)

	if outcome.Committed || len(items) != 0 {
		t.Fatalf("expected unchanged cart, got %+v %+v", items, outcome)
	}
	if outcome.Message != notify.MsgAddFailed {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Severity != notify.SeverityError {
		t.Fatalf("unexpected notifications %+v", notifier.sent)
	}
}

func TestAddConvertsProductFetchFailureToNotification(t *testing.T) {
	inv := catalogInventory(map[int64]int64{1: 5})
	inv.productFn = func(context.Context, int64) (*inventory.Product, error) {
		return nil, errors.New("catalog down")
	}

	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := newTestEngine(inv, store, notifier)

	_, outcome := engine.Add(context.Background(), 1)

	if outcome.Committed || outcome.Message != notify.MsgAddFailed {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if store.saveCalls != 0 {
		t.Fatalf("failure must not touch the store")
	}
}

func TestAddRejectsIncrementWhenProductLookupFails(t *testing.T) {
	inv := catalogInventory(map[int64]int64{1: 10})
	inv.productFn = func(context.Context, int64) (*inventory.Product, error) {
		return nil, errors.New("catalog down")
	}

	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Title: "Tenis", Amount: 2}})
	notifier := &fakeNotifier{}
	engine := newTestEngine(inv, store, notifier)

	items, outcome := engine.Add(context.Background(), 1)

	if outcome.Committed || outcome.Message != notify.MsgAddFailed {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if items[0].Amount != 2 {
		t.Fatalf("cart changed despite failed product lookup: %+v", items)
	}
	if store.saveCalls != 0 {
		t.Fatalf("failure must not touch the store")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Severity != notify.SeverityError {
		t.Fatalf("unexpected notifications %+v", notifier.sent)
	}
}

func TestRemoveDropsLine(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Title: "Tenis", Amount: 2}})
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 5}), store, &fakeNotifier{})

	items, outcome := engine.Remove(context.Background(), 1)

	if !outcome.Committed || len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v %+v", items, outcome)
	}
	if got := storedItems(t, store); len(got) != 0 {
		t.Fatalf("snapshot still holds items: %+v", got)
	}
}

func TestRemoveAbsentProductRejects(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Amount: 2}})
	notifier := &fakeNotifier{}
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 5}), store, notifier)

	items, outcome := engine.Remove(context.Background(), 42)

	if outcome.Committed {
		t.Fatalf("expected rejection")
	}
	if outcome.Message != notify.MsgRemoveFailed {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if len(items) != 1 || items[0].ProductID != 1 {
		t.Fatalf("cart changed on rejection: %+v", items)
	}
	if store.saveCalls != 0 {
		t.Fatalf("rejection must not touch the store")
	}
}

func TestSetAmountUpdatesLine(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Title: "Tenis", Amount: 2}})
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 10}), store, &fakeNotifier{})

	items, outcome := engine.SetAmount(context.Background(), 1, 5)

	if !outcome.Committed || items[0].Amount != 5 {
		t.Fatalf("unexpected result %+v %+v", items, outcome)
	}
	if got := storedItems(t, store); got[0].Amount != 5 {
		t.Fatalf("snapshot not mirrored: %+v", got)
	}
}

func TestSetAmountRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Amount: 2}})
	notifier := &fakeNotifier{}

	stockCalls := 0
	inv := catalogInventory(map[int64]int64{1: 10})
	baseStock := inv.stockFn
	inv.stockFn = func(ctx context.Context, productID int64) (*inventory.StockInfo, error) {
		stockCalls++
		return baseStock(ctx, productID)
	}
	engine := newTestEngine(inv, store, notifier)

	items, outcome := engine.SetAmount(context.Background(), 1, 0)

	if outcome.Committed || items[0].Amount != 2 {
		t.Fatalf("expected unchanged cart, got %+v %+v", items, outcome)
	}
	if outcome.Message != notify.MsgStockExceeded {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if stockCalls != 0 {
		t.Fatalf("non-positive amount must reject before any lookup")
	}
}

func TestSetAmountRejectsAbsentLine(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 10}), store, notifier)

	items, outcome := engine.SetAmount(context.Background(), 1, 1)

	if outcome.Committed || len(items) != 0 {
		t.Fatalf("expected unchanged empty cart, got %+v %+v", items, outcome)
	}
	if outcome.Message != notify.MsgStockExceeded {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
}

func TestSetAmountRejectsOverStock(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Amount: 2}})
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 3}), store, &fakeNotifier{})

	items, outcome := engine.SetAmount(context.Background(), 1, 4)

	if outcome.Committed || items[0].Amount != 2 {
		t.Fatalf("expected unchanged cart, got %+v %+v", items, outcome)
	}
}

func TestSetAmountConvertsLookupFailureToNotification(t *testing.T) {
	inv := catalogInventory(map[int64]int64{})
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Amount: 2}})
	notifier := &fakeNotifier{}
	engine := newTestEngine(inv, store, notifier)

	_, outcome := engine.SetAmount(context.Background(), 1, 3)

	if outcome.Committed || outcome.Message != notify.MsgUpdateFailed {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestPersistFailureLeavesMemoryUnchanged(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Title: "Tenis", Amount: 2}})
	store.saveErr = errors.New("store down")

	notifier := &fakeNotifier{}
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 10}), store, notifier)

	items, outcome := engine.Add(context.Background(), 1)

	if outcome.Committed {
		t.Fatalf("expected failure")
	}
	if outcome.Message != notify.MsgAddFailed {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if items[0].Amount != 2 {
		t.Fatalf("memory changed despite failed persist: %+v", items)
	}

	// next call still sees the pre-failure cart
	after := engine.Items(context.Background())
	if after[0].Amount != 2 {
		t.Fatalf("cart drifted after failed persist: %+v", after)
	}
}

func TestHydratesFromStoredSnapshot(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{
		{ProductID: 1, Title: "Tenis", Amount: 2},
		{ProductID: 7, Title: "Sapato", Amount: 1},
	})
	engine := newTestEngine(catalogInventory(map[int64]int64{}), store, &fakeNotifier{})

	items := engine.Items(context.Background())

	if len(items) != 2 || items[0].ProductID != 1 || items[1].ProductID != 7 {
		t.Fatalf("unexpected hydrated cart %+v", items)
	}
}

func TestMalformedSnapshotHydratesEmpty(t *testing.T) {
	store := newFakeStore()
	store.snapshots["sess-1"] = []byte(`{not json`)
	engine := newTestEngine(catalogInventory(map[int64]int64{}), store, &fakeNotifier{})

	if items := engine.Items(context.Background()); len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestItemsReturnsACopy(t *testing.T) {
	store := newFakeStore()
	seedSnapshot(t, store, []Item{{ProductID: 1, Amount: 2}})
	engine := newTestEngine(catalogInventory(map[int64]int64{}), store, &fakeNotifier{})

	items := engine.Items(context.Background())
	items[0].Amount = 99

	if again := engine.Items(context.Background()); again[0].Amount != 2 {
		t.Fatalf("caller mutation leaked into engine state: %+v", again)
	}
}

func TestDistinctProductsKeepInsertionOrder(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(catalogInventory(map[int64]int64{1: 5, 2: 5}), store, &fakeNotifier{})
	ctx := context.Background()

	engine.Add(ctx, 1)
	engine.Add(ctx, 2)
	items, _ := engine.Add(ctx, 1)

	if len(items) != 2 {
		t.Fatalf("expected two distinct lines, got %+v", items)
	}
	if items[0].ProductID != 1 || items[1].ProductID != 2 {
		t.Fatalf("insertion order not preserved: %+v", items)
	}
	if items[0].Amount != 2 || items[1].Amount != 1 {
		t.Fatalf("unexpected amounts: %+v", items)
	}
}
