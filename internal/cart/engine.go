package cart

import (
	"context"
	"sync"
	"time"

	"github.com/rockshoes/cart-service/internal/cartstore"
	"github.com/rockshoes/cart-service/internal/inventory"
	"github.com/rockshoes/cart-service/internal/notify"
	"github.com/rockshoes/cart-service/pkg/logger"
	"github.com/rockshoes/cart-service/pkg/metrics"
	"github.com/rockshoes/cart-service/pkg/types"
)

const (
	opAdd       = "add"
	opRemove    = "remove"
	opSetAmount = "set_amount"

	reasonStockExceeded = "stock_exceeded"
	reasonNotFound      = "not_found"
	reasonLookupFailed  = "lookup_failed"
	reasonPersistFailed = "persist_failed"
)

// Engine owns one session's cart. A mutex serializes mutations so each
// operation sees a settled cart and commits atomically from the caller's
// perspective: the snapshot is written first and memory swaps only after
// the write succeeds.
type Engine struct {
	mu        sync.Mutex
	sessionID string
	items     []Item
	hydrated  bool

	inventory inventory.Client
	store     cartstore.Store
	notifier  notify.Notifier
	metrics   *metrics.CartMetrics
	logg      *logger.Logger
}

// NewEngine builds an engine for the session. The cart hydrates lazily from
// the store on first use.
func NewEngine(sessionID string, inv inventory.Client, store cartstore.Store, notifier notify.Notifier, m *metrics.CartMetrics, logg *logger.Logger) *Engine {
	return &Engine{
		sessionID: sessionID,
		items:     []Item{},
		inventory: inv,
		store:     store,
		notifier:  notifier,
		metrics:   m,
		logg:      logg,
	}
}

// Items returns a copy of the current cart in insertion order.
func (e *Engine) Items(ctx context.Context) []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureHydrated(ctx)
	return cloneItems(e.items)
}

// Add puts one more unit of the product in the cart: a new line with
// amount 1, or an increment on the existing line. Rejections and lookup
// failures leave both memory and snapshot untouched.
func (e *Engine) Add(ctx context.Context, productID int64) ([]Item, types.Outcome) {
	start := time.Now()
	defer func() { e.metrics.ObserveDuration(opAdd, time.Since(start)) }()

	ctx = e.opContext(ctx, opAdd, productID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureHydrated(ctx)

	product, err := e.inventory.Product(ctx, productID)
	if err != nil {
		return e.fail(ctx, opAdd, reasonLookupFailed, productID, notify.MsgAddFailed, err)
	}
	stock, err := e.inventory.Stock(ctx, productID)
	if err != nil {
		return e.fail(ctx, opAdd, reasonLookupFailed, productID, notify.MsgAddFailed, err)
	}

	idx, exists := findItem(e.items, productID)
	current := int64(0)
	if exists {
		current = e.items[idx].Amount
	}
	target := current + 1

	if target > stock.Amount {
		return e.reject(ctx, opAdd, reasonStockExceeded, productID, notify.MsgStockExceeded)
	}

	next := cloneItems(e.items)
	if exists {
		next[idx].Amount = target
	} else {
		next = append(next, newItem(*product, 1))
	}

	return e.commit(ctx, opAdd, productID, notify.MsgAddFailed, next)
}

// Remove drops the product's line from the cart. Removing an absent product
// rejects and never errors.
func (e *Engine) Remove(ctx context.Context, productID int64) ([]Item, types.Outcome) {
	start := time.Now()
	defer func() { e.metrics.ObserveDuration(opRemove, time.Since(start)) }()

	ctx = e.opContext(ctx, opRemove, productID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureHydrated(ctx)

	idx, exists := findItem(e.items, productID)
	if !exists {
		return e.reject(ctx, opRemove, reasonNotFound, productID, notify.MsgRemoveFailed)
	}

	next := make([]Item, 0, len(e.items)-1)
	next = append(next, e.items[:idx]...)
	next = append(next, e.items[idx+1:]...)

	return e.commit(ctx, opRemove, productID, notify.MsgRemoveFailed, next)
}

// SetAmount moves an existing line to the requested amount. Absence and an
// out-of-bounds amount share one rejection message.
func (e *Engine) SetAmount(ctx context.Context, productID int64, amount int64) ([]Item, types.Outcome) {
	start := time.Now()
	defer func() { e.metrics.ObserveDuration(opSetAmount, time.Since(start)) }()

	ctx = e.opContext(ctx, opSetAmount, productID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureHydrated(ctx)

	if amount <= 0 {
		return e.reject(ctx, opSetAmount, reasonStockExceeded, productID, notify.MsgStockExceeded)
	}

	stock, err := e.inventory.Stock(ctx, productID)
	if err != nil {
		return e.fail(ctx, opSetAmount, reasonLookupFailed, productID, notify.MsgUpdateFailed, err)
	}

	idx, exists := findItem(e.items, productID)
	if !exists || amount > stock.Amount {
		return e.reject(ctx, opSetAmount, reasonStockExceeded, productID, notify.MsgStockExceeded)
	}

	next := cloneItems(e.items)
	next[idx].Amount = amount

	return e.commit(ctx, opSetAmount, productID, notify.MsgUpdateFailed, next)
}

// ensureHydrated loads the stored snapshot once per engine. A load error
// logs and leaves the engine un-hydrated so the next operation retries; a
// malformed payload hydrates empty.
func (e *Engine) ensureHydrated(ctx context.Context) {
	if e.hydrated {
		return
	}
	payload, found, err := e.store.Load(ctx, e.sessionID)
	if err != nil {
		if e.logg != nil {
			e.logg.Error(ctx, "hydrate cart snapshot", err)
		}
		return
	}
	if found {
		e.items = decodeSnapshot(payload)
	}
	e.hydrated = true
}

// commit writes the snapshot first and swaps memory only on success, so a
// failed write leaves the previous cart fully intact.
func (e *Engine) commit(ctx context.Context, op string, productID int64, failureMsg string, next []Item) ([]Item, types.Outcome) {
	payload, err := encodeSnapshot(next)
	if err != nil {
		return e.fail(ctx, op, reasonPersistFailed, productID, failureMsg, err)
	}
	if err := e.store.Save(ctx, e.sessionID, payload); err != nil {
		return e.fail(ctx, op, reasonPersistFailed, productID, failureMsg, err)
	}

	e.items = next
	e.metrics.IncCommit(op)
	return cloneItems(e.items), types.Outcome{Committed: true}
}

func (e *Engine) reject(ctx context.Context, op, reason string, productID int64, message string) ([]Item, types.Outcome) {
	e.metrics.IncReject(op, reason)
	e.emit(ctx, notify.SeverityWarn, message, productID)
	return cloneItems(e.items), types.Outcome{
		Committed: false,
		Severity:  string(notify.SeverityWarn),
		Message:   message,
	}
}

func (e *Engine) fail(ctx context.Context, op, reason string, productID int64, message string, err error) ([]Item, types.Outcome) {
	e.metrics.IncReject(op, reason)
	if e.logg != nil {
		e.logg.Error(ctx, "cart operation failed", err)
	}
	e.emit(ctx, notify.SeverityError, message, productID)
	return cloneItems(e.items), types.Outcome{
		Committed: false,
		Severity:  string(notify.SeverityError),
		Message:   message,
	}
}

func (e *Engine) emit(ctx context.Context, severity notify.Severity, message string, productID int64) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(ctx, notify.Notification{
		Severity:  severity,
		Message:   message,
		ProductID: productID,
		SessionID: e.sessionID,
	})
}

func (e *Engine) opContext(ctx context.Context, op string, productID int64) context.Context {
	if e.logg == nil {
		return ctx
	}
	ctx = e.logg.WithOperation(ctx, op)
	ctx = e.logg.WithSessionID(ctx, e.sessionID)
	return e.logg.WithProductID(ctx, productID)
}
