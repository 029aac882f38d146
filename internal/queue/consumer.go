package queue

import (
	"context"
	"sync"
	"time"

	"github.com/gistly-app/gistly/internal/logging"
	"github.com/gistly-app/gistly/internal/notify"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Consumer runs in the main application process. It drains the shared store
// on startup and on foreground resume, converts entries into pending items
// held in an observable in-memory collection, and raises the new-content
// signal.
type Consumer struct {
	store    Store
	notifier notify.Notifier
	log      logging.Logger

	// group collapses re-entrant drains: a DrainPending issued while another
	// is in flight joins it instead of draining the store a second time.
	group singleflight.Group

	mu    sync.RWMutex
	items []PendingItem
}

func NewConsumer(store Store, notifier notify.Notifier, log logging.Logger) *Consumer {
	return &Consumer{
		store:    store,
		notifier: notifier,
		log:      log.With("component", "queue.consumer"),
	}
}

// DrainPending drains the shared store, converts every entry to a pending
// item with a fresh local id and capture timestamp, appends the batch to the
// in-memory collection and signals new content. An empty store yields an
// empty batch and no signal.
func (c *Consumer) DrainPending(ctx context.Context) ([]PendingItem, error) {
	v, err, _ := c.group.Do("drain", func() (any, error) {
		return c.drain(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]PendingItem), nil
}

func (c *Consumer) drain(ctx context.Context) ([]PendingItem, error) {
	entries, err := c.store.DrainAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	batch := make([]PendingItem, 0, len(entries))
	for _, e := range entries {
		batch = append(batch, PendingItem{
			ID:         uuid.NewString(),
			CapturedAt: now,
			Entry:      e,
		})
	}

	if len(batch) == 0 {
		return batch, nil
	}

	c.mu.Lock()
	c.items = append(c.items, batch...)
	c.mu.Unlock()

	c.log.Info(ctx, "drained share queue", "count", len(batch))
	c.notifier.NewContent(ctx, len(batch))

	return batch, nil
}

// Items returns a snapshot of the pending collection in capture order.
func (c *Consumer) Items() []PendingItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PendingItem, len(c.items))
	copy(out, c.items)
	return out
}

// Remove drops a pending item (by local id) from the collection, typically
// after it has been turned into a stored link.
func (c *Consumer) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
