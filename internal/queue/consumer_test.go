package queue

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingNotifier records new-content signals.
type countingNotifier struct {
	mu     sync.Mutex
	counts []int
}

func (n *countingNotifier) NewContent(_ context.Context, count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.counts = append(n.counts, count)
}

func (n *countingNotifier) signals() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]int, len(n.counts))
	copy(out, n.counts)
	return out
}

func TestConsumer_DrainPendingConvertsAndSignals(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	c := NewConsumer(store, notifier, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Entry{Kind: KindURL, Content: "https://example.com/a"}))
	require.NoError(t, store.Append(ctx, Entry{Kind: KindText, Content: "note"}))

	batch, err := c.DrainPending(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	for _, item := range batch {
		require.NotEmpty(t, item.ID)
		require.False(t, item.CapturedAt.IsZero())
	}
	require.NotEqual(t, batch[0].ID, batch[1].ID)
	require.Equal(t, "https://example.com/a", batch[0].Entry.Content)

	require.Equal(t, []int{2}, notifier.signals())
	require.Len(t, c.Items(), 2)
}

func TestConsumer_EmptyDrainNoSignal(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	c := NewConsumer(store, notifier, testLogger())

	batch, err := c.DrainPending(context.Background())
	require.NoError(t, err)
	require.Empty(t, batch)
	require.Empty(t, notifier.signals())
	require.Empty(t, c.Items())
}

// gatedStore blocks DrainAll until released, to observe overlapping drains.
type gatedStore struct {
	*fakeStore
	gate   chan struct{}
	drains atomic.Int64
}

func (g *gatedStore) DrainAll(ctx context.Context) ([]Entry, error) {
	g.drains.Add(1)
	<-g.gate
	return g.fakeStore.DrainAll(ctx)
}

func TestConsumer_ReentrantDrainCollapses(t *testing.T) {
	store := &gatedStore{fakeStore: newFakeStore(), gate: make(chan struct{})}
	notifier := &countingNotifier{}
	c := NewConsumer(store, notifier, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Entry{Kind: KindText, Content: "once"}))

	var wg sync.WaitGroup
	results := make([][]PendingItem, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			batch, err := c.DrainPending(ctx)
			require.NoError(t, err)
			results[i] = batch
		}(i)
	}

	// Let the first call reach the drain and the second join it before
	// releasing the gate.
	for store.drains.Load() == 0 {
		runtime.Gosched()
	}
	time.Sleep(50 * time.Millisecond)
	close(store.gate)
	wg.Wait()

	require.Equal(t, int64(1), store.drains.Load(), "overlapping drains must share one store drain")
	require.Equal(t, results[0], results[1])
	require.Len(t, c.Items(), 1)
	require.Equal(t, []int{1}, notifier.signals())
}

func TestConsumer_SequentialDrainsAccumulate(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	c := NewConsumer(store, notifier, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Entry{Kind: KindText, Content: "first"}))
	_, err := c.DrainPending(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, Entry{Kind: KindText, Content: "second"}))
	_, err = c.DrainPending(ctx)
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 2)
	require.Equal(t, "first", items[0].Entry.Content)
	require.Equal(t, "second", items[1].Entry.Content)
	require.Equal(t, []int{1, 1}, notifier.signals())
}

func TestConsumer_Remove(t *testing.T) {
	store := newFakeStore()
	c := NewConsumer(store, &countingNotifier{}, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Entry{Kind: KindText, Content: "a"}))
	require.NoError(t, store.Append(ctx, Entry{Kind: KindText, Content: "b"}))
	batch, err := c.DrainPending(ctx)
	require.NoError(t, err)

	c.Remove(batch[0].ID)
	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, "b", items[0].Entry.Content)

	// Removing an unknown id is a no-op.
	c.Remove("missing")
	require.Len(t, c.Items(), 1)
}

func TestConsumer_EndToEndWithSQLiteStore(t *testing.T) {
	s := openTestStore(t)
	notifier := &countingNotifier{}
	c := NewConsumer(s, notifier, testLogger())
	p := NewProducer(s, testLogger())
	ctx := context.Background()

	p.Process(ctx, []Attachment{
		{Kind: AttachmentURL, URL: "https://example.com/a"},
		{Kind: AttachmentText, Text: "note"},
	}, nil)

	batch, err := c.DrainPending(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	require.Equal(t, []int{2}, notifier.signals())

	batch, err = c.DrainPending(ctx)
	require.NoError(t, err)
	require.Empty(t, batch)
}
