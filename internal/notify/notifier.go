// Package notify defines the boundary through which the queue consumer
// announces newly captured content. The platform notification center is an
// external collaborator; this package only carries the signal to it and to
// in-process observers.
package notify

import (
	"context"
	"sync"

	"github.com/gistly-app/gistly/internal/logging"
)

// Notifier receives the "new content available" signal.
type Notifier interface {
	// NewContent announces that count freshly captured items are available.
	NewContent(ctx context.Context, count int)
}

// LogNotifier records the signal as a structured log line. It stands in for
// the platform notification-center collaborator.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "notify")}
}

func (n *LogNotifier) NewContent(ctx context.Context, count int) {
	n.log.Info(ctx, "new content available", "count", count)
}

// Broadcast fans the signal out to subscriber channels. Sends never block:
// a subscriber that is not keeping up misses intermediate signals but always
// observes the latest one after its next receive.
type Broadcast struct {
	mu   sync.Mutex
	subs []chan int
}

func NewBroadcast() *Broadcast {
	return &Broadcast{}
}

// Subscribe returns a channel carrying batch sizes of future signals.
func (b *Broadcast) Subscribe() <-chan int {
	ch := make(chan int, 1)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *Broadcast) NewContent(_ context.Context, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- count:
		default:
			// Replace the stale pending signal with the current one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- count:
			default:
			}
		}
	}
}

// Multi forwards the signal to several notifiers.
type Multi []Notifier

func (m Multi) NewContent(ctx context.Context, count int) {
	for _, n := range m {
		n.NewContent(ctx, count)
	}
}
