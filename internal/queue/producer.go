package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gistly-app/gistly/internal/logging"
)

// AttachmentKind classifies raw captured content handed to the producer.
type AttachmentKind int

const (
	AttachmentURL AttachmentKind = iota
	AttachmentPDF
	AttachmentText
)

// Attachment is one raw unit of a share invocation: a URL string, a PDF
// (name + bytes) or free text.
type Attachment struct {
	Kind AttachmentKind
	URL  string
	Name string
	Data []byte
	Text string
}

// Producer runs in the share-extension process. It normalizes captured
// content into queue entries, deduplicates URLs within its own lifetime and
// appends to the shared store.
//
// Cross-session duplicates are intentionally not deduplicated: the seen-set
// dies with the process, and whether re-shares across sessions should
// collapse is a product decision the queue does not make.
type Producer struct {
	store Store
	log   logging.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewProducer(store Store, log logging.Logger) *Producer {
	return &Producer{
		store: store,
		log:   log.With("component", "queue.producer"),
		seen:  make(map[string]struct{}),
	}
}

// SubmitURL normalizes and enqueues a shared link. A URL already submitted
// during this process's lifetime is silently dropped (idempotent re-share
// guard).
func (p *Producer) SubmitURL(ctx context.Context, raw string) error {
	normalized, err := normalizeURL(raw)
	if err != nil {
		return fmt.Errorf("normalize %q: %w", raw, err)
	}

	p.mu.Lock()
	if _, dup := p.seen[normalized]; dup {
		p.mu.Unlock()
		p.log.Debug(ctx, "duplicate url dropped", "url", normalized)
		return nil
	}
	p.seen[normalized] = struct{}{}
	p.mu.Unlock()

	return p.store.Append(ctx, Entry{
		Kind:      KindURL,
		Content:   normalized,
		CreatedAt: time.Now().UTC(),
	})
}

// SubmitPDF copies the document into the shared directory under its original
// filename and enqueues a pdf entry recording the filename and byte size.
func (p *Producer) SubmitPDF(ctx context.Context, name string, data []byte) error {
	if _, err := p.store.WriteFile(name, data); err != nil {
		return fmt.Errorf("store pdf %q: %w", name, err)
	}
	return p.store.Append(ctx, Entry{
		Kind:      KindPDF,
		Filename:  name,
		Size:      int64(len(data)),
		CreatedAt: time.Now().UTC(),
	})
}

// SubmitText enqueues free text verbatim.
func (p *Producer) SubmitText(ctx context.Context, text string) error {
	return p.store.Append(ctx, Entry{
		Kind:      KindText,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	})
}

// Process handles one share invocation. Attachments are processed in order;
// a failing attachment is logged and skipped so it never blocks the rest.
// When all attachments are done, complete is invoked (if non-nil) so the
// share surface can be dismissed.
func (p *Producer) Process(ctx context.Context, attachments []Attachment, complete func()) {
	for _, a := range attachments {
		var err error
		switch a.Kind {
		case AttachmentURL:
			err = p.SubmitURL(ctx, a.URL)
		case AttachmentPDF:
			err = p.SubmitPDF(ctx, a.Name, a.Data)
		case AttachmentText:
			err = p.SubmitText(ctx, a.Text)
		default:
			err = fmt.Errorf("unknown attachment kind %d", a.Kind)
		}
		if err != nil {
			p.log.Warn(ctx, "attachment dropped", "error", err)
		}
	}
	if complete != nil {
		complete()
	}
}
