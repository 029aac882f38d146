package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gistly-app/gistly/internal/logging"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeStore records appends and lets tests inject failures.
type fakeStore struct {
	mu        sync.Mutex
	entries   []Entry
	files     map[string][]byte
	appendErr error
	writeErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string][]byte{}}
}

func (f *fakeStore) Append(ctx context.Context, e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeStore) DrainAll(ctx context.Context) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.entries
	f.entries = nil
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}

func (f *fakeStore) WriteFile(name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.files[name] = data
	return "/shared/attachments/" + name, nil
}

func (f *fakeStore) ReadFile(path string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) snapshot() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

func TestProducer_SubmitURLDeduplicatesWithinSession(t *testing.T) {
	store := newFakeStore()
	p := NewProducer(store, testLogger())
	ctx := context.Background()

	require.NoError(t, p.SubmitURL(ctx, "https://example.com/a"))
	require.NoError(t, p.SubmitURL(ctx, "https://example.com/a"))
	// Mobile variant of the same page counts as a duplicate.
	require.NoError(t, p.SubmitURL(ctx, "https://m.example.com/a"))

	entries := store.snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, KindURL, entries[0].Kind)
	require.Equal(t, "https://example.com/a", entries[0].Content)
}

func TestProducer_SubmitURLDistinctURLsBothEnqueued(t *testing.T) {
	store := newFakeStore()
	p := NewProducer(store, testLogger())
	ctx := context.Background()

	require.NoError(t, p.SubmitURL(ctx, "https://example.com/a"))
	require.NoError(t, p.SubmitURL(ctx, "https://example.com/b"))

	require.Len(t, store.snapshot(), 2)
}

func TestProducer_SubmitURLInvalid(t *testing.T) {
	store := newFakeStore()
	p := NewProducer(store, testLogger())

	require.Error(t, p.SubmitURL(context.Background(), "not a url"))
	require.Empty(t, store.snapshot())
}

func TestProducer_SubmitPDF(t *testing.T) {
	store := newFakeStore()
	p := NewProducer(store, testLogger())

	payload := []byte("%PDF-1.7 fake")
	require.NoError(t, p.SubmitPDF(context.Background(), "paper.pdf", payload))

	require.Equal(t, payload, store.files["paper.pdf"])
	entries := store.snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, KindPDF, entries[0].Kind)
	require.Equal(t, "paper.pdf", entries[0].Filename)
	require.Equal(t, int64(len(payload)), entries[0].Size)
}

func TestProducer_SubmitText(t *testing.T) {
	store := newFakeStore()
	p := NewProducer(store, testLogger())

	require.NoError(t, p.SubmitText(context.Background(), "call the bank"))

	entries := store.snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, KindText, entries[0].Kind)
	require.Equal(t, "call the bank", entries[0].Content)
}

func TestProducer_ProcessContinuesPastBadAttachment(t *testing.T) {
	store := newFakeStore()
	p := NewProducer(store, testLogger())

	completed := false
	p.Process(context.Background(), []Attachment{
		{Kind: AttachmentURL, URL: "::: bad :::"},
		{Kind: AttachmentText, Text: "still processed"},
		{Kind: AttachmentURL, URL: "https://example.com/ok"},
	}, func() { completed = true })

	require.True(t, completed, "completion must be signalled even when attachments fail")
	entries := store.snapshot()
	require.Len(t, entries, 2)
	require.Equal(t, "still processed", entries[0].Content)
	require.Equal(t, "https://example.com/ok", entries[1].Content)
}

func TestProducer_ProcessStoreFailureNonFatal(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errors.New("disk full")
	p := NewProducer(store, testLogger())

	p.Process(context.Background(), []Attachment{
		{Kind: AttachmentPDF, Name: "big.pdf", Data: []byte("x")},
		{Kind: AttachmentText, Text: "survives"},
	}, nil)

	entries := store.snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, "survives", entries[0].Content)
}

func TestProducer_EndToEndWithSQLiteStore(t *testing.T) {
	s := openTestStore(t)
	p := NewProducer(s, testLogger())
	ctx := context.Background()

	p.Process(ctx, []Attachment{
		{Kind: AttachmentURL, URL: "https://m.example.com/story"},
		{Kind: AttachmentURL, URL: "https://example.com/story"},
		{Kind: AttachmentPDF, Name: "story.pdf", Data: []byte("%PDF")},
	}, nil)

	drained, err := s.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, drained, 2, "mobile and desktop variants collapse to one url entry")
	require.Equal(t, KindURL, drained[0].Kind)
	require.Equal(t, "https://example.com/story", drained[0].Content)
	require.Equal(t, KindPDF, drained[1].Kind)
}
