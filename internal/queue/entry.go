// Package queue implements the hand-off between the share-extension process
// and the main application: a durable, process-shared store of captured
// content, the extension-side producer that fills it and the main-app
// consumer that drains it.
package queue

import "time"

// EntryKind classifies one unit of captured content.
type EntryKind string

const (
	KindURL  EntryKind = "url"
	KindPDF  EntryKind = "pdf"
	KindText EntryKind = "text"
)

// Entry is one unit of captured content waiting to cross from the extension
// process to the main process. For URLs and text, Content carries the value;
// for PDFs, Filename names the copy in the shared directory and Size is its
// byte count.
type Entry struct {
	Kind      EntryKind
	Content   string
	Filename  string
	Size      int64
	CreatedAt time.Time
}

// PendingItem is an Entry after consumption, enriched with a local id and
// capture timestamp, held in the main process's observable collection.
type PendingItem struct {
	ID         string
	CapturedAt time.Time
	Entry      Entry
}
