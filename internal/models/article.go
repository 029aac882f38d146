package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// GistLinkage records whether a companion gist has been created for an
// article, and if so which backend gist it is.
type GistLinkage struct {
	Created  bool
	GistID   string
	ImageURL string
}

// Article is a stored link. Immutable value record.
type Article struct {
	ID        string
	Title     string
	URL       string
	Category  string
	Duration  int
	CreatedAt time.Time
	Linkage   GistLinkage
}

// NewArticle constructs an article with a locally generated id and the
// current capture time.
func NewArticle(title, url, category string) Article {
	return Article{
		ID:        NewLocalID(),
		Title:     title,
		URL:       url,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}

type articleWire struct {
	ID          string  `json:"article_id"`
	Title       *string `json:"title,omitempty"`
	URL         string  `json:"url"`
	Category    *string `json:"category,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	CreatedAt   *string `json:"created_at,omitempty"`
	GistCreated *bool   `json:"gist_created,omitempty"`
	GistID      *string `json:"gist_id,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// Decode policy — required: article_id, url. Defaulted: title -> "Untitled",
// category -> "", duration -> 0, created_at -> zero time, linkage fields ->
// absent linkage.
func (a *Article) UnmarshalJSON(data []byte) error {
	var w articleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("article_id: %w", ErrMissingField)
	}
	if w.URL == "" {
		return fmt.Errorf("url: %w", ErrMissingField)
	}
	*a = Article{
		ID:        w.ID,
		Title:     orDefault(w.Title, DefaultTitle),
		URL:       w.URL,
		Category:  orZero(w.Category),
		Duration:  orZero(w.Duration),
		CreatedAt: parseWireTime(w.CreatedAt),
		Linkage: GistLinkage{
			Created:  orZero(w.GistCreated),
			GistID:   orZero(w.GistID),
			ImageURL: orZero(w.ImageURL),
		},
	}
	return nil
}

func (a Article) MarshalJSON() ([]byte, error) {
	w := articleWire{ID: a.ID, URL: a.URL}
	if a.Title != "" {
		w.Title = &a.Title
	}
	if a.Category != "" {
		w.Category = &a.Category
	}
	if a.Duration != 0 {
		w.Duration = &a.Duration
	}
	if s := formatWireTime(a.CreatedAt); s != "" {
		w.CreatedAt = &s
	}
	if a.Linkage.Created {
		w.GistCreated = &a.Linkage.Created
	}
	if a.Linkage.GistID != "" {
		w.GistID = &a.Linkage.GistID
	}
	if a.Linkage.ImageURL != "" {
		w.ImageURL = &a.Linkage.ImageURL
	}
	return json.Marshal(w)
}
