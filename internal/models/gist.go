package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusReviewing is the production status the backend assigns when a gist
// enters review via the empty-body signal variant.
const StatusReviewing = "Reviewing Content"

// Segment is one audio section of a gist.
type Segment struct {
	Title    string
	AudioURL string
	Duration int
	Index    int
}

// ProductionStatus describes where a gist stands in the production pipeline.
type ProductionStatus struct {
	InProduction bool
	Status       string
}

// Gist is an audio digest of a stored link. ID is the local identifier;
// GistID is the backend-assigned one and is empty until the backend issues
// it. Operations addressing a specific backend gist must use GistID.
type Gist struct {
	ID        string
	GistID    string
	Title     string
	Category  string
	ImageURL  string
	Link      string
	Segments  []Segment
	Status    ProductionStatus
	Played    bool
	Ratings   int
	Publisher string
	CreatedAt time.Time
}

// NewGist constructs a gist with a locally generated id and no backend id.
func NewGist(title, category, link string) Gist {
	return Gist{
		ID:        NewLocalID(),
		Title:     title,
		Category:  category,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}
}

type segmentWire struct {
	Title    *string `json:"segment_title,omitempty"`
	AudioURL *string `json:"segment_audioUrl,omitempty"`
	Duration *int    `json:"segment_duration,omitempty"`
	Index    *int    `json:"segment_index,omitempty"`
}

type productionStatusWire struct {
	InProduction *bool   `json:"inProduction,omitempty"`
	Status       *string `json:"production_status,omitempty"`
}

type gistWire struct {
	ID        string                `json:"id"`
	GistID    *string               `json:"gistId,omitempty"`
	Title     *string               `json:"title,omitempty"`
	Category  *string               `json:"category,omitempty"`
	ImageURL  *string               `json:"image_url,omitempty"`
	Link      *string               `json:"link,omitempty"`
	Segments  []segmentWire         `json:"segments,omitempty"`
	Status    *productionStatusWire `json:"status,omitempty"`
	Played    *bool                 `json:"is_played,omitempty"`
	Ratings   *int                  `json:"ratings,omitempty"`
	Publisher *string               `json:"publisher,omitempty"`
	CreatedAt *string               `json:"created_at,omitempty"`
}

// Decode policy — required: id. Defaulted: title -> "Untitled", gistId ->
// "" (backend id not yet assigned), segments -> empty list, status -> not in
// production, ratings/duration -> 0, everything else -> zero value.
func (g *Gist) UnmarshalJSON(data []byte) error {
	var w gistWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("id: %w", ErrMissingField)
	}

	segments := make([]Segment, 0, len(w.Segments))
	for _, s := range w.Segments {
		segments = append(segments, Segment{
			Title:    orDefault(s.Title, DefaultTitle),
			AudioURL: orZero(s.AudioURL),
			Duration: orZero(s.Duration),
			Index:    orZero(s.Index),
		})
	}

	var status ProductionStatus
	if w.Status != nil {
		status = ProductionStatus{
			InProduction: orZero(w.Status.InProduction),
			Status:       orZero(w.Status.Status),
		}
	}

	*g = Gist{
		ID:        w.ID,
		GistID:    orZero(w.GistID),
		Title:     orDefault(w.Title, DefaultTitle),
		Category:  orZero(w.Category),
		ImageURL:  orZero(w.ImageURL),
		Link:      orZero(w.Link),
		Segments:  segments,
		Status:    status,
		Played:    orZero(w.Played),
		Ratings:   orZero(w.Ratings),
		Publisher: orZero(w.Publisher),
		CreatedAt: parseWireTime(w.CreatedAt),
	}
	return nil
}

func (g Gist) MarshalJSON() ([]byte, error) {
	w := gistWire{ID: g.ID}
	if g.GistID != "" {
		w.GistID = &g.GistID
	}
	if g.Title != "" {
		w.Title = &g.Title
	}
	if g.Category != "" {
		w.Category = &g.Category
	}
	if g.ImageURL != "" {
		w.ImageURL = &g.ImageURL
	}
	if g.Link != "" {
		w.Link = &g.Link
	}
	for i := range g.Segments {
		s := g.Segments[i]
		sw := segmentWire{}
		if s.Title != "" {
			sw.Title = &s.Title
		}
		if s.AudioURL != "" {
			sw.AudioURL = &s.AudioURL
		}
		if s.Duration != 0 {
			sw.Duration = &s.Duration
		}
		if s.Index != 0 {
			sw.Index = &s.Index
		}
		w.Segments = append(w.Segments, sw)
	}
	if g.Status != (ProductionStatus{}) {
		sw := productionStatusWire{}
		if g.Status.InProduction {
			sw.InProduction = &g.Status.InProduction
		}
		if g.Status.Status != "" {
			sw.Status = &g.Status.Status
		}
		w.Status = &sw
	}
	if g.Played {
		w.Played = &g.Played
	}
	if g.Ratings != 0 {
		w.Ratings = &g.Ratings
	}
	if g.Publisher != "" {
		w.Publisher = &g.Publisher
	}
	if s := formatWireTime(g.CreatedAt); s != "" {
		w.CreatedAt = &s
	}
	return json.Marshal(w)
}

// MarshalJSON for ProductionStatus keeps the standalone status payload (the
// body of the full update-status variant) on the same wire keys.
func (p ProductionStatus) MarshalJSON() ([]byte, error) {
	w := productionStatusWire{}
	if p.InProduction {
		w.InProduction = &p.InProduction
	}
	if p.Status != "" {
		w.Status = &p.Status
	}
	return json.Marshal(w)
}

func (p *ProductionStatus) UnmarshalJSON(data []byte) error {
	var w productionStatusWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = ProductionStatus{
		InProduction: orZero(w.InProduction),
		Status:       orZero(w.Status),
	}
	return nil
}
