package models

import (
	"encoding/json"
	"fmt"
)

// Category groups articles and gists under a slug with an ordered tag list.
type Category struct {
	ID   string
	Name string
	Slug string
	Tags []string
}

// NewCategory constructs a category with a locally generated id.
func NewCategory(name, slug string, tags []string) Category {
	return Category{ID: NewLocalID(), Name: name, Slug: slug, Tags: tags}
}

type categoryWire struct {
	ID   string   `json:"category_id"`
	Name *string  `json:"name,omitempty"`
	Slug string   `json:"slug"`
	Tags []string `json:"tags,omitempty"`
}

// Decode policy — required: category_id, slug. Defaulted: name -> "",
// tags -> empty list.
func (c *Category) UnmarshalJSON(data []byte) error {
	var w categoryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("category_id: %w", ErrMissingField)
	}
	if w.Slug == "" {
		return fmt.Errorf("slug: %w", ErrMissingField)
	}
	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}
	*c = Category{ID: w.ID, Name: orZero(w.Name), Slug: w.Slug, Tags: tags}
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	w := categoryWire{ID: c.ID, Slug: c.Slug, Tags: c.Tags}
	if c.Name != "" {
		w.Name = &c.Name
	}
	return json.Marshal(w)
}
