package models

import (
	"encoding/json"
	"fmt"
)

// User is an account holder. Immutable value record; an update produces a
// new value.
type User struct {
	ID                string
	DisplayName       string
	Email             string
	Authenticated     bool
	ProfilePictureURL string
}

// NewUser constructs a user with a locally generated id, used before the
// backend has assigned one.
func NewUser(displayName, email string) User {
	return User{ID: NewLocalID(), DisplayName: displayName, Email: email}
}

type userWire struct {
	ID                string  `json:"user_id"`
	DisplayName       *string `json:"display_name,omitempty"`
	Email             *string `json:"email,omitempty"`
	Authenticated     *bool   `json:"is_authenticated,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

// Decode policy — required: user_id. Defaulted: display_name -> DefaultTitle
// is NOT applied here (a user is not a document); display_name and email
// default to empty strings, flags to false, picture URL to empty.
func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("user_id: %w", ErrMissingField)
	}
	*u = User{
		ID:                w.ID,
		DisplayName:       orZero(w.DisplayName),
		Email:             orZero(w.Email),
		Authenticated:     orZero(w.Authenticated),
		ProfilePictureURL: orZero(w.ProfilePictureURL),
	}
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	w := userWire{ID: u.ID}
	if u.DisplayName != "" {
		w.DisplayName = &u.DisplayName
	}
	if u.Email != "" {
		w.Email = &u.Email
	}
	if u.Authenticated {
		w.Authenticated = &u.Authenticated
	}
	if u.ProfilePictureURL != "" {
		w.ProfilePictureURL = &u.ProfilePictureURL
	}
	return json.Marshal(w)
}
