package model

import "time"

// Shelf is a named collection of boxes.
type Shelf struct {
	// ID is the unique identifier (UUID) of the shelf.
	ID string `json:"id"`

	// Name is the user-chosen shelf name, unique across the library.
	Name string `json:"name"`

	// CreatedAt is when the shelf was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the shelf was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}
