package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrBoxNotFound is returned when a box lookup by name or ID finds nothing.
var ErrBoxNotFound = errors.New("box not found")

// ErrShelfNotFound is returned when a shelf lookup by name or ID finds nothing.
var ErrShelfNotFound = errors.New("shelf not found")

// BoxType classifies how a box is filled with content.
type BoxType string

// Box types supported by bablib.
//
// Design decision: We keep the original three-type taxonomy rather than
// collapsing rag and bag into one "file" type because the fill options
// differ (rag imports are chunked for retrieval, bag stores files as-is)
// and the distinction is user-visible in every listing.
const (
	// BoxTypeDrag is a box filled by crawling a documentation site.
	BoxTypeDrag BoxType = "drag"

	// BoxTypeRag is a box filled by importing documents for retrieval.
	BoxTypeRag BoxType = "rag"

	// BoxTypeBag is a box filled by storing files without processing.
	BoxTypeBag BoxType = "bag"
)

// ParseBoxType converts a string into a BoxType.
// It returns an error for unknown values so CLI input fails early.
func ParseBoxType(s string) (BoxType, error) {
	switch BoxType(s) {
	case BoxTypeDrag, BoxTypeRag, BoxTypeBag:
		return BoxType(s), nil
	default:
		return "", fmt.Errorf("unknown box type %q (want drag, rag, or bag)", s)
	}
}

// Valid reports whether the box type is one of the known values.
func (t BoxType) Valid() bool {
	switch t {
	case BoxTypeDrag, BoxTypeRag, BoxTypeBag:
		return true
	}
	return false
}

// Box is a typed content container living on a shelf.
type Box struct {
	// ID is the unique identifier (UUID) of the box.
	ID string `json:"id"`

	// ShelfID is the ID of the shelf this box belongs to.
	ShelfID string `json:"shelf_id"`

	// Name is the user-chosen box name, unique per shelf.
	Name string `json:"name"`

	// Type decides the fill mechanism for this box.
	Type BoxType `json:"type"`

	// URL is the configured seed URL for drag boxes.
	// Empty for rag and bag boxes.
	URL string `json:"url,omitempty"`

	// MaxPages is the default page budget for crawls of this box.
	// Zero means unbounded.
	MaxPages int `json:"max_pages,omitempty"`

	// RateLimit is the default per-domain request rate for crawls of
	// this box, in requests per second. Zero means the global default.
	RateLimit float64 `json:"rate_limit,omitempty"`

	// CrawlDepth is the default maximum link depth for crawls of this
	// box. Zero means the global default.
	CrawlDepth int `json:"crawl_depth,omitempty"`

	// CreatedAt is when the box was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the box was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}
