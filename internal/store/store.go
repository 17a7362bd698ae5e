// Package store persists processed itineraries so they can be listed and
// shown again later.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

var (
	// ErrNotFound is returned when no itinerary has the requested id.
	ErrNotFound = errors.New("itinerary not found")

	// ErrMissingUser is returned when an itinerary is saved without an owner.
	ErrMissingUser = errors.New("user id is required")
)

// Record is a saved itinerary.
type Record struct {
	ID        string                   `json:"id"`
	UserID    string                   `json:"user_id"`
	Title     string                   `json:"title"`
	CreatedAt time.Time                `json:"created_at"`
	Itinerary *itinerary.ItineraryData `json:"itinerary"`
}

// Store defines the itinerary storage interface.
type Store interface {
	// Create saves an itinerary for a user and returns its new id.
	Create(ctx context.Context, userID string, it *itinerary.ItineraryData) (string, error)

	// Get returns the itinerary with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns a user's itineraries, newest first.
	List(ctx context.Context, userID string) ([]Record, error)

	// Delete removes an itinerary, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close closes the store.
	Close() error
}

// Open returns the store selected by kind ("memory" or "sqlite").
func Open(kind, dbPath string) (Store, error) {
	if kind == "memory" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(dbPath)
}
