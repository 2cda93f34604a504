// Package storage defines the Storage interface — the data-access
// contract for restaurants.
//
// Two implementations satisfy it:
//
//   - rest.Client talks to the REST backend (what the front end uses)
//   - sqlite.SQLite keeps records in a local SQLite file (what the
//     development backend serves from)
//
// Controllers and handlers only ever see this interface.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/restaurant-directory/internal/types"
)

var (
	// ErrNotFound is returned by Update when the identifier does not exist.
	// Reads never return it; they report "not found" through their result.
	ErrNotFound = errors.New("restaurant not found")

	// ErrOperationFailed covers every transport or server failure:
	// network errors, unexpected statuses and malformed responses.
	ErrOperationFailed = errors.New("operation failed")
)

// Storage is the restaurant data-access contract. Every write is a single
// round trip; nothing is buffered or cached.
type Storage interface {
	// ListAll returns the whole collection, flattened. An empty
	// collection is an empty (non-nil) slice, not an error.
	ListAll(ctx context.Context) ([]types.Restaurant, error)

	// GetByID returns the restaurant and true, or false when no
	// restaurant has that id.
	GetByID(ctx context.Context, id int64) (types.Restaurant, bool, error)

	// Create stores a new restaurant and returns it with its
	// server-assigned id.
	Create(ctx context.Context, in types.RestaurantInput) (types.Restaurant, error)

	// Update replaces the editable fields of an existing restaurant.
	// Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, id int64, in types.RestaurantInput) (types.Restaurant, error)

	// Delete removes a restaurant. Deleting an id that is already gone
	// succeeds.
	Delete(ctx context.Context, id int64) error
}
