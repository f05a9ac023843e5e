// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"
)

// FinanceStore defines all data operations on the transaction record
// collection. Implemented by the PostgREST adapter and the in-memory store.
// Implementations must be safe for concurrent use; the single store handle is
// shared by all in-flight requests.
type FinanceStore interface {
	// Insert stores a new record and returns the store-generated id.
	Insert(ctx context.Context, rec *domain.Record) (string, error)

	// List returns every record in store default order.
	List(ctx context.Context) ([]domain.Record, error)

	// Get returns the record with the given id, or *domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// Delete removes the record with the given id and reports how many
	// records were removed (zero or one). A missing id is not an error.
	Delete(ctx context.Context, id string) (int64, error)

	// Update writes the given field values onto the record with the given
	// id and reports matched/modified counts.
	Update(ctx context.Context, id string, fields map[string]any) (matched, modified int64, err error)

	// Ping checks store reachability (used by the health probe).
	Ping(ctx context.Context) error
}
