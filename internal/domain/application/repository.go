package application

import "context"

type Repository interface {
	// Insert fails with ErrDuplicateID when the id is taken.
	Insert(ctx context.Context, a *Application) error

	// GetByID returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*Application, error)

	// Update replaces the stored record. a.Version must equal the stored version
	// (ErrConcurrentModification otherwise); on success a.Version is bumped.
	Update(ctx context.Context, a *Application) error

	// List returns matching applications in submission order.
	List(ctx context.Context, f Filter) ([]*Application, error)
}
