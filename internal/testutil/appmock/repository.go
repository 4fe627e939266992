package appmock

import (
	"context"

	domain "loan-origination-backend/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset functions fall back to no-op writes and context.Canceled reads.
type Repo struct {
	InsertFn  func(ctx context.Context, a *domain.Application) error
	GetByIDFn func(ctx context.Context, id string) (*domain.Application, error)
	UpdateFn  func(ctx context.Context, a *domain.Application) error
	ListFn    func(ctx context.Context, f domain.Filter) ([]*domain.Application, error)
}

func (m *Repo) Insert(ctx context.Context, a *domain.Application) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Update(ctx context.Context, a *domain.Application) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, a)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]*domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}
