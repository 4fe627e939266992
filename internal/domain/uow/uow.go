package uow

import (
	"context"

	"loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/notification"
)

type Repos struct {
	Applications  application.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: load (and lock, where the store supports it) the application first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.Application) error) error
}
