package memory

import (
	"context"

	appDomain "loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/uow"
)

// UoW has no rollback; the single conditional Update inside a transition is
// what makes it atomic.
type UoW struct {
	apps   *ApplicationRepository
	notifs *NotificationRepository
}

func NewUoW(apps *ApplicationRepository, notifs *NotificationRepository) *UoW {
	return &UoW{apps: apps, notifs: notifs}
}

func (u *UoW) repos() uow.Repos {
	return uow.Repos{Applications: u.apps, Notifications: u.notifs}
}

func (u *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return fn(u.repos())
}

func (u *UoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *appDomain.Application) error) error {
	a, err := u.apps.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	return fn(u.repos(), a)
}
