package mysql

import (
	"context"
	"time"

	appDomain "loan-origination-backend/internal/domain/application"
	"loan-origination-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormUoW(db *gorm.DB, now func() time.Time) *GormUoW { return &GormUoW{db: db, now: now} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Applications:  &ApplicationRepository{db: tx},
		Notifications: NewNotificationRepository(tx, u.now),
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *appDomain.Application) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apps := &ApplicationRepository{db: tx}
		// lock the application row up-front to prevent races
		a, err := apps.GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		return fn(u.repos(tx), a)
	})
}
