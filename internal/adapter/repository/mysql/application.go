package mysql

import (
	"context"
	"errors"
	"fmt"

	appDomain "loan-origination-backend/internal/domain/application"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *ApplicationRepository) Tx(ctx context.Context, fn func(repo appDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ApplicationRepository{db: tx})
	})
}

func withHistory(db *gorm.DB) *gorm.DB {
	return db.Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	})
}

func (r *ApplicationRepository) Insert(ctx context.Context, a *appDomain.Application) error {
	if a.ApplicationID == "" {
		return fmt.Errorf("empty application id: %w", appDomain.ErrValidation)
	}
	if a.Version == 0 {
		a.Version = 1
	}
	for i := range a.StatusHistory {
		a.StatusHistory[i].Seq = i + 1
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&appDomain.Application{}).
			Where("application_id = ?", a.ApplicationID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%s: %w", a.ApplicationID, appDomain.ErrDuplicateID)
		}
		return tx.Create(a).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", a.ApplicationID, appDomain.ErrDuplicateID)
	}
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := withHistory(r.db.WithContext(ctx)).Where("application_id = ?", id).First(&out)
	return r.found(&out, id, res.Error)
}

// GetByIDForUpdate locks the application row until the surrounding tx ends.
// SQLite has no row locks; the dialector drops the clause there.
func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, id string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := withHistory(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", id).
		First(&out)
	return r.found(&out, id, res.Error)
}

func (r *ApplicationRepository) found(a *appDomain.Application, id string, err error) (*appDomain.Application, error) {
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("%s: %w", id, appDomain.ErrNotFound)
	default:
		return nil, err
	}
}

// Update writes every column guarded by the version read earlier, then
// appends the history entries beyond those already stored.
func (r *ApplicationRepository) Update(ctx context.Context, a *appDomain.Application) error {
	prev := a.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.ID == 0 {
			var cur appDomain.Application
			if err := tx.Select("id").Where("application_id = ?", a.ApplicationID).First(&cur).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%s: %w", a.ApplicationID, appDomain.ErrNotFound)
				}
				return err
			}
			a.ID = cur.ID
		}

		a.Version = prev + 1
		res := tx.Model(a).
			Where("version = ?", prev).
			Select("*").
			Omit("id", "application_id", "created_at", clause.Associations).
			Updates(a)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&appDomain.Application{}).Where("id = ?", a.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%s: %w", a.ApplicationID, appDomain.ErrNotFound)
			}
			return fmt.Errorf("%s: version %d is stale: %w", a.ApplicationID, prev, appDomain.ErrConcurrentModification)
		}

		var persisted int64
		if err := tx.Model(&appDomain.HistoryEntry{}).Where("application_pk = ?", a.ID).Count(&persisted).Error; err != nil {
			return err
		}
		for i := int(persisted); i < len(a.StatusHistory); i++ {
			h := &a.StatusHistory[i]
			h.ID = 0
			h.ApplicationPK = a.ID
			h.Seq = i + 1
			if err := tx.Create(h).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%s: history seq %d taken: %w", a.ApplicationID, h.Seq, appDomain.ErrConcurrentModification)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		a.Version = prev
	}
	return err
}

func (r *ApplicationRepository) List(ctx context.Context, f appDomain.Filter) ([]*appDomain.Application, error) {
	q := withHistory(r.db.WithContext(ctx))
	if f.ApplicantID != "" {
		q = q.Where("applicant_id = ?", f.ApplicantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if visible := f.Role.VisibleStatuses(); visible != nil {
		q = q.Where("status IN ?", visible)
	}
	var out []*appDomain.Application
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
