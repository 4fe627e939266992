package mysql

import (
	"context"
	"fmt"
	"time"

	appDomain "loan-origination-backend/internal/domain/application"
	notifDomain "loan-origination-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNotificationRepository(db *gorm.DB, now func() time.Time) *NotificationRepository {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &NotificationRepository{db: db, now: now}
}

func (r *NotificationRepository) Publish(ctx context.Context, n *notifDomain.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now()
	}
	n.ID = 0
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) visible(ctx context.Context, userID string, role appDomain.Role) *gorm.DB {
	db := r.db.WithContext(ctx)
	return db.Model(&notifDomain.Notification{}).Where(
		db.Where("user_id <> '' AND user_id = ?", userID).
			Or("audience <> '' AND audience = ?", role),
	)
}

func (r *NotificationRepository) QueryFor(ctx context.Context, userID string, role appDomain.Role) ([]*notifDomain.Notification, error) {
	var out []*notifDomain.Notification
	err := r.visible(ctx, userID, role).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports 0 changed rows for an already-read notification.
	var n int64
	if err := r.db.WithContext(ctx).Model(&notifDomain.Notification{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%d: %w", id, notifDomain.ErrNotFound)
	}
	return nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string, role appDomain.Role) (int64, error) {
	var n int64
	err := r.visible(ctx, userID, role).Where("is_read = ?", false).Count(&n).Error
	return n, err
}
