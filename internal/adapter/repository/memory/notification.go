package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appDomain "loan-origination-backend/internal/domain/application"
	notifDomain "loan-origination-backend/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []*notifDomain.Notification
	seq   uint64
	now   func() time.Time
}

// NewNotificationRepository uses now to stamp notifications published without
// a CreatedAt; nil means time.Now in UTC.
func NewNotificationRepository(now func() time.Time) *NotificationRepository {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &NotificationRepository{now: now}
}

func (r *NotificationRepository) Publish(ctx context.Context, n *notifDomain.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	n.ID = r.seq
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now()
	}
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *NotificationRepository) QueryFor(ctx context.Context, userID string, role appDomain.Role) ([]*notifDomain.Notification, error) {
	r.mu.RLock()
	out := make([]*notifDomain.Notification, 0)
	for _, n := range r.items {
		if n.VisibleTo(userID, role) {
			cp := *n
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.items {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("%d: %w", id, notifDomain.ErrNotFound)
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string, role appDomain.Role) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, item := range r.items {
		if !item.Read && item.VisibleTo(userID, role) {
			n++
		}
	}
	return n, nil
}
