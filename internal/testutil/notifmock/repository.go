package notifmock

import (
	"context"

	appDomain "loan-origination-backend/internal/domain/application"
	domain "loan-origination-backend/internal/domain/notification"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	PublishFn     func(ctx context.Context, n *domain.Notification) error
	QueryForFn    func(ctx context.Context, userID string, role appDomain.Role) ([]*domain.Notification, error)
	MarkReadFn    func(ctx context.Context, id uint64) error
	UnreadCountFn func(ctx context.Context, userID string, role appDomain.Role) (int64, error)
}

func (m *Repo) Publish(ctx context.Context, n *domain.Notification) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, n)
	}
	return nil
}

func (m *Repo) QueryFor(ctx context.Context, userID string, role appDomain.Role) ([]*domain.Notification, error) {
	if m.QueryForFn != nil {
		return m.QueryForFn(ctx, userID, role)
	}
	return nil, context.Canceled
}

func (m *Repo) MarkRead(ctx context.Context, id uint64) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, id)
	}
	return nil
}

func (m *Repo) UnreadCount(ctx context.Context, userID string, role appDomain.Role) (int64, error) {
	if m.UnreadCountFn != nil {
		return m.UnreadCountFn(ctx, userID, role)
	}
	return 0, context.Canceled
}
