package notification

import (
	"context"

	"loan-origination-backend/internal/domain/application"
)

type Repository interface {
	// Publish stores n, assigning ID and CreatedAt when unset.
	Publish(ctx context.Context, n *Notification) error

	// QueryFor returns notifications addressed to userID or broadcast to role,
	// newest first (CreatedAt desc, ID desc).
	QueryFor(ctx context.Context, userID string, role application.Role) ([]*Notification, error)

	// MarkRead is idempotent; ErrNotFound for unknown ids.
	MarkRead(ctx context.Context, id uint64) error

	// UnreadCount counts unread notifications visible to userID/role.
	UnreadCount(ctx context.Context, userID string, role application.Role) (int64, error)
}
