package notifier

import (
	"context"
	"encoding/json"

	appDomain "loan-origination-backend/internal/domain/application"
	notifDomain "loan-origination-backend/internal/domain/notification"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ notifDomain.Repository = (*RedisFanout)(nil)

// RedisFanout stores through the wrapped repository and then PUBLISHes the
// stored notification for live subscribers. Fan-out is best effort: a failed
// PUBLISH is logged and the stored notification stands.
type RedisFanout struct {
	notifDomain.Repository
	rdb    redis.Cmdable
	prefix string
	log    *zap.Logger
}

func NewRedisFanout(next notifDomain.Repository, rdb redis.Cmdable, prefix string, log *zap.Logger) *RedisFanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisFanout{Repository: next, rdb: rdb, prefix: prefix, log: log}
}

// Channel is where n is announced: <prefix>:user:<id> or <prefix>:role:<role>.
func (f *RedisFanout) Channel(n *notifDomain.Notification) string {
	if n.Audience != "" {
		return f.RoleChannel(n.Audience)
	}
	return f.UserChannel(n.UserID)
}

func (f *RedisFanout) UserChannel(userID string) string { return f.prefix + ":user:" + userID }

func (f *RedisFanout) RoleChannel(role appDomain.Role) string { return f.prefix + ":role:" + string(role) }

func (f *RedisFanout) Publish(ctx context.Context, n *notifDomain.Notification) error {
	if err := f.Repository.Publish(ctx, n); err != nil {
		return err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		f.log.Error("encode notification", zap.Uint64("notification_id", n.ID), zap.Error(err))
		return nil
	}
	ch := f.Channel(n)
	if err := f.rdb.Publish(ctx, ch, payload).Err(); err != nil {
		f.log.Warn("fan-out notification",
			zap.String("channel", ch),
			zap.Uint64("notification_id", n.ID),
			zap.Error(err))
	}
	return nil
}
