package workflow

import (
	"context"
	"time"

	"loan-origination-backend/internal/domain/application"
)

// ScoreProvider yields a credit score in [300, 850] for a new application.
type ScoreProvider interface {
	Score(ctx context.Context, p application.Payload) (int, error)
}

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var systemClock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Locker serializes work on a key. unlock must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
