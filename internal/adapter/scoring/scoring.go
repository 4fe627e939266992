package scoring

import (
	"context"
	"math/rand/v2"
	"sync"

	"loan-origination-backend/internal/domain/application"
)

// Random draws a uniform score in [300, 850], standing in for a credit bureau.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom uses src when given (reproducible runs) and the global source otherwise.
func NewRandom(src rand.Source) *Random {
	r := &Random{}
	if src != nil {
		r.rng = rand.New(src)
	}
	return r
}

func (r *Random) Score(ctx context.Context, _ application.Payload) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	span := application.MaxCreditScore - application.MinCreditScore + 1
	if r.rng == nil {
		return application.MinCreditScore + rand.IntN(span), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return application.MinCreditScore + r.rng.IntN(span), nil
}

// Fixed always returns the same score.
type Fixed int

func (f Fixed) Score(context.Context, application.Payload) (int, error) { return int(f), nil }

// Func adapts a plain function.
type Func func(ctx context.Context, p application.Payload) (int, error)

func (f Func) Score(ctx context.Context, p application.Payload) (int, error) { return f(ctx, p) }
