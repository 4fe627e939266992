package memory

import (
	"context"
	"fmt"
	"sync"

	appDomain "loan-origination-backend/internal/domain/application"
)

// ApplicationRepository keeps applications in process memory. Records are
// cloned on the way in and out so callers never alias stored state.
type ApplicationRepository struct {
	mu     sync.RWMutex
	byID   map[string]*appDomain.Application
	order  []string
	nextPK uint64
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{byID: make(map[string]*appDomain.Application)}
}

func (r *ApplicationRepository) Insert(ctx context.Context, a *appDomain.Application) error {
	if a.ApplicationID == "" {
		return fmt.Errorf("empty application id: %w", appDomain.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ApplicationID]; ok {
		return fmt.Errorf("%s: %w", a.ApplicationID, appDomain.ErrDuplicateID)
	}
	r.nextPK++
	a.ID = r.nextPK
	if a.Version == 0 {
		a.Version = 1
	}
	for i := range a.StatusHistory {
		a.StatusHistory[i].ApplicationPK = a.ID
		a.StatusHistory[i].Seq = i + 1
	}
	r.byID[a.ApplicationID] = a.Clone()
	r.order = append(r.order, a.ApplicationID)
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*appDomain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, appDomain.ErrNotFound)
	}
	return a.Clone(), nil
}

func (r *ApplicationRepository) Update(ctx context.Context, a *appDomain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[a.ApplicationID]
	if !ok {
		return fmt.Errorf("%s: %w", a.ApplicationID, appDomain.ErrNotFound)
	}
	if cur.Version != a.Version {
		return fmt.Errorf("%s: stored version %d, got %d: %w",
			a.ApplicationID, cur.Version, a.Version, appDomain.ErrConcurrentModification)
	}
	a.ID = cur.ID
	a.Version++
	for i := range a.StatusHistory {
		a.StatusHistory[i].ApplicationPK = a.ID
		a.StatusHistory[i].Seq = i + 1
	}
	r.byID[a.ApplicationID] = a.Clone()
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context, f appDomain.Filter) ([]*appDomain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*appDomain.Application, 0)
	for _, id := range r.order {
		a := r.byID[id]
		if f.Matches(a) {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}
