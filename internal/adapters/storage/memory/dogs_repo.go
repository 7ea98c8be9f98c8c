package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dog-blood-donation/internal/domain/dogs"
)

var (
	ErrNotFound = errors.New("not found")
)

type DogsRepo struct {
	mu   sync.RWMutex
	byID map[string]dogs.Dog
}

func NewDogsRepo() *DogsRepo {
	return &DogsRepo{
		byID: make(map[string]dogs.Dog),
	}
}

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dog already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateLocked(d)
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return dogs.Dog{}, ErrNotFound
	}
	return d, nil
}

func (r *DogsRepo) ListByOwner(ctx context.Context, ownerUserID string, includeInactive bool) ([]dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dogs.Dog, 0)
	for _, d := range r.byID {
		if d.OwnerUserID != ownerUserID {
			continue
		}
		if !includeInactive && !d.Active {
			continue
		}
		out = append(out, d)
	}

	// orden estable por created_at asc (consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *DogsRepo) updateLocked(d dogs.Dog) error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.byID[d.ID]; !exists {
		return ErrNotFound
	}
	r.byID[d.ID] = d
	return nil
}
