package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dog-blood-donation/internal/domain/requests"
)

type RequestsRepo struct {
	mu   sync.RWMutex
	byID map[string]requests.Request
}

func NewRequestsRepo() *RequestsRepo {
	return &RequestsRepo{
		byID: make(map[string]requests.Request),
	}
}

func (r *RequestsRepo) Create(ctx context.Context, req requests.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(req.ID) == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return errors.New("request already exists")
	}
	r.byID[req.ID] = req
	return nil
}

func (r *RequestsRepo) Update(ctx context.Context, req requests.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[req.ID]; !exists {
		return ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (requests.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return requests.Request{}, ErrNotFound
	}
	return req, nil
}

func (r *RequestsRepo) ListByStatus(ctx context.Context, status requests.Status) ([]requests.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]requests.Request, 0)
	for _, req := range r.byID {
		if req.Status == status {
			out = append(out, req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *RequestsRepo) ListByClinic(ctx context.Context, clinicID string) ([]requests.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]requests.Request, 0)
	for _, req := range r.byID {
		if req.ClinicID == clinicID {
			out = append(out, req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(items []requests.Request) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
