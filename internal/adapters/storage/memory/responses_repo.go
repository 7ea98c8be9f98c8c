package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dog-blood-donation/internal/domain/responses"
)

// ResponsesRepo guarda respuestas con un índice por par (request, dog)
// que reproduce la constraint única de Postgres bajo concurrencia.
type ResponsesRepo struct {
	mu     sync.RWMutex
	byID   map[string]responses.Response
	byPair map[string]string // pairKey -> response id

	// El completado toca también al perro; compartir el repo de perros
	// permite simular la unidad de trabajo de la transacción.
	dogs *DogsRepo
}

func NewResponsesRepo(dogsRepo *DogsRepo) *ResponsesRepo {
	return &ResponsesRepo{
		byID:   make(map[string]responses.Response),
		byPair: make(map[string]string),
		dogs:   dogsRepo,
	}
}

func (r *ResponsesRepo) Create(ctx context.Context, resp responses.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(resp.ID) == "" {
		return errors.New("response id required")
	}
	if _, exists := r.byID[resp.ID]; exists {
		return errors.New("response already exists")
	}

	key := pairKey(resp.RequestID, resp.DogID)
	if _, exists := r.byPair[key]; exists {
		return responses.ErrDuplicatePair
	}

	r.byID[resp.ID] = resp
	r.byPair[key] = resp.ID
	return nil
}

func (r *ResponsesRepo) GetByID(ctx context.Context, id string) (responses.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resp, ok := r.byID[id]
	if !ok {
		return responses.Response{}, ErrNotFound
	}
	return resp, nil
}

func (r *ResponsesRepo) GetByRequestAndDog(ctx context.Context, requestID, dogID string) (responses.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[pairKey(requestID, dogID)]
	if !ok {
		return responses.Response{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *ResponsesRepo) ListByRequest(ctx context.Context, requestID string) ([]responses.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]responses.Response, 0)
	for _, resp := range r.byID {
		if resp.RequestID == requestID {
			out = append(out, resp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ResponsesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]responses.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]responses.Response, 0)
	for _, resp := range r.byID {
		if resp.OwnerUserID == ownerUserID {
			out = append(out, resp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Complete aplica los dos cambios (estado + fecha del perro) o ninguno,
// imitando la transacción del adapter Postgres.
func (r *ResponsesRepo) Complete(ctx context.Context, responseID, dogID string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	resp, ok := r.byID[responseID]
	if !ok {
		return ErrNotFound
	}
	if resp.Status != responses.StatusAccepted {
		return responses.ErrNotCompletable
	}

	// Primero el perro: si falla, la respuesta queda intacta.
	d, err := r.dogs.GetByID(ctx, dogID)
	if err != nil {
		return ErrNotFound
	}
	ld := completedAt
	d.LastDonationDate = &ld
	d.UpdatedAt = completedAt
	if err := r.dogs.Update(ctx, d); err != nil {
		return err
	}

	resp.Status = responses.StatusCompleted
	resp.UpdatedAt = completedAt
	r.byID[responseID] = resp
	return nil
}

func pairKey(requestID, dogID string) string {
	return requestID + "|" + dogID
}
