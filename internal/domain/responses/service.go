package responses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dog-blood-donation/internal/domain/dogs"
	"dog-blood-donation/internal/domain/requests"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrBadState         = errors.New("invalid state")
	ErrNotEligible      = errors.New("dog is not eligible for donation")
	ErrAlreadyResponded = errors.New("already responded to this request with this dog")
)

// EligibilityError envuelve ErrNotEligible con la lista de razones para
// que el caller pueda explicar el "por qué" sin re-derivar las reglas.
type EligibilityError struct {
	Reasons []string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("dog is not eligible for donation: %s", strings.Join(e.Reasons, "; "))
}

func (e *EligibilityError) Unwrap() error { return ErrNotEligible }

// RequestSource y DogSource son lo mínimo que este módulo necesita de
// requests y dogs; evitan acoplar los servicios completos.
type RequestSource interface {
	GetByID(ctx context.Context, id string) (requests.Request, error)
}

type DogSource interface {
	GetByID(ctx context.Context, id string) (dogs.Dog, error)
}

type Service struct {
	repo     Repository
	requests RequestSource
	dogs     DogSource
	now      func() time.Time
}

func NewService(repo Repository, reqSrc RequestSource, dogSrc DogSource) *Service {
	return &Service{
		repo:     repo,
		requests: reqSrc,
		dogs:     dogSrc,
		now:      time.Now,
	}
}

type CreateInput struct {
	DogID   string
	Status  Status
	Message string
}

// Create registra la respuesta de un dueño a un pedido. Precondiciones en
// orden, gana el primer fallo:
//  1. pedido existente y abierto (deadline incluido)
//  2. perro existente y del caller
//  3. si ACCEPTED, perro apto (DECLINED no evalúa aptitud)
//  4. sin respuesta previa para (request, dog); la constraint de storage
//     cubre la carrera y el perdedor recibe el mismo conflicto.
func (s *Service) Create(ctx context.Context, requestID, callerUserID string, in CreateInput) (Response, error) {
	requestID = strings.TrimSpace(requestID)
	callerUserID = strings.TrimSpace(callerUserID)
	dogID := strings.TrimSpace(in.DogID)

	if requestID == "" || callerUserID == "" || dogID == "" {
		return Response{}, ErrInvalidInput
	}
	if !in.Status.ValidInitial() {
		return Response{}, fmt.Errorf("%w: status must be ACCEPTED or DECLINED", ErrInvalidInput)
	}

	now := s.now()

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return Response{}, fmt.Errorf("%w: donation request", ErrNotFound)
	}
	if !req.OpenFor(now) {
		return Response{}, fmt.Errorf("%w: cannot respond to request with status %s", ErrBadState, req.EffectiveStatus(now))
	}

	d, err := s.dogs.GetByID(ctx, dogID)
	if err != nil {
		return Response{}, fmt.Errorf("%w: dog profile", ErrNotFound)
	}
	if d.OwnerUserID != callerUserID {
		return Response{}, fmt.Errorf("%w: this dog does not belong to you", ErrForbidden)
	}

	if in.Status == StatusAccepted {
		if ev := dogs.Evaluate(d, now); !ev.Eligible {
			return Response{}, &EligibilityError{Reasons: ev.Reasons}
		}
	}

	// Pre-chequeo de unicidad. La constraint de storage es la autoridad
	// final: dos submissions concurrentes pueden pasar ambas por acá.
	if _, err := s.repo.GetByRequestAndDog(ctx, requestID, dogID); err == nil {
		return Response{}, ErrAlreadyResponded
	}

	resp := Response{
		ID:          uuid.NewString(),
		RequestID:   requestID,
		DogID:       dogID,
		OwnerUserID: callerUserID,
		Status:      in.Status,
		Message:     strings.TrimSpace(in.Message),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, resp); err != nil {
		if errors.Is(err, ErrDuplicatePair) {
			// Perdimos la carrera: mismo conflicto que el pre-chequeo.
			return Response{}, ErrAlreadyResponded
		}
		return Response{}, err
	}

	return resp, nil
}

// Complete pasa ACCEPTED -> COMPLETED y fija la fecha de última donación
// del perro en la misma transacción. Solo staff de la clínica dueña del
// pedido.
func (s *Service) Complete(ctx context.Context, responseID, callerClinicID string) (Response, error) {
	responseID = strings.TrimSpace(responseID)
	if responseID == "" {
		return Response{}, ErrNotFound
	}

	resp, err := s.repo.GetByID(ctx, responseID)
	if err != nil {
		return Response{}, ErrNotFound
	}

	req, err := s.requests.GetByID(ctx, resp.RequestID)
	if err != nil {
		return Response{}, fmt.Errorf("%w: donation request", ErrNotFound)
	}
	if req.ClinicID != strings.TrimSpace(callerClinicID) {
		return Response{}, fmt.Errorf("%w: request belongs to another clinic", ErrForbidden)
	}

	if resp.Status != StatusAccepted {
		return Response{}, fmt.Errorf("%w: can only complete responses with status ACCEPTED (current: %s)", ErrBadState, resp.Status)
	}

	now := s.now()
	if err := s.repo.Complete(ctx, resp.ID, resp.DogID, now); err != nil {
		if errors.Is(err, ErrNotCompletable) {
			return Response{}, fmt.Errorf("%w: response is no longer ACCEPTED", ErrBadState)
		}
		return Response{}, err
	}

	resp.Status = StatusCompleted
	resp.UpdatedAt = now
	return resp, nil
}

// ListByRequest lista respuestas de un pedido. Solo la clínica dueña.
func (s *Service) ListByRequest(ctx context.Context, requestID, callerClinicID string) ([]Response, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, ErrNotFound
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: donation request", ErrNotFound)
	}
	if req.ClinicID != strings.TrimSpace(callerClinicID) {
		return nil, fmt.Errorf("%w: request belongs to another clinic", ErrForbidden)
	}

	return s.repo.ListByRequest(ctx, requestID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Response, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}
