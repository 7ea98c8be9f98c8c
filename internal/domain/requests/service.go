package requests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"dog-blood-donation/internal/domain/dogs"
	"dog-blood-donation/internal/domain/matching"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	BloodTypeNeeded *dogs.BloodType
	VolumeML        int
	Urgency         Urgency
	PatientInfo     string
	NeededBy        time.Time
}

func (s *Service) Create(ctx context.Context, clinicID, createdByUserID string, in CreateInput) (Request, error) {
	if strings.TrimSpace(clinicID) == "" || strings.TrimSpace(createdByUserID) == "" {
		return Request{}, ErrInvalidInput
	}
	if in.VolumeML < MinVolumeML || in.VolumeML > MaxVolumeML {
		return Request{}, fmt.Errorf("%w: volume_ml must be between %d and %d", ErrInvalidInput, MinVolumeML, MaxVolumeML)
	}
	if !in.Urgency.Valid() {
		return Request{}, fmt.Errorf("%w: unknown urgency", ErrInvalidInput)
	}
	if in.BloodTypeNeeded != nil && !in.BloodTypeNeeded.Valid() {
		return Request{}, fmt.Errorf("%w: unknown blood type", ErrInvalidInput)
	}

	now := s.now()
	if in.NeededBy.IsZero() || !in.NeededBy.After(now) {
		return Request{}, fmt.Errorf("%w: needed_by_date must be in the future", ErrInvalidInput)
	}

	r := Request{
		ID:              uuid.NewString(),
		ClinicID:        clinicID,
		CreatedByUserID: createdByUserID,
		BloodTypeNeeded: in.BloodTypeNeeded,
		VolumeML:        in.VolumeML,
		Urgency:         in.Urgency,
		PatientInfo:     strings.TrimSpace(in.PatientInfo),
		NeededBy:        in.NeededBy,
		Status:          StatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

// GetByID devuelve el pedido con el estado derivado (EXPIRED si venció).
func (s *Service) GetByID(ctx context.Context, id string) (Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Request{}, ErrNotFound
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Request{}, ErrNotFound
	}
	r.Status = r.EffectiveStatus(s.now())
	return r, nil
}

type ListFilter struct {
	BloodType *dogs.BloodType
	Urgency   *Urgency
}

// ListOpen lista pedidos abiertos y no vencidos, CRITICAL primero y dentro
// de cada urgencia el más nuevo primero.
func (s *Service) ListOpen(ctx context.Context, filter ListFilter) ([]Request, error) {
	items, err := s.repo.ListByStatus(ctx, StatusOpen)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Request, 0, len(items))
	for _, r := range items {
		if r.Expired(now) {
			continue
		}
		if filter.BloodType != nil {
			if r.BloodTypeNeeded == nil || *r.BloodTypeNeeded != *filter.BloodType {
				continue
			}
		}
		if filter.Urgency != nil && r.Urgency != *filter.Urgency {
			continue
		}
		out = append(out, r)
	}

	sortByUrgency(out)
	return out, nil
}

func (s *Service) ListByClinic(ctx context.Context, clinicID string) ([]Request, error) {
	clinicID = strings.TrimSpace(clinicID)
	if clinicID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range items {
		items[i].Status = items[i].EffectiveStatus(now)
	}
	sortByUrgency(items)
	return items, nil
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	VolumeML    *int
	Urgency     *Urgency
	PatientInfo *string
	NeededBy    *time.Time
}

// Update modifica campos mutables. Solo mientras el pedido sigue OPEN y
// no venció: el deadline se re-chequea en cada escritura.
func (s *Service) Update(ctx context.Context, id, callerClinicID string, in UpdateInput) (Request, error) {
	r, err := s.loadOwnedOpen(ctx, id, callerClinicID, "update")
	if err != nil {
		return Request{}, err
	}

	now := s.now()

	if in.VolumeML != nil {
		if *in.VolumeML < MinVolumeML || *in.VolumeML > MaxVolumeML {
			return Request{}, fmt.Errorf("%w: volume_ml must be between %d and %d", ErrInvalidInput, MinVolumeML, MaxVolumeML)
		}
		r.VolumeML = *in.VolumeML
	}
	if in.Urgency != nil {
		if !in.Urgency.Valid() {
			return Request{}, fmt.Errorf("%w: unknown urgency", ErrInvalidInput)
		}
		r.Urgency = *in.Urgency
	}
	if in.PatientInfo != nil {
		r.PatientInfo = strings.TrimSpace(*in.PatientInfo)
	}
	if in.NeededBy != nil {
		if !in.NeededBy.After(now) {
			return Request{}, fmt.Errorf("%w: needed_by_date must be in the future", ErrInvalidInput)
		}
		r.NeededBy = *in.NeededBy
	}

	r.UpdatedAt = now

	if err := s.repo.Update(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Cancel pasa OPEN -> CANCELLED. Nunca es idempotente silencioso: cancelar
// un pedido ya terminal devuelve error de estado con el estado actual.
func (s *Service) Cancel(ctx context.Context, id, callerClinicID string) (Request, error) {
	r, err := s.loadOwnedOpen(ctx, id, callerClinicID, "cancel")
	if err != nil {
		return Request{}, err
	}

	r.Status = StatusCancelled
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Fulfill pasa OPEN -> FULFILLED. Lo decide la clínica, no es automático.
func (s *Service) Fulfill(ctx context.Context, id, callerClinicID string) (Request, error) {
	r, err := s.loadOwnedOpen(ctx, id, callerClinicID, "fulfill")
	if err != nil {
		return Request{}, err
	}

	r.Status = StatusFulfilled
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

// RankedRequest es un pedido con su puntaje de compatibilidad.
type RankedRequest struct {
	Request
	Score int
}

// ListCompatible rankea los pedidos abiertos que el tipo del donante puede
// cubrir: score desc, luego urgencia, luego el más nuevo primero.
func (s *Service) ListCompatible(ctx context.Context, donor dogs.BloodType) ([]RankedRequest, error) {
	items, err := s.repo.ListByStatus(ctx, StatusOpen)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]RankedRequest, 0, len(items))
	for _, r := range items {
		if r.Expired(now) {
			continue
		}
		if !matching.Compatible(donor, r.BloodTypeNeeded) {
			continue
		}
		out = append(out, RankedRequest{
			Request: r,
			Score:   matching.Score(donor, r.BloodTypeNeeded),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Urgency.Rank() != out[j].Urgency.Rank() {
			return out[i].Urgency.Rank() < out[j].Urgency.Rank()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// loadOwnedOpen carga el pedido y aplica las guardas comunes de escritura:
// existencia, pertenencia a la clínica y estado OPEN no vencido.
func (s *Service) loadOwnedOpen(ctx context.Context, id, callerClinicID, op string) (Request, error) {
	if strings.TrimSpace(callerClinicID) == "" {
		return Request{}, ErrForbidden
	}

	r, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Request{}, ErrNotFound
	}

	if r.ClinicID != callerClinicID {
		return Request{}, fmt.Errorf("%w: request belongs to another clinic", ErrForbidden)
	}

	if st := r.EffectiveStatus(s.now()); st != StatusOpen {
		return Request{}, fmt.Errorf("%w: cannot %s request with status %s", ErrBadState, op, st)
	}

	return r, nil
}

func sortByUrgency(items []Request) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Urgency.Rank() != items[j].Urgency.Rank() {
			return items[i].Urgency.Rank() < items[j].Urgency.Rank()
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
