package dogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
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
	Name              string
	Breed             string
	Sex               Sex
	DateOfBirth       time.Time
	WeightKg          float64
	BloodType         *BloodType
	MedicalNotes      string
	VaccinationStatus string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Dog, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Dog{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Dog{}, ErrInvalidInput
	}
	if !in.Sex.Valid() {
		return Dog{}, ErrInvalidInput
	}
	if in.WeightKg <= 0 {
		return Dog{}, ErrInvalidInput
	}

	now := s.now()
	if in.DateOfBirth.IsZero() || in.DateOfBirth.After(now) {
		return Dog{}, ErrInvalidInput
	}
	if in.BloodType != nil && !in.BloodType.Valid() {
		return Dog{}, ErrInvalidInput
	}

	d := Dog{
		ID:                uuid.NewString(),
		OwnerUserID:       ownerUserID,
		Name:              strings.TrimSpace(in.Name),
		Breed:             strings.TrimSpace(in.Breed),
		Sex:               in.Sex,
		DateOfBirth:       in.DateOfBirth,
		WeightKg:          in.WeightKg,
		BloodType:         in.BloodType,
		MedicalNotes:      strings.TrimSpace(in.MedicalNotes),
		VaccinationStatus: strings.TrimSpace(in.VaccinationStatus),
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, ErrNotFound
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dog{}, ErrNotFound
	}
	return d, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string, includeInactive bool) ([]Dog, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID, includeInactive)
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
type UpdateInput struct {
	Name              *string
	Breed             *string
	WeightKg          *float64
	BloodType         *BloodType
	MedicalNotes      *string
	VaccinationStatus *string
	Active            *bool
}

func (s *Service) UpdateProfile(ctx context.Context, dogID, callerUserID string, in UpdateInput) (Dog, error) {
	d, err := s.GetByID(ctx, dogID)
	if err != nil {
		return Dog{}, err
	}
	if d.OwnerUserID != callerUserID {
		return Dog{}, ErrForbidden
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Dog{}, ErrInvalidInput
		}
		d.Name = name
	}
	if in.Breed != nil {
		d.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.WeightKg != nil {
		if *in.WeightKg <= 0 {
			return Dog{}, ErrInvalidInput
		}
		d.WeightKg = *in.WeightKg
	}
	if in.BloodType != nil {
		if !in.BloodType.Valid() {
			return Dog{}, ErrInvalidInput
		}
		bt := *in.BloodType
		d.BloodType = &bt
	}
	if in.MedicalNotes != nil {
		d.MedicalNotes = strings.TrimSpace(*in.MedicalNotes)
	}
	if in.VaccinationStatus != nil {
		d.VaccinationStatus = strings.TrimSpace(*in.VaccinationStatus)
	}
	if in.Active != nil {
		d.Active = *in.Active
	}

	d.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// EvaluateEligibility carga el perro y corre el evaluador puro con el reloj
// del servicio. Solo el dueño puede consultarlo.
func (s *Service) EvaluateEligibility(ctx context.Context, dogID, callerUserID string) (Evaluation, error) {
	d, err := s.GetByID(ctx, dogID)
	if err != nil {
		return Evaluation{}, err
	}
	if d.OwnerUserID != callerUserID {
		return Evaluation{}, ErrForbidden
	}
	return Evaluate(d, s.now()), nil
}

// OwnerOf expone el dueño de un perro sin exponer el perfil completo.
// Evita ciclos de imports entre módulos (dogs <-> responses).
func (s *Service) OwnerOf(ctx context.Context, dogID string) (string, error) {
	d, err := s.GetByID(ctx, dogID)
	if err != nil {
		return "", err
	}
	return d.OwnerUserID, nil
}
