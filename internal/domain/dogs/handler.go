package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dog-blood-donation/internal/middleware"
	"dog-blood-donation/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, m *metrics.Metrics) {
	r.Route("/dogs", func(dr chi.Router) {
		dr.Post("/", createDogHandler(svc, m))
		dr.Get("/", listDogsHandler(svc))
		dr.Get("/{dogID}", getDogHandler(svc))
		dr.Patch("/{dogID}", updateDogHandler(svc))
		dr.Get("/{dogID}/eligibility", eligibilityHandler(svc))
	})
}

type createDogRequest struct {
	Name              string  `json:"name"`
	Breed             string  `json:"breed"`
	Sex               string  `json:"sex"`
	DateOfBirth       string  `json:"date_of_birth"` // YYYY-MM-DD
	WeightKg          float64 `json:"weight_kg"`
	BloodType         *string `json:"blood_type"`
	MedicalNotes      string  `json:"medical_notes"`
	VaccinationStatus string  `json:"vaccination_status"`
}

type updateDogRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name              *string  `json:"name"`
	Breed             *string  `json:"breed"`
	WeightKg          *float64 `json:"weight_kg"`
	BloodType         *string  `json:"blood_type"`
	MedicalNotes      *string  `json:"medical_notes"`
	VaccinationStatus *string  `json:"vaccination_status"`
	Active            *bool    `json:"active"`
}

type dogResponse struct {
	ID                string     `json:"id"`
	OwnerUserID       string     `json:"owner_user_id"`
	Name              string     `json:"name"`
	Breed             string     `json:"breed"`
	Sex               string     `json:"sex"`
	DateOfBirth       string     `json:"date_of_birth"`
	WeightKg          float64    `json:"weight_kg"`
	BloodType         *string    `json:"blood_type,omitempty"`
	LastDonationDate  *string    `json:"last_donation_date,omitempty"`
	MedicalNotes      string     `json:"medical_notes"`
	VaccinationStatus string     `json:"vaccination_status"`
	Active            bool       `json:"active"`
	AgeYears          int        `json:"age_years"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// @Summary Registrar perfil de perro donante
// @Tags dogs
// @Accept json
// @Produce json
// @Success 201 {object} dogResponse
// @Router /dogs [post]
func createDogHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var bt *BloodType
		if req.BloodType != nil && strings.TrimSpace(*req.BloodType) != "" {
			v := BloodType(strings.TrimSpace(*req.BloodType))
			bt = &v
		}

		d, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:              req.Name,
			Breed:             req.Breed,
			Sex:               Sex(strings.TrimSpace(req.Sex)),
			DateOfBirth:       dob,
			WeightKg:          req.WeightKg,
			BloodType:         bt,
			MedicalNotes:      req.MedicalNotes,
			VaccinationStatus: req.VaccinationStatus,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m.DogsRegistered.Inc()
		writeJSON(w, http.StatusCreated, toDogResponse(d, time.Now()))
	}
}

// @Summary Listar mis perros
// @Tags dogs
// @Produce json
// @Success 200 {array} dogResponse
// @Router /dogs [get]
func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		includeInactive := r.URL.Query().Get("include_inactive") == "true"

		items, err := svc.ListByOwner(r.Context(), claims.UserID, includeInactive)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		out := make([]dogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDogResponse(d, now))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Ver perfil de un perro
// @Tags dogs
// @Produce json
// @Success 200 {object} dogResponse
// @Router /dogs/{dogID} [get]
func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			http.Error(w, "dog profile not found", http.StatusNotFound)
			return
		}
		if d.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toDogResponse(d, time.Now()))
	}
}

// @Summary Actualizar perfil de un perro (incluye activar/desactivar)
// @Tags dogs
// @Accept json
// @Produce json
// @Success 200 {object} dogResponse
// @Router /dogs/{dogID} [patch]
func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateDogRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bt *BloodType
		if req.BloodType != nil {
			v := BloodType(strings.TrimSpace(*req.BloodType))
			bt = &v
		}

		d, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "dogID"), claims.UserID, UpdateInput{
			Name:              req.Name,
			Breed:             req.Breed,
			WeightKg:          req.WeightKg,
			BloodType:         bt,
			MedicalNotes:      req.MedicalNotes,
			VaccinationStatus: req.VaccinationStatus,
			Active:            req.Active,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "dog profile not found", http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toDogResponse(d, time.Now()))
	}
}

// @Summary Evaluar aptitud para donar
// @Tags dogs
// @Produce json
// @Success 200 {object} Evaluation
// @Router /dogs/{dogID}/eligibility [get]
func eligibilityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ev, err := svc.EvaluateEligibility(r.Context(), chi.URLParam(r, "dogID"), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "dog profile not found", http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, ev)
	}
}

func toDogResponse(d Dog, now time.Time) dogResponse {
	var bt *string
	if d.BloodType != nil {
		s := string(*d.BloodType)
		bt = &s
	}
	var ld *string
	if d.LastDonationDate != nil {
		s := d.LastDonationDate.Format("2006-01-02")
		ld = &s
	}
	return dogResponse{
		ID:                d.ID,
		OwnerUserID:       d.OwnerUserID,
		Name:              d.Name,
		Breed:             d.Breed,
		Sex:               string(d.Sex),
		DateOfBirth:       d.DateOfBirth.Format("2006-01-02"),
		WeightKg:          d.WeightKg,
		BloodType:         bt,
		LastDonationDate:  ld,
		MedicalNotes:      d.MedicalNotes,
		VaccinationStatus: d.VaccinationStatus,
		Active:            d.Active,
		AgeYears:          d.AgeYears(now),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (dogs/requests/responses) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
