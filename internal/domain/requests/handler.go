package requests

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dog-blood-donation/internal/domain/dogs"
	"dog-blood-donation/internal/domain/matching"
	"dog-blood-donation/internal/middleware"
	"dog-blood-donation/internal/platform/metrics"
	"dog-blood-donation/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, dogsSvc *dogs.Service, m *metrics.Metrics) {
	r.Route("/requests", func(rr chi.Router) {
		rr.Post("/", createRequestHandler(svc, m))
		rr.Get("/", listOpenRequestsHandler(svc))
		rr.Get("/mine", listClinicRequestsHandler(svc))

		// Browse para donantes: pedidos compatibles con un perro.
		rr.Get("/compatible", listCompatibleRequestsHandler(svc, dogsSvc))

		rr.Get("/{requestID}", getRequestHandler(svc))
		rr.Put("/{requestID}", updateRequestHandler(svc))
		rr.Post("/{requestID}/cancel", cancelRequestHandler(svc, m))
		rr.Post("/{requestID}/fulfill", fulfillRequestHandler(svc))
	})
}

type createRequestRequest struct {
	BloodTypeNeeded *string `json:"blood_type_needed"`
	VolumeML        int     `json:"volume_ml"`
	Urgency         string  `json:"urgency"`
	PatientInfo     string  `json:"patient_info"`
	NeededByDate    string  `json:"needed_by_date"` // RFC3339
}

type updateRequestRequest struct {
	// Punteros: nil = no tocar.
	VolumeML     *int    `json:"volume_ml"`
	Urgency      *string `json:"urgency"`
	PatientInfo  *string `json:"patient_info"`
	NeededByDate *string `json:"needed_by_date"` // RFC3339
}

type requestResponse struct {
	ID              string    `json:"id"`
	ClinicID        string    `json:"clinic_id"`
	BloodTypeNeeded *string   `json:"blood_type_needed,omitempty"`
	VolumeML        int       `json:"volume_ml"`
	Urgency         string    `json:"urgency"`
	PatientInfo     string    `json:"patient_info"`
	NeededByDate    time.Time `json:"needed_by_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type rankedRequestResponse struct {
	requestResponse
	CompatibilityScore int `json:"compatibility_score"`
}

// requireClinicStaff valida claims + rol para operaciones de clínica.
func requireClinicStaff(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	if claims.Role != auth.RoleClinicStaff && claims.Role != auth.RoleAdmin {
		http.Error(w, "only clinic staff can manage donation requests", http.StatusForbidden)
		return auth.Claims{}, false
	}
	if strings.TrimSpace(claims.ClinicID) == "" {
		http.Error(w, "you must be linked to a clinic", http.StatusForbidden)
		return auth.Claims{}, false
	}
	return claims, true
}

// @Summary Crear pedido de sangre
// @Tags requests
// @Accept json
// @Produce json
// @Success 201 {object} requestResponse
// @Router /requests [post]
func createRequestHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClinicStaff(w, r)
		if !ok {
			return
		}

		var req createRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		neededBy, err := time.Parse(time.RFC3339, req.NeededByDate)
		if err != nil {
			http.Error(w, "needed_by_date must be RFC3339", http.StatusBadRequest)
			return
		}

		var bt *dogs.BloodType
		if req.BloodTypeNeeded != nil && strings.TrimSpace(*req.BloodTypeNeeded) != "" {
			v := dogs.BloodType(strings.TrimSpace(*req.BloodTypeNeeded))
			bt = &v
		}

		created, err := svc.Create(r.Context(), claims.ClinicID, claims.UserID, CreateInput{
			BloodTypeNeeded: bt,
			VolumeML:        req.VolumeML,
			Urgency:         Urgency(strings.TrimSpace(req.Urgency)),
			PatientInfo:     req.PatientInfo,
			NeededBy:        neededBy,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m.RequestsCreated.Inc()
		writeJSON(w, http.StatusCreated, toRequestResponse(created))
	}
}

// @Summary Listar pedidos abiertos
// @Tags requests
// @Produce json
// @Success 200 {array} requestResponse
// @Router /requests [get]
func listOpenRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter ListFilter

		if v := strings.TrimSpace(r.URL.Query().Get("blood_type")); v != "" {
			bt := dogs.BloodType(v)
			if !bt.Valid() {
				http.Error(w, "unknown blood type", http.StatusBadRequest)
				return
			}
			filter.BloodType = &bt
		}
		if v := strings.TrimSpace(r.URL.Query().Get("urgency")); v != "" {
			u := Urgency(v)
			if !u.Valid() {
				http.Error(w, "unknown urgency", http.StatusBadRequest)
				return
			}
			filter.Urgency = &u
		}

		items, err := svc.ListOpen(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toRequestResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Listar pedidos de mi clínica
// @Tags requests
// @Produce json
// @Success 200 {array} requestResponse
// @Router /requests/mine [get]
func listClinicRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClinicStaff(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByClinic(r.Context(), claims.ClinicID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toRequestResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Listar pedidos compatibles con un perro
// @Tags requests
// @Produce json
// @Success 200 {array} rankedRequestResponse
// @Router /requests/compatible [get]
func listCompatibleRequestsHandler(svc *Service, dogsSvc *dogs.Service) http.HandlerFunc {
	// El perro debe existir, ser del caller y estar apto para donar.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := strings.TrimSpace(r.URL.Query().Get("dog_id"))
		if dogID == "" {
			http.Error(w, "dog_id is required", http.StatusBadRequest)
			return
		}

		d, err := dogsSvc.GetByID(r.Context(), dogID)
		if err != nil {
			http.Error(w, "dog profile not found", http.StatusNotFound)
			return
		}
		if d.OwnerUserID != claims.UserID {
			http.Error(w, "this dog does not belong to you", http.StatusForbidden)
			return
		}

		if ev := dogs.Evaluate(d, time.Now()); !ev.Eligible {
			http.Error(w, "dog is not eligible for donation: "+strings.Join(ev.Reasons, "; "), http.StatusBadRequest)
			return
		}

		items, err := svc.ListCompatible(r.Context(), matching.DonorType(d))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]rankedRequestResponse, 0, len(items))
		for _, it := range items {
			out = append(out, rankedRequestResponse{
				requestResponse:    toRequestResponse(it.Request),
				CompatibilityScore: it.Score,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Ver un pedido
// @Tags requests
// @Produce json
// @Success 200 {object} requestResponse
// @Router /requests/{requestID} [get]
func getRequestHandler(svc *Service) http.HandlerFunc {
	// Público para transparencia: cualquiera puede ver un pedido.
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.GetByID(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil {
			http.Error(w, "donation request not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

// @Summary Actualizar un pedido abierto
// @Tags requests
// @Accept json
// @Produce json
// @Success 200 {object} requestResponse
// @Router /requests/{requestID} [put]
func updateRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClinicStaff(w, r)
		if !ok {
			return
		}

		var req updateRequestRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			VolumeML:    req.VolumeML,
			PatientInfo: req.PatientInfo,
		}
		if req.Urgency != nil {
			u := Urgency(strings.TrimSpace(*req.Urgency))
			in.Urgency = &u
		}
		if req.NeededByDate != nil {
			t, err := time.Parse(time.RFC3339, *req.NeededByDate)
			if err != nil {
				http.Error(w, "needed_by_date must be RFC3339", http.StatusBadRequest)
				return
			}
			in.NeededBy = &t
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "requestID"), claims.ClinicID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(updated))
	}
}

// @Summary Cancelar un pedido
// @Tags requests
// @Produce json
// @Success 200 {object} requestResponse
// @Router /requests/{requestID}/cancel [post]
func cancelRequestHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClinicStaff(w, r)
		if !ok {
			return
		}

		cancelled, err := svc.Cancel(r.Context(), chi.URLParam(r, "requestID"), claims.ClinicID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		m.RequestsCancelled.Inc()
		writeJSON(w, http.StatusOK, toRequestResponse(cancelled))
	}
}

// @Summary Marcar un pedido como cubierto
// @Tags requests
// @Produce json
// @Success 200 {object} requestResponse
// @Router /requests/{requestID}/fulfill [post]
func fulfillRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClinicStaff(w, r)
		if !ok {
			return
		}

		fulfilled, err := svc.Fulfill(r.Context(), chi.URLParam(r, "requestID"), claims.ClinicID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(fulfilled))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "donation request not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toRequestResponse(r Request) requestResponse {
	var bt *string
	if r.BloodTypeNeeded != nil {
		s := string(*r.BloodTypeNeeded)
		bt = &s
	}
	return requestResponse{
		ID:              r.ID,
		ClinicID:        r.ClinicID,
		BloodTypeNeeded: bt,
		VolumeML:        r.VolumeML,
		Urgency:         string(r.Urgency),
		PatientInfo:     r.PatientInfo,
		NeededByDate:    r.NeededBy,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
