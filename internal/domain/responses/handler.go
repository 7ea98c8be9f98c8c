package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dog-blood-donation/internal/middleware"
	"dog-blood-donation/internal/platform/metrics"
	"dog-blood-donation/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, m *metrics.Metrics) {
	// Responder cuelga del pedido; el resto es recurso propio.
	r.Post("/requests/{requestID}/respond", respondHandler(svc, m))
	r.Get("/requests/{requestID}/responses", listByRequestHandler(svc))

	r.Route("/responses", func(rr chi.Router) {
		rr.Get("/mine", listMineHandler(svc))
		rr.Post("/{responseID}/complete", completeHandler(svc, m))
	})
}

type respondRequest struct {
	DogID   string `json:"dog_id"`
	Status  string `json:"status"` // ACCEPTED | DECLINED
	Message string `json:"response_message"`
}

type responseResponse struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	DogID       string    `json:"dog_id"`
	OwnerUserID string    `json:"owner_user_id"`
	Status      string    `json:"status"`
	Message     string    `json:"response_message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type eligibilityErrorResponse struct {
	Error   string   `json:"error"`
	Reasons []string `json:"reasons"`
}

// @Summary Responder a un pedido de sangre
// @Tags responses
// @Accept json
// @Produce json
// @Success 201 {object} responseResponse
// @Router /requests/{requestID}/respond [post]
func respondHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RoleDogOwner {
			http.Error(w, "only dog owners can respond to donation requests", http.StatusForbidden)
			return
		}

		var req respondRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		created, err := svc.Create(r.Context(), chi.URLParam(r, "requestID"), claims.UserID, CreateInput{
			DogID:   req.DogID,
			Status:  Status(strings.TrimSpace(req.Status)),
			Message: req.Message,
		})
		if err != nil {
			var eligErr *EligibilityError
			switch {
			case errors.As(err, &eligErr):
				// Con razones legibles por máquina, el cliente explica el
				// "por qué" sin re-derivar las reglas.
				writeJSON(w, http.StatusForbidden, eligibilityErrorResponse{
					Error:   eligErr.Error(),
					Reasons: eligErr.Reasons,
				})
			case errors.Is(err, ErrAlreadyResponded):
				m.ResponseConflicts.Inc()
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrBadState):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, err.Error(), http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		m.ResponsesCreated.Inc()
		writeJSON(w, http.StatusCreated, toResponseResponse(created))
	}
}

// @Summary Listar respuestas de un pedido
// @Tags responses
// @Produce json
// @Success 200 {array} responseResponse
// @Router /requests/{requestID}/responses [get]
func listByRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RoleClinicStaff && claims.Role != auth.RoleAdmin {
			http.Error(w, "only clinic staff can list request responses", http.StatusForbidden)
			return
		}

		items, err := svc.ListByRequest(r.Context(), chi.URLParam(r, "requestID"), claims.ClinicID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, err.Error(), http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := make([]responseResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toResponseResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Listar mis respuestas
// @Tags responses
// @Produce json
// @Success 200 {array} responseResponse
// @Router /responses/mine [get]
func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]responseResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toResponseResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Marcar una donación como completada
// @Tags responses
// @Produce json
// @Success 200 {object} responseResponse
// @Router /responses/{responseID}/complete [post]
func completeHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RoleClinicStaff && claims.Role != auth.RoleAdmin {
			http.Error(w, "only clinic staff can complete donations", http.StatusForbidden)
			return
		}

		completed, err := svc.Complete(r.Context(), chi.URLParam(r, "responseID"), claims.ClinicID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "donation response not found", http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, err.Error(), http.StatusForbidden)
			case errors.Is(err, ErrBadState):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		m.DonationsCompleted.Inc()
		writeJSON(w, http.StatusOK, toResponseResponse(completed))
	}
}

func toResponseResponse(resp Response) responseResponse {
	return responseResponse{
		ID:          resp.ID,
		RequestID:   resp.RequestID,
		DogID:       resp.DogID,
		OwnerUserID: resp.OwnerUserID,
		Status:      string(resp.Status),
		Message:     resp.Message,
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
