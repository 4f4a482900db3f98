package states

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/animals/{animalID}/states", createStateHandler(svc))
	r.Get("/animals/{animalID}/states", listStatesHandler(svc))

	r.Route("/states/{stateID}", func(sr chi.Router) {
		sr.Get("/", getStateHandler(svc))
		sr.Patch("/", updateStateHandler(svc))
		sr.Delete("/", deleteStateHandler(svc))
	})
}

type createStateRequest struct {
	Type      StateType `json:"type"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	EndDate   string    `json:"end_date"`   // YYYY-MM-DD opcional
	Notes     string    `json:"notes"`
	Active    *bool     `json:"active"` // nil = true
}

type updateStateRequest struct {
	Name    *string `json:"name"`
	EndDate *string `json:"end_date"`
	Notes   *string `json:"notes"`
	Active  *bool   `json:"active"`
}

type stateResponse struct {
	ID         string     `json:"id"`
	AnimalID   string     `json:"animal_id"`
	Type       StateType  `json:"type"`
	Name       string     `json:"name"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Notes      string     `json:"notes"`
	Active     bool       `json:"active"`
	RecordedBy string     `json:"recorded_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// createStateHandler godoc
// @Summary Registrar estado del animal
// @Description Da de alta un estado sanitario/productivo. Un alta vigente desactiva al estado activo anterior del mismo tipo y le estampa la fecha de fin.
// @Tags states
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param animalID path string true "ID del animal"
// @Param payload body createStateRequest true "Datos del estado; fechas en YYYY-MM-DD"
// @Success 201 {object} stateResponse
// @Failure 403 {string} string "animal ajeno"
// @Failure 404 {string} string "animal inexistente"
// @Router /animals/{animalID}/states [post]
func createStateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createStateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		st, err := svc.Create(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, CreateInput{
			Type:      req.Type,
			Name:      req.Name,
			StartDate: start,
			EndDate:   end,
			Notes:     req.Notes,
			Active:    req.Active,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toStateResponse(st))
	}
}

func listStatesHandler(svc *Service) http.HandlerFunc {
	// ?active=true devuelve solo los estados vigentes.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")

		var items []State
		var err error
		if r.URL.Query().Get("active") == "true" {
			items, err = svc.ListActive(r.Context(), animalID, claims.UserID)
		} else {
			items, err = svc.ListByAnimal(r.Context(), animalID, claims.UserID)
		}
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]stateResponse, 0, len(items))
		for _, st := range items {
			out = append(out, toStateResponse(st))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getStateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.GetByID(r.Context(), chi.URLParam(r, "stateID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStateResponse(st))
	}
}

func updateStateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateStateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var end *time.Time
		if req.EndDate != nil {
			t, err := time.Parse("2006-01-02", *req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		st, err := svc.Update(r.Context(), chi.URLParam(r, "stateID"), claims.UserID, UpdateInput{
			Name:    req.Name,
			EndDate: end,
			Notes:   req.Notes,
			Active:  req.Active,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStateResponse(st))
	}
}

func deleteStateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "stateID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toStateResponse(st State) stateResponse {
	return stateResponse{
		ID:         st.ID,
		AnimalID:   st.AnimalID,
		Type:       st.Type,
		Name:       st.Name,
		StartDate:  st.StartDate,
		EndDate:    st.EndDate,
		Notes:      st.Notes,
		Active:     st.Active,
		RecordedBy: st.RecordedBy,
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), faults.HTTPStatus(err))
}
