package births

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
	r.Post("/births", createBirthHandler(svc))
	r.Get("/animals/{animalID}/births", listBirthsHandler(svc))

	r.Route("/births/{birthID}", func(br chi.Router) {
		br.Get("/", getBirthHandler(svc))
		br.Patch("/", updateBirthHandler(svc))
		br.Delete("/", deleteBirthHandler(svc))
	})
}

type createBirthRequest struct {
	MotherID string `json:"mother_id"`
	CalfID   string `json:"calf_id"` // opcional
	Date     string `json:"date"`    // YYYY-MM-DD
	Status   Status `json:"status"`  // vacío = ALIVE
	CalfSex  string `json:"calf_sex"`
	Weight   string `json:"weight"`
	Notes    string `json:"notes"`
}

type updateBirthRequest struct {
	CalfID *string `json:"calf_id"`
	Date   *string `json:"date"`
	Status *Status `json:"status"`
	Weight *string `json:"weight"`
	Notes  *string `json:"notes"`
}

type birthResponse struct {
	ID         string    `json:"id"`
	MotherID   string    `json:"mother_id"`
	CalfID     string    `json:"calf_id,omitempty"`
	Date       time.Time `json:"date"`
	Status     Status    `json:"status"`
	CalfSex    string    `json:"calf_sex,omitempty"`
	Weight     string    `json:"weight,omitempty"`
	Notes      string    `json:"notes"`
	RecordedBy string    `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// createBirthHandler godoc
// @Summary Registrar parto
// @Description Asienta un parto de una madre propia (debe ser hembra). Sin calf_id se crea la cría automáticamente a nombre de quien registra, con pelaje heredado y la arista madre puesta.
// @Tags births
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body createBirthRequest true "Datos del parto; date en YYYY-MM-DD"
// @Success 201 {object} birthResponse
// @Failure 403 {string} string "madre ajena / no es hembra"
// @Failure 404 {string} string "madre o cría inexistente"
// @Router /births [post]
func createBirthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createBirthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		b, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			MotherID: req.MotherID,
			CalfID:   req.CalfID,
			Date:     date,
			Status:   req.Status,
			CalfSex:  req.CalfSex,
			Weight:   req.Weight,
			Notes:    req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBirthResponse(b))
	}
}

func listBirthsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByMother(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]birthResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBirthResponse(b))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getBirthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		b, err := svc.GetByID(r.Context(), chi.URLParam(r, "birthID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBirthResponse(b))
	}
}

func updateBirthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateBirthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date *time.Time
		if req.Date != nil {
			t, err := time.Parse("2006-01-02", *req.Date)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = &t
		}

		b, err := svc.Update(r.Context(), chi.URLParam(r, "birthID"), claims.UserID, UpdateInput{
			CalfID: req.CalfID,
			Date:   date,
			Status: req.Status,
			Weight: req.Weight,
			Notes:  req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBirthResponse(b))
	}
}

func deleteBirthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "birthID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toBirthResponse(b Birth) birthResponse {
	return birthResponse{
		ID:         b.ID,
		MotherID:   b.MotherID,
		CalfID:     b.CalfID,
		Date:       b.Date,
		Status:     b.Status,
		CalfSex:    b.CalfSex,
		Weight:     b.Weight,
		Notes:      b.Notes,
		RecordedBy: b.RecordedBy,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
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
