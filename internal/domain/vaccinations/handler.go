package vaccinations

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
	r.Post("/animals/{animalID}/vaccinations", createVaccinationHandler(svc))
	r.Get("/animals/{animalID}/vaccinations", listVaccinationsHandler(svc))

	r.Route("/vaccinations/{vaccinationID}", func(vr chi.Router) {
		vr.Get("/", getVaccinationHandler(svc))
		vr.Patch("/", updateVaccinationHandler(svc))
		vr.Delete("/", deleteVaccinationHandler(svc))
	})
}

type createVaccinationRequest struct {
	VaccineName  string `json:"vaccine_name"`
	Date         string `json:"date"` // YYYY-MM-DD
	Batch        string `json:"batch"`
	Veterinarian string `json:"veterinarian"`
	Notes        string `json:"notes"`
}

type updateVaccinationRequest struct {
	VaccineName  *string `json:"vaccine_name"`
	Date         *string `json:"date"`
	Batch        *string `json:"batch"`
	Veterinarian *string `json:"veterinarian"`
	Notes        *string `json:"notes"`
}

type vaccinationResponse struct {
	ID           string    `json:"id"`
	AnimalID     string    `json:"animal_id"`
	VaccineName  string    `json:"vaccine_name"`
	Date         time.Time `json:"date"`
	Batch        string    `json:"batch"`
	Veterinarian string    `json:"veterinarian"`
	Notes        string    `json:"notes"`
	RecordedBy   string    `json:"recorded_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// createVaccinationHandler godoc
// @Summary Registrar vacunación
// @Description Asienta una vacuna aplicada al animal. Solo el dueño del animal puede registrar; la propiedad del registro se deriva del animal.
// @Tags vaccinations
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param animalID path string true "ID del animal"
// @Param payload body createVaccinationRequest true "Datos de la vacunación; date en YYYY-MM-DD"
// @Success 201 {object} vaccinationResponse
// @Failure 403 {string} string "animal ajeno"
// @Failure 404 {string} string "animal inexistente"
// @Router /animals/{animalID}/vaccinations [post]
func createVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createVaccinationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, CreateInput{
			VaccineName:  req.VaccineName,
			Date:         date,
			Batch:        req.Batch,
			Veterinarian: req.Veterinarian,
			Notes:        req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toVaccinationResponse(v))
	}
}

func listVaccinationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByAnimal(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]vaccinationResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVaccinationResponse(v))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		v, err := svc.GetByID(r.Context(), chi.URLParam(r, "vaccinationID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVaccinationResponse(v))
	}
}

func updateVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateVaccinationRequest
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

		v, err := svc.Update(r.Context(), chi.URLParam(r, "vaccinationID"), claims.UserID, UpdateInput{
			VaccineName:  req.VaccineName,
			Date:         date,
			Batch:        req.Batch,
			Veterinarian: req.Veterinarian,
			Notes:        req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVaccinationResponse(v))
	}
}

func deleteVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "vaccinationID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toVaccinationResponse(v Vaccination) vaccinationResponse {
	return vaccinationResponse{
		ID:           v.ID,
		AnimalID:     v.AnimalID,
		VaccineName:  v.VaccineName,
		Date:         v.Date,
		Batch:        v.Batch,
		Veterinarian: v.Veterinarian,
		Notes:        v.Notes,
		RecordedBy:   v.RecordedBy,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
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
