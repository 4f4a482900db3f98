package history

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
	r.Post("/animals/{animalID}/history", createEntryHandler(svc))
	r.Get("/animals/{animalID}/history", listEntriesHandler(svc))

	r.Route("/history/{entryID}", func(hr chi.Router) {
		hr.Get("/", getEntryHandler(svc))
		hr.Patch("/", updateEntryHandler(svc))
		hr.Delete("/", deleteEntryHandler(svc))
	})
}

type createEntryRequest struct {
	Type        EntryType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // YYYY-MM-DD
}

type updateEntryRequest struct {
	Type        *EntryType `json:"type"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *string    `json:"date"`
}

type entryResponse struct {
	ID          string    `json:"id"`
	AnimalID    string    `json:"animal_id"`
	Type        EntryType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	RecordedBy  string    `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func createEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, CreateInput{
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
			Date:        date,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

func listEntriesHandler(svc *Service) http.HandlerFunc {
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

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "entryID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

func updateEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateEntryRequest
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

		e, err := svc.Update(r.Context(), chi.URLParam(r, "entryID"), claims.UserID, UpdateInput{
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
			Date:        date,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

func deleteEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "entryID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		AnimalID:    e.AnimalID,
		Type:        e.Type,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		RecordedBy:  e.RecordedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
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
