package campaigns

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
	r.Route("/campaigns", func(cr chi.Router) {
		cr.Post("/", createCampaignHandler(svc))
		cr.Get("/", listCampaignsHandler(svc))

		cr.Route("/{campaignID}", func(ir chi.Router) {
			ir.Get("/", getCampaignHandler(svc))
			ir.Patch("/", updateCampaignHandler(svc))
			ir.Delete("/", deleteCampaignHandler(svc))
		})
	})

	r.Get("/groups/{groupID}/campaigns", listGroupCampaignsHandler(svc))
}

type createCampaignRequest struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Products  string   `json:"products"`
	Notes     string   `json:"notes"`
	Status    Status   `json:"status"`   // vacío = Pending
	GroupID   string   `json:"group_id"` // opcional: campaña de grupo
	AnimalIDs []string `json:"animal_ids"`
}

type updateCampaignRequest struct {
	Name      *string   `json:"name"`
	Date      *string   `json:"date"`
	Products  *string   `json:"products"`
	Notes     *string   `json:"notes"`
	Status    *Status   `json:"status"`
	AnimalIDs *[]string `json:"animal_ids"`
}

type campaignResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Products  string    `json:"products"`
	Notes     string    `json:"notes"`
	Status    Status    `json:"status"`
	OwnerID   string    `json:"owner_id,omitempty"`
	GroupID   string    `json:"group_id,omitempty"`
	AnimalIDs []string  `json:"animal_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createCampaignHandler godoc
// @Summary Crear campaña
// @Description Crea una campaña sobre un conjunto de animales. Con group_id el scope queda en el grupo (el caller debe ser miembro); sin group_id la campaña es individual del caller. Nunca ambos.
// @Tags campaigns
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body createCampaignRequest true "Datos de la campaña; date en YYYY-MM-DD"
// @Success 201 {object} campaignResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 404 {string} string "grupo o animal inexistente"
// @Router /campaigns [post]
func createCampaignHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createCampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Date:      date,
			Products:  req.Products,
			Notes:     req.Notes,
			Status:    req.Status,
			GroupID:   req.GroupID,
			AnimalIDs: req.AnimalIDs,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toCampaignResponse(c))
	}
}

func listCampaignsHandler(svc *Service) http.HandlerFunc {
	// Campañas propias más las de todos los grupos del caller.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.FindAllForUser(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]campaignResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCampaignResponse(c))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getCampaignHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.Authorize(r.Context(), chi.URLParam(r, "campaignID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCampaignResponse(c))
	}
}

func updateCampaignHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateCampaignRequest
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

		c, err := svc.Update(r.Context(), chi.URLParam(r, "campaignID"), claims.UserID, UpdateInput{
			Name:      req.Name,
			Date:      date,
			Products:  req.Products,
			Notes:     req.Notes,
			Status:    req.Status,
			AnimalIDs: req.AnimalIDs,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCampaignResponse(c))
	}
}

func deleteCampaignHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "campaignID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listGroupCampaignsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.FindAllForGroup(r.Context(), chi.URLParam(r, "groupID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]campaignResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCampaignResponse(c))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toCampaignResponse(c Campaign) campaignResponse {
	ids := c.AnimalIDs
	if ids == nil {
		ids = []string{}
	}
	return campaignResponse{
		ID:        c.ID,
		Name:      c.Name,
		Date:      c.Date,
		Products:  c.Products,
		Notes:     c.Notes,
		Status:    c.Status,
		OwnerID:   c.OwnerID,
		GroupID:   c.GroupID,
		AnimalIDs: ids,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
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
