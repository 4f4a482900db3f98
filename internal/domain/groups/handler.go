package groups

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
	r.Route("/groups", func(gr chi.Router) {
		gr.Post("/", createGroupHandler(svc))
		gr.Get("/", listGroupsHandler(svc))

		gr.Route("/{groupID}", func(ir chi.Router) {
			ir.Get("/", getGroupHandler(svc))
			ir.Patch("/", updateGroupHandler(svc))
			ir.Delete("/", deleteGroupHandler(svc))

			ir.Post("/members", inviteMemberHandler(svc))
			ir.Patch("/members/{userID}", updateMemberRoleHandler(svc))
			ir.Delete("/members/{userID}", removeMemberHandler(svc))
		})
	})
}

type createGroupRequest struct {
	Name string `json:"name"`
}

type updateGroupRequest struct {
	Name string `json:"name"`
}

type inviteMemberRequest struct {
	Email string `json:"email"`
	Role  Role   `json:"role"` // Administrador o Miembro
}

type updateRoleRequest struct {
	Role Role `json:"role"`
}

type memberResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

type groupResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	OwnerID   string           `json:"owner_id"`
	Members   []memberResponse `json:"members"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// createGroupHandler godoc
// @Summary Crear grupo
// @Description Crea un grupo de trabajo; quien lo crea queda como Propietario.
// @Tags groups
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body createGroupRequest true "Nombre del grupo"
// @Success 201 {object} groupResponse
// @Failure 400 {string} string "invalid json / nombre vacío"
// @Failure 401 {string} string "unauthorized"
// @Router /groups [post]
func createGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Create(r.Context(), req.Name, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toGroupResponse(g))
	}
}

func listGroupsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]groupResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGroupResponse(g))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getGroupHandler(svc *Service) http.HandlerFunc {
	// La pertenencia define la visibilidad: no-miembro recibe 404, no 403.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.FindOne(r.Context(), chi.URLParam(r, "groupID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGroupResponse(g))
	}
}

func updateGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Update(r.Context(), chi.URLParam(r, "groupID"), req.Name, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGroupResponse(g))
	}
}

func deleteGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "groupID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// inviteMemberHandler godoc
// @Summary Invitar miembro
// @Description Suma un usuario (por email) al grupo. Requiere rol Propietario o Administrador. No se puede invitar como Propietario.
// @Tags groups
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param groupID path string true "ID del grupo"
// @Param payload body inviteMemberRequest true "Email y rol del invitado"
// @Success 201 {object} memberResponse
// @Failure 403 {string} string "sin permisos de administración"
// @Failure 404 {string} string "grupo o usuario inexistente"
// @Failure 409 {string} string "ya es miembro"
// @Router /groups/{groupID}/members [post]
func inviteMemberHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req inviteMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.InviteMember(r.Context(), chi.URLParam(r, "groupID"), req.Email, req.Role, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMemberResponse(m))
	}
}

func updateMemberRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.UpdateMemberRole(
			r.Context(),
			chi.URLParam(r, "groupID"),
			chi.URLParam(r, "userID"),
			req.Role,
			claims.UserID,
		)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMemberResponse(m))
	}
}

func removeMemberHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.RemoveMember(
			r.Context(),
			chi.URLParam(r, "groupID"),
			chi.URLParam(r, "userID"),
			claims.UserID,
		)
		if err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toGroupResponse(g Group) groupResponse {
	members := make([]memberResponse, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, toMemberResponse(m))
	}
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		Members:   members,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func toMemberResponse(m Membership) memberResponse {
	return memberResponse{
		UserID: m.UserID,
		Name:   m.UserName,
		Email:  m.UserEmail,
		Role:   m.Role,
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
