package animals

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))

		ar.Route("/{animalID}", func(ir chi.Router) {
			ir.Get("/", getAnimalHandler(svc))
			ir.Patch("/", updateAnimalHandler(svc))
			ir.Delete("/", deleteAnimalHandler(svc))

			ir.Put("/parents/{role}", setParentHandler(svc))
			ir.Get("/family", familyHandler(svc))
		})
	})

	// Animales agregados de todos los miembros del grupo.
	r.Get("/groups/{groupID}/animals", listGroupAnimalsHandler(svc))
}

type createAnimalRequest struct {
	OwnerID     string `json:"owner_id"` // opcional: alta delegada
	EarTag      string `json:"ear_tag"`
	Kind        Kind   `json:"kind"`
	Coat        string `json:"coat"`
	Sex         Sex    `json:"sex"`
	Breed       string `json:"breed"`
	BirthDate   string `json:"birth_date"` // YYYY-MM-DD opcional
	MotherID    string `json:"mother_id"`
	FatherID    string `json:"father_id"`
	Description string `json:"description"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	EarTag      *string `json:"ear_tag"`
	Kind        *Kind   `json:"kind"`
	Coat        *string `json:"coat"`
	Breed       *string `json:"breed"`
	BirthDate   *string `json:"birth_date"` // YYYY-MM-DD
	Description *string `json:"description"`
}

type setParentRequest struct {
	// ParentID vacío o null = limpiar la arista.
	ParentID string `json:"parent_id"`
}

type animalResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	EarTag      string     `json:"ear_tag"`
	Kind        Kind       `json:"kind"`
	Coat        string     `json:"coat"`
	Sex         Sex        `json:"sex"`
	Breed       string     `json:"breed"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	MotherID    string     `json:"mother_id,omitempty"`
	FatherID    string     `json:"father_id,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type animalPageResponse struct {
	Items []animalResponse `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type familyResponse struct {
	Animal   animalResponse   `json:"animal"`
	Mother   *animalResponse  `json:"mother"`
	Father   *animalResponse  `json:"father"`
	Children []animalResponse `json:"children"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Registra un animal. Con owner_id de otro usuario es un alta delegada: exige ser Propietario o Administrador en algún grupo compartido con ese dueño.
// @Tags animals
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body createAnimalRequest true "Datos del animal"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "sin atribución sobre ese dueño"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, ok := parseDate(req.BirthDate)
		if !ok {
			http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			OwnerID:     req.OwnerID,
			EarTag:      req.EarTag,
			Kind:        req.Kind,
			Coat:        req.Coat,
			Sex:         req.Sex,
			Breed:       req.Breed,
			BirthDate:   bd,
			MotherID:    req.MotherID,
			FatherID:    req.FatherID,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p := parsePage(r)
		items, total, err := svc.ListForUser(r.Context(), claims.UserID, p)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(items, total, p))
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Authorize(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if req.BirthDate != nil {
			t, ok := parseDate(*req.BirthDate)
			if !ok || t == nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = t
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, UpdateInput{
			EarTag:      req.EarTag,
			Kind:        req.Kind,
			Coat:        req.Coat,
			Breed:       req.Breed,
			BirthDate:   bd,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "animalID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// setParentHandler godoc
// @Summary Asignar o limpiar madre/padre
// @Description Fija la arista de parentesco del animal. role es mother o father; la madre debe ser hembra y el padre macho. parent_id vacío limpia la arista. Un ciclo de ancestría se rechaza con 409.
// @Tags animals
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param animalID path string true "ID del animal"
// @Param role path string true "mother | father"
// @Param payload body setParentRequest true "ID del progenitor (vacío = limpiar)"
// @Success 200 {object} animalResponse
// @Failure 403 {string} string "sexo incompatible / animal ajeno"
// @Failure 404 {string} string "animal o progenitor inexistente"
// @Failure 409 {string} string "ciclo de ancestría"
// @Router /animals/{animalID}/parents/{role} [put]
func setParentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		role := ParentRole(chi.URLParam(r, "role"))
		if !role.Valid() {
			http.Error(w, "role must be mother or father", http.StatusBadRequest)
			return
		}

		var req setParentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.SetParent(r.Context(), chi.URLParam(r, "animalID"), role, req.ParentID, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func familyHandler(svc *Service) http.HandlerFunc {
	// Padres colgantes se toleran: la familia vuelve con ese lado en null.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := svc.Family(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := familyResponse{
			Animal:   toAnimalResponse(f.Animal),
			Children: make([]animalResponse, 0, len(f.Children)),
		}
		if f.Mother != nil {
			m := toAnimalResponse(*f.Mother)
			resp.Mother = &m
		}
		if f.Father != nil {
			fa := toAnimalResponse(*f.Father)
			resp.Father = &fa
		}
		for _, c := range f.Children {
			resp.Children = append(resp.Children, toAnimalResponse(c))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func listGroupAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p := parsePage(r)
		items, total, err := svc.ListForGroup(r.Context(), chi.URLParam(r, "groupID"), claims.UserID, p)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPageResponse(items, total, p))
	}
}

func parsePage(r *http.Request) Page {
	p := Page{}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		p.Limit = v
	}
	return p
}

// parseDate acepta vacío (nil) o YYYY-MM-DD.
func parseDate(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func toPageResponse(items []Animal, total int, p Page) animalPageResponse {
	out := make([]animalResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnimalResponse(a))
	}
	p = p.normalize()
	return animalPageResponse{
		Items: out,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		EarTag:      a.EarTag,
		Kind:        a.Kind,
		Coat:        a.Coat,
		Sex:         a.Sex,
		Breed:       a.Breed,
		BirthDate:   a.BirthDate,
		MotherID:    a.MotherID,
		FatherID:    a.FatherID,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
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
