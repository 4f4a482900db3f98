package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/middleware"
)

// TokenIssuer emite el token de sesión para un usuario autenticado.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// DemoBootstrapper garantiza la cuenta demo con su tambo de ejemplo.
type DemoBootstrapper interface {
	EnsureDemo(ctx context.Context) (User, error)
}

func RegisterRoutes(r chi.Router, svc *Service, tokens TokenIssuer, demo DemoBootstrapper) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc, tokens))
		ar.Post("/login", loginHandler(svc, tokens))
		if demo != nil {
			ar.Post("/demo", demoLoginHandler(tokens, demo))
		}
	})

	r.Get("/me", meHandler(svc))
	r.Delete("/me", deleteMeHandler(svc))
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// registerHandler godoc
// @Summary Registrar usuario
// @Description Crea la cuenta y devuelve el token de sesión.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de la cuenta"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "invalid json / datos incompletos"
// @Failure 409 {string} string "email ya registrado"
// @Router /auth/register [post]
func registerHandler(svc *Service, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		token, err := tokens.Issue(u.ID, u.Email)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, sessionResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 401 {string} string "credenciales inválidas"
// @Router /auth/login [post]
func loginHandler(svc *Service, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			writeError(w, err)
			return
		}

		token, err := tokens.Issue(u.ID, u.Email)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	}
}

// demoLoginHandler garantiza la cuenta demo (con animales, grupos y
// campañas de ejemplo) y devuelve su sesión sin pedir credenciales.
func demoLoginHandler(tokens TokenIssuer, demo DemoBootstrapper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := demo.EnsureDemo(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		token, err := tokens.Issue(u.ID, u.Email)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// writeJSON/writeError están duplicados intencionalmente en los handlers
// de distintos módulos para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), faults.HTTPStatus(err))
}
