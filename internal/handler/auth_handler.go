package handler

import (
	"encoding/json"
	"net/http"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/httpx"
	"plantcare-be/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	users    user.Service
	validate *validator.Validate
}

func NewAuthHandler(users user.Service) *AuthHandler {
	return &AuthHandler{users: users, validate: validator.New()}
}

// Routes returns the public auth routes.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

// ProfileRoutes returns the authenticated self-service routes.
func (h *AuthHandler) ProfileRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Profile)
	r.Put("/", h.UpdateProfile)
	return r
}

type authResponse struct {
	Token string `json:"token"`
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input user.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	token, u, err := h.users.Register(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.Created(w, authResponse{
		Token: token, ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role),
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	token, u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.OK(w, authResponse{
		Token: token, ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role),
	})
}

type profileResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	Role  string  `json:"role"`
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	u, err := h.users.Profile(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.OK(w, profileResponse{
		ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role),
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var input user.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}

	if err := h.users.UpdateProfile(r.Context(), id, input); err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.NoContent(w)
}
