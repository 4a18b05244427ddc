package handler

import (
	"encoding/json"
	"net/http"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/catalog"
	"plantcare-be/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type CatalogHandler struct {
	services catalog.Service
	validate *validator.Validate
}

func NewCatalogHandler(services catalog.Service) *CatalogHandler {
	return &CatalogHandler{services: services, validate: validator.New()}
}

// Routes returns the public, read-only catalog routes.
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	return r
}

// AdminRoutes returns the catalog management routes.
func (h *CatalogHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Deactivate)
	return r
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context(), true)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, services)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	svc, err := h.services.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, svc)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input catalog.CreateServiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	svc, err := h.services.Create(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, svc)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var input catalog.UpdateServiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	svc, err := h.services.Update(r.Context(), id, input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, svc)
}

func (h *CatalogHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	if err := h.services.Deactivate(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}
