package handler

import (
	"encoding/json"
	"net/http"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/httpx"
	"plantcare-be/internal/plant"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type PlantHandler struct {
	plants   plant.Service
	validate *validator.Validate
}

func NewPlantHandler(plants plant.Service) *PlantHandler {
	return &PlantHandler{plants: plants, validate: validator.New()}
}

func (h *PlantHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	plants, err := h.plants.ListMine(r.Context(), userID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, plants)
}

func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var input plant.CreatePlantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	p, err := h.plants.Create(r.Context(), userID, input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, p)
}

func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	p, err := h.plants.Get(r.Context(), userID, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, p)
}

func (h *PlantHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var input plant.UpdatePlantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	p, err := h.plants.Update(r.Context(), userID, id, input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, p)
}

func (h *PlantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	if err := h.plants.Delete(r.Context(), userID, id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}
