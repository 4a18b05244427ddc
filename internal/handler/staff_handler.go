package handler

import (
	"net/http"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/httpx"
	"plantcare-be/internal/income"
	"plantcare-be/internal/order"
	"plantcare-be/internal/task"

	"github.com/go-chi/chi/v5"
)

// StaffHandler serves the task workflow for staff members.
type StaffHandler struct {
	tasks  task.Service
	income income.Service
}

func NewStaffHandler(tasks task.Service, incomeSvc income.Service) *StaffHandler {
	return &StaffHandler{tasks: tasks, income: incomeSvc}
}

func (h *StaffHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/available", h.Available)
	r.Get("/mine", h.Mine)
	r.Get("/history", h.History)
	r.Get("/income", h.Income)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/{action}", h.Advance)
	return r
}

type statusResponse struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

func (h *StaffHandler) Accept(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orderID, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	status, err := h.tasks.Accept(r.Context(), staffID, orderID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, statusResponse{OrderID: orderID, Status: string(status)})
}

func (h *StaffHandler) Advance(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orderID, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	action, ok := order.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		httpx.Error(w, r, apperr.Validation("unknown action"))
		return
	}

	status, err := h.tasks.Advance(r.Context(), staffID, orderID, action)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, statusResponse{OrderID: orderID, Status: string(status)})
}

func (h *StaffHandler) Available(w http.ResponseWriter, r *http.Request) {
	orders, err := h.tasks.Available(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, orders)
}

func (h *StaffHandler) Mine(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	orders, err := h.tasks.Mine(r.Context(), staffID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, orders)
}

func (h *StaffHandler) History(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	orders, err := h.tasks.History(r.Context(), staffID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, orders)
}

func (h *StaffHandler) Income(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	summary, err := h.income.Income(r.Context(), staffID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, summary)
}
