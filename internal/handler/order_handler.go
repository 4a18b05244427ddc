package handler

import (
	"encoding/json"
	"net/http"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/httpx"
	"plantcare-be/internal/middleware"
	"plantcare-be/internal/order"
	"plantcare-be/internal/user"
	"plantcare-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

// OrderHandler serves the customer-facing booking operations.
type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListMine)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/cancel", h.Cancel)
	return r
}

type createOrderResponse struct {
	OrderID uint `json:"order_id"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var input order.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}

	orderID, err := h.orders.Create(r.Context(), userID, input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	middleware.IncOrdersCreated()
	httpx.Created(w, createOrderResponse{OrderID: orderID})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orderID, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	if err := h.orders.Cancel(r.Context(), userID, orderID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, map[string]string{"status": string(order.StatusCancelled)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orderID, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	isAdmin := utils.GetUserRoleFromContext(r.Context()) == string(user.RoleAdmin)
	o, err := h.orders.Get(r.Context(), userID, isAdmin, orderID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, o)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	orders, err := h.orders.ListMine(r.Context(), userID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, orders)
}
