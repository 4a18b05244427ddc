package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"plantcare-be/internal/admin"
	"plantcare-be/internal/apperr"
	"plantcare-be/internal/assignment"
	"plantcare-be/internal/httpx"
	"plantcare-be/internal/order"
	"plantcare-be/internal/voucher"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// AdminHandler serves the oversight surface.
type AdminHandler struct {
	admin       admin.Service
	assignments assignment.Service
	vouchers    voucher.Repository
	validate    *validator.Validate
}

func NewAdminHandler(adminSvc admin.Service, assignmentSvc assignment.Service, voucherRepo voucher.Repository) *AdminHandler {
	return &AdminHandler{
		admin:       adminSvc,
		assignments: assignmentSvc,
		vouchers:    voucherRepo,
		validate:    validator.New(),
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/orders", h.ListOrders)
	r.Put("/orders/{id}/status", h.OverrideStatus)
	r.Post("/orders/{id}/assign", h.Assign)
	r.Delete("/orders/{id}/assign", h.RemoveAssignment)
	r.Get("/stats", h.Stats)
	r.Post("/vouchers", h.CreateVoucher)
	return r
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := &order.Filter{}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := order.ParseStatus(raw)
		if !ok {
			httpx.Error(w, r, apperr.Validation("unknown status: "+raw))
			return
		}
		filter.Status = &status
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			httpx.Error(w, r, apperr.Validation("invalid limit"))
			return
		}
		filter.Limit = int32(n)
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			httpx.Error(w, r, apperr.Validation("invalid page"))
			return
		}
		filter.Page = int32(n)
	}

	orders, err := h.admin.ListOrders(r.Context(), filter)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, orders)
}

type overrideStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var req overrideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	status, err := h.admin.OverrideStatus(r.Context(), orderID, req.Status)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, statusResponse{OrderID: orderID, Status: string(status)})
}

type assignRequest struct {
	StaffID uint `json:"staff_id" validate:"required"`
}

func (h *AdminHandler) Assign(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	if err := h.assignments.Assign(r.Context(), orderID, req.StaffID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *AdminHandler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}

	if err := h.assignments.Remove(r.Context(), orderID, req.StaffID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.DashboardStats(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, stats)
}

func (h *AdminHandler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	var input voucher.CreateVoucherInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.Error(w, r, apperr.Validation(err.Error()))
		return
	}

	v := &voucher.Voucher{
		Code:      input.Code,
		UserID:    input.UserID,
		Percent:   input.Percent,
		ExpiresAt: input.ExpiresAt,
	}
	if err := h.vouchers.Create(r.Context(), v); err != nil {
		httpx.Error(w, r, apperr.Persistence(err))
		return
	}
	httpx.Created(w, v)
}
