package vehicleshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dms/internal/domain/audit"
	"dms/internal/domain/vehicle"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	"dms/internal/transport/http/middleware"
	"dms/internal/transport/http/shared"
)

type Handler struct {
	Service *vehicle.Service
	Audit   *audit.Service
}

func NewHandler(service *vehicle.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

type purchaseRequest struct {
	VIN           string  `json:"vin"`
	Make          string  `json:"make"`
	Model         string  `json:"model"`
	Year          int     `json:"year"`
	PurchasePrice float64 `json:"purchasePrice"`
	PurchaseDate  string  `json:"purchaseDate"`
}

func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	var payload purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := vehicle.Vehicle{
		VIN:           payload.VIN,
		Make:          payload.Make,
		Model:         payload.Model,
		Year:          payload.Year,
		PurchasePrice: payload.PurchasePrice,
	}
	if payload.PurchaseDate != "" {
		parsed, err := shared.ParseDate(payload.PurchaseDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "purchaseDate must be YYYY-MM-DD", reqID)
			return
		}
		v.PurchaseDate = parsed
	}

	id, err := h.Service.Purchase(r.Context(), v)
	if errors.Is(err, vehicle.ErrDuplicateVIN) {
		api.Fail(w, http.StatusConflict, "duplicate_vin", "vin already registered", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_vehicle", err.Error(), reqID)
		return
	}

	h.recordAudit(r, "vehicle.purchase", id, nil, v)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	vehicles, err := h.Service.List(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("make"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list vehicles", reqID)
		return
	}
	api.Success(w, map[string]any{"items": vehicles}, reqID)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	v, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, vehicle.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "vehicle not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_error", "failed to load vehicle", reqID)
		return
	}
	api.Success(w, v, reqID)
}

func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "vehicle.book", h.Service.Book)
}

func (h *Handler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "vehicle.booking_cancel", h.Service.CancelBooking)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, vehicleID string) error) {
	reqID := requestctx.GetRequestID(r.Context())
	vehicleID := chi.URLParam(r, "id")

	err := fn(r.Context(), vehicleID)
	switch {
	case errors.Is(err, vehicle.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "vehicle not found", reqID)
		return
	case errors.Is(err, vehicle.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "transition_error", "failed to update vehicle", reqID)
		return
	}

	h.recordAudit(r, action, vehicleID, nil, nil)
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

type sellRequest struct {
	SalePrice float64 `json:"salePrice"`
	SaleDate  string  `json:"saleDate"`
	BuyerName string  `json:"buyerName"`
}

func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	vehicleID := chi.URLParam(r, "id")

	var payload sellRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	saleDate, err := shared.ParseDate(payload.SaleDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "saleDate must be YYYY-MM-DD", reqID)
		return
	}

	result, err := h.Service.Sell(r.Context(), vehicleID, payload.SalePrice, saleDate, payload.BuyerName)
	switch {
	case errors.Is(err, vehicle.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "vehicle not found", reqID)
		return
	case errors.Is(err, vehicle.ErrAlreadySold):
		api.Fail(w, http.StatusConflict, "already_sold", "vehicle already sold", reqID)
		return
	case errors.Is(err, vehicle.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusBadRequest, "sell_error", err.Error(), reqID)
		return
	}

	h.recordAudit(r, "vehicle.sell", vehicleID, nil, result)
	api.Success(w, result, reqID)
}

type maintenanceRequest struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

func (h *Handler) HandleOpenMaintenance(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	vehicleID := chi.URLParam(r, "id")

	var payload maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Service.OpenMaintenance(r.Context(), vehicleID, payload.Description, payload.Cost)
	switch {
	case errors.Is(err, vehicle.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "vehicle not found", reqID)
		return
	case errors.Is(err, vehicle.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusBadRequest, "maintenance_error", err.Error(), reqID)
		return
	}

	h.recordAudit(r, "vehicle.maintenance_open", vehicleID, nil, payload)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleCloseMaintenance(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	jobID := chi.URLParam(r, "jobID")

	payload := maintenanceRequest{Cost: -1}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
			return
		}
	}

	err := h.Service.CloseMaintenance(r.Context(), jobID, payload.Cost)
	switch {
	case errors.Is(err, vehicle.ErrJobNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "maintenance job not found", reqID)
		return
	case errors.Is(err, vehicle.ErrJobClosed):
		api.Fail(w, http.StatusConflict, "job_closed", "maintenance job already closed", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "maintenance_error", "failed to close job", reqID)
		return
	}

	h.recordAudit(r, "vehicle.maintenance_close", jobID, nil, nil)
	api.Success(w, map[string]string{"status": "closed"}, reqID)
}

func (h *Handler) HandleListMaintenance(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	jobs, err := h.Service.MaintenanceJobs(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, vehicle.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "vehicle not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list maintenance jobs", reqID)
		return
	}
	api.Success(w, map[string]any{"items": jobs}, reqID)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	_ = h.Audit.Record(r.Context(), actor, action, "vehicle", entityID, requestctx.GetRequestID(r.Context()), r.RemoteAddr, before, after)
}
