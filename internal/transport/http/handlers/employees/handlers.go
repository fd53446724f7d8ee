package employeeshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dms/internal/domain/audit"
	"dms/internal/domain/employee"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	"dms/internal/transport/http/middleware"
	"dms/internal/transport/http/shared"
)

type Handler struct {
	Store *employee.Store
	Audit *audit.Service
}

func NewHandler(store *employee.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

type employeeRequest struct {
	EmployeeNumber string   `json:"employeeNumber"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Department     string   `json:"department"`
	Position       string   `json:"position"`
	BaseSalary     *float64 `json:"baseSalary"`
	Currency       string   `json:"currency"`
	BankAccount    string   `json:"bankAccount"`
	HireDate       string   `json:"hireDate"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	status := r.URL.Query().Get("status")
	department := r.URL.Query().Get("department")

	employees, err := h.Store.List(r.Context(), status, department, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list employees", reqID)
		return
	}
	total, err := h.Store.Count(r.Context(), status, department)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to count employees", reqID)
		return
	}

	api.Success(w, map[string]any{"items": employees, "total": total}, reqID)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	emp, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_error", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeNumber", payload.EmployeeNumber, "is required")
	v.Required("firstName", payload.FirstName, "is required")
	v.Required("lastName", payload.LastName, "is required")
	v.Required("email", payload.Email, "is required")
	if payload.BaseSalary != nil && *payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	var hireDate *time.Time
	if payload.HireDate != "" {
		if parsed, ok := v.Date("hireDate", payload.HireDate); ok {
			hireDate = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	emp := employee.Employee{
		EmployeeNumber: strings.TrimSpace(payload.EmployeeNumber),
		FirstName:      strings.TrimSpace(payload.FirstName),
		LastName:       strings.TrimSpace(payload.LastName),
		Email:          strings.ToLower(strings.TrimSpace(payload.Email)),
		Phone:          payload.Phone,
		Department:     payload.Department,
		Position:       payload.Position,
		BaseSalary:     payload.BaseSalary,
		Currency:       payload.Currency,
		BankAccount:    payload.BankAccount,
		Status:         employee.StatusActive,
	}
	emp.HireDate = hireDate

	id, err := h.Store.Create(r.Context(), emp)
	if errors.Is(err, employee.ErrDuplicateEmail) {
		api.Fail(w, http.StatusConflict, "duplicate_email", "email already registered", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_error", "failed to create employee", reqID)
		return
	}

	h.recordAudit(r, "employee.create", id, nil, emp)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")

	before, err := h.Store.Get(r.Context(), employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_error", "failed to load employee", reqID)
		return
	}

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	updated := *before
	if payload.FirstName != "" {
		updated.FirstName = payload.FirstName
	}
	if payload.LastName != "" {
		updated.LastName = payload.LastName
	}
	if payload.Phone != "" {
		updated.Phone = payload.Phone
	}
	if payload.Department != "" {
		updated.Department = payload.Department
	}
	if payload.Position != "" {
		updated.Position = payload.Position
	}
	if payload.Currency != "" {
		updated.Currency = payload.Currency
	}
	if payload.BaseSalary != nil {
		if *payload.BaseSalary < 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_salary", "baseSalary must not be negative", reqID)
			return
		}
		updated.BaseSalary = payload.BaseSalary
	}
	if payload.BankAccount != "" {
		updated.BankAccount = payload.BankAccount
	}

	if err := h.Store.Update(r.Context(), employeeID, updated); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update employee", reqID)
		return
	}

	h.recordAudit(r, "employee.update", employeeID, before, updated)
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

type statusRequest struct {
	Status  string `json:"status"`
	EndDate string `json:"endDate"`
}

// HandleSetStatus moves an employee between active, on_leave and left.
// Employees are never deleted; left keeps history intact.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")

	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if !employee.ValidStatus(payload.Status) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be active, on_leave or left", reqID)
		return
	}

	before, err := h.Store.Get(r.Context(), employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_error", "failed to load employee", reqID)
		return
	}

	endDate, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be YYYY-MM-DD", reqID)
		return
	}
	var end any
	if !endDate.IsZero() {
		end = endDate
	}
	if err := h.Store.SetStatus(r.Context(), employeeID, payload.Status, end); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update status", reqID)
		return
	}

	h.recordAudit(r, "employee.status_change", employeeID, map[string]string{"status": before.Status}, map[string]string{"status": payload.Status})
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	_ = h.Audit.Record(r.Context(), actor, action, "employee", entityID, requestctx.GetRequestID(r.Context()), r.RemoteAddr, before, after)
}
