package payrollhandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dms/internal/domain/attendance"
	"dms/internal/domain/audit"
	"dms/internal/domain/employee"
	"dms/internal/domain/payroll"
	"dms/internal/platform/jobs"
	"dms/internal/platform/metrics"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	"dms/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service
	Jobs    *jobs.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *payroll.Service, jobsSvc *jobs.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc, Audit: auditSvc, Metrics: collector}
}

func parsePeriod(w http.ResponseWriter, r *http.Request, reqID string) (attendance.Period, bool) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	period, err := attendance.NewPeriod(month, year)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month and year query parameters are required", reqID)
		return attendance.Period{}, false
	}
	return period, true
}

// HandleCompute returns the payroll record for one employee without
// persisting anything. A closed period answers from its snapshot.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")
	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	rec, err := h.Service.ComputeForEmployee(r.Context(), employeeID, period)
	if err != nil {
		failCompute(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

// HandleRun computes and persists payroll for every active employee.
// Failures are reported per employee; the run itself still succeeds.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	// Run through the jobs service so on-demand runs land in job_runs the
	// same way scheduled runs do.
	out, err := h.Jobs.RunNow(r.Context(), payroll.JobPayrollRun, func(ctx context.Context) (any, error) {
		return h.Service.RunPeriod(ctx, period)
	})
	if errors.Is(err, payroll.ErrPeriodClosed) {
		api.Fail(w, http.StatusConflict, "period_closed", "payroll period is closed", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_error", "payroll run failed", reqID)
		return
	}
	result, _ := out.(payroll.BatchResult)

	if h.Metrics != nil {
		h.Metrics.RecordPayrollRun()
	}
	h.recordAudit(r, "payroll.run", period.String(), nil, map[string]int{
		"succeeded": len(result.Records),
		"failed":    len(result.Failures),
	})
	api.Success(w, result, reqID)
}

func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	records, err := h.Service.RecordsForPeriod(r.Context(), period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list payroll records", reqID)
		return
	}
	api.Success(w, map[string]any{"period": period.String(), "items": records}, reqID)
}

func (h *Handler) HandleListPeriods(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	periods, err := h.Service.ListPeriods(r.Context(), 24, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list periods", reqID)
		return
	}
	api.Success(w, periods, reqID)
}

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	err := h.Service.ClosePeriod(r.Context(), period)
	switch {
	case errors.Is(err, payroll.ErrPeriodNotFound):
		api.Fail(w, http.StatusNotFound, "period_not_found", "payroll period has never been run", reqID)
		return
	case errors.Is(err, payroll.ErrCloseNoRecords):
		api.Fail(w, http.StatusConflict, "no_records", "run payroll before closing the period", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "close_error", "failed to close period", reqID)
		return
	}

	h.recordAudit(r, "payroll.close", period.String(), nil, nil)
	api.Success(w, map[string]string{"status": "closed"}, reqID)
}

func (h *Handler) HandleReopen(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	err := h.Service.ReopenPeriod(r.Context(), period)
	if errors.Is(err, payroll.ErrPeriodNotFound) {
		api.Fail(w, http.StatusNotFound, "period_not_found", "payroll period has never been run", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reopen_error", "failed to reopen period", reqID)
		return
	}

	h.recordAudit(r, "payroll.reopen", period.String(), nil, nil)
	api.Success(w, map[string]string{"status": "open"}, reqID)
}

func (h *Handler) HandlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")
	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	pdf, err := h.Service.Payslip(r.Context(), employeeID, period)
	if err != nil {
		failCompute(w, err, reqID)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordPayslip()
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s-%s.pdf", employeeID, period.String()))
	_, _ = w.Write(pdf)
}

func (h *Handler) HandleEmailPayslip(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")
	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	if err := h.Service.EmailPayslip(r.Context(), employeeID, period); err != nil {
		failCompute(w, err, reqID)
		return
	}

	h.recordAudit(r, "payroll.payslip_email", employeeID, nil, map[string]string{"period": period.String()})
	api.Success(w, map[string]string{"status": "sent"}, reqID)
}

func failCompute(w http.ResponseWriter, err error, reqID string) {
	var verr *payroll.ValidationError
	switch {
	case errors.As(err, &verr):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_input", verr.Error(), reqID)
	case errors.Is(err, payroll.ErrMissingSalary):
		api.Fail(w, http.StatusUnprocessableEntity, "missing_salary", "employee has no base salary", reqID)
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, payroll.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "record_not_found", "no payroll record for this period", reqID)
	case errors.Is(err, payroll.ErrPeriodNotFound):
		api.Fail(w, http.StatusNotFound, "period_not_found", "payroll period has never been run", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_error", err.Error(), reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	_ = h.Audit.Record(r.Context(), actor, action, "payroll", entityID, requestctx.GetRequestID(r.Context()), r.RemoteAddr, before, after)
}
