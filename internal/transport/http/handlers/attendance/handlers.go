package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dms/internal/domain/attendance"
	"dms/internal/domain/audit"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	"dms/internal/transport/http/middleware"
	"dms/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

type entryRequest struct {
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	InTime     string  `json:"inTime"`
	OutTime    string  `json:"outTime"`
	OTHours    float64 `json:"otHours"`
	Remarks    string  `json:"remarks"`
}

func (req entryRequest) toRecord(v *shared.Validator) attendance.Record {
	rec := attendance.Record{
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
		InTime:     req.InTime,
		OutTime:    req.OutTime,
		OTHours:    req.OTHours,
		Remarks:    req.Remarks,
	}
	if parsed, ok := v.Date("date", req.Date); ok {
		rec.Date = parsed
	}
	return rec
}

func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	var payload entryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	rec := payload.toRecord(v)
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.Record(r.Context(), rec)
	if errors.Is(err, attendance.ErrPeriodClosed) {
		api.Fail(w, http.StatusConflict, "period_closed", "payroll period for this date is closed", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_record", err.Error(), reqID)
		return
	}

	h.recordAudit(r, "attendance.record", rec.EmployeeID, nil, rec)
	api.Created(w, map[string]string{"id": id}, reqID)
}

type importRequest struct {
	Entries []entryRequest `json:"entries"`
}

// HandleImport takes a whole batch, typically a month of rows from the
// attendance device export. Any bad row rejects the batch.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	var payload importRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if len(payload.Entries) == 0 {
		api.Fail(w, http.StatusBadRequest, "empty_batch", "entries must not be empty", reqID)
		return
	}

	records := make([]attendance.Record, 0, len(payload.Entries))
	v := shared.NewValidator()
	for _, entry := range payload.Entries {
		records = append(records, entry.toRecord(v))
	}
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Service.Import(r.Context(), records); err != nil {
		if errors.Is(err, attendance.ErrPeriodClosed) {
			api.Fail(w, http.StatusConflict, "period_closed", err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_batch", err.Error(), reqID)
		return
	}

	h.recordAudit(r, "attendance.import", "", nil, map[string]int{"rows": len(records)})
	api.Success(w, map[string]int{"imported": len(records)}, reqID)
}

func (h *Handler) HandleListForPeriod(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")

	period, ok := parsePeriod(w, r, reqID)
	if !ok {
		return
	}

	records, err := h.Service.ListForPeriod(r.Context(), employeeID, period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list attendance", reqID)
		return
	}
	api.Success(w, map[string]any{"period": period.String(), "items": records}, reqID)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")

	day, err := shared.ParseDate(r.URL.Query().Get("date"))
	if err != nil || day.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date query parameter must be YYYY-MM-DD", reqID)
		return
	}

	if err := h.Service.Delete(r.Context(), employeeID, day); err != nil {
		if errors.Is(err, attendance.ErrPeriodClosed) {
			api.Fail(w, http.StatusConflict, "period_closed", "payroll period for this date is closed", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "delete_error", "failed to delete attendance", reqID)
		return
	}

	h.recordAudit(r, "attendance.delete", employeeID, map[string]string{"date": day.Format("2006-01-02")}, nil)
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
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

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	_ = h.Audit.Record(r.Context(), actor, action, "attendance", entityID, requestctx.GetRequestID(r.Context()), r.RemoteAddr, before, after)
}
