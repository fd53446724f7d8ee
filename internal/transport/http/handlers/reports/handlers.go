package reportshandler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dms/internal/domain/reports"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	"dms/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) HandlePayrollRegister(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	if month < 1 || month > 12 || year < 2000 {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month and year query parameters are required", reqID)
		return
	}

	rows, err := h.Service.PayrollRegister(r.Context(), month, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_error", "failed to build payroll register", reqID)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-register-%04d-%02d.csv", year, month))
		writer := csv.NewWriter(w)
		_ = writer.Write([]string{"employee_number", "name", "department", "prorated", "ot_pay", "bonus", "advance", "deductions", "net", "warnings"})
		for _, row := range rows {
			_ = writer.Write([]string{
				row.EmployeeNumber,
				row.Name,
				row.Department,
				money(row.ProratedSalary),
				money(row.OTPay),
				money(row.Bonus),
				money(row.Advance),
				money(row.Deductions),
				money(row.NetSalary),
				strconv.Itoa(row.Warnings),
			})
		}
		writer.Flush()
		return
	}

	api.Success(w, map[string]any{"items": rows}, reqID)
}

func (h *Handler) HandleSalesSummary(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD", reqID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD", reqID)
		return
	}
	if from.IsZero() {
		from = time.Now().AddDate(0, -1, 0)
	}
	if to.IsZero() {
		to = time.Now()
	}

	summary, err := h.Service.SalesSummary(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_error", "failed to build sales summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) HandleHeadcount(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	rows, err := h.Service.Headcount(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_error", "failed to build headcount", reqID)
		return
	}
	api.Success(w, map[string]any{"items": rows}, reqID)
}

func (h *Handler) HandleJobRuns(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.Service.JobRuns(r.Context(), r.URL.Query().Get("jobType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_error", "failed to list job runs", reqID)
		return
	}
	api.Success(w, map[string]any{"items": runs}, reqID)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
