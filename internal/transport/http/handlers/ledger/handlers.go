package ledgerhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dms/internal/domain/audit"
	"dms/internal/domain/ledger"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	"dms/internal/transport/http/middleware"
	"dms/internal/transport/http/shared"
)

type Handler struct {
	Service *ledger.Service
	Audit   *audit.Service
}

func NewHandler(service *ledger.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

type transactionRequest struct {
	EmployeeID   string  `json:"employeeId"`
	Date         string  `json:"date"`
	Kind         string  `json:"kind"`
	Amount       float64 `json:"amount"`
	Remarks      string  `json:"remarks"`
	Installments int     `json:"installments"`
	RepaysID     string  `json:"repaysTransactionId"`
}

func (h *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	var payload transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Positive("amount", payload.Amount, "must be positive")
	t := ledger.Transaction{
		EmployeeID:   payload.EmployeeID,
		Kind:         payload.Kind,
		Amount:       payload.Amount,
		Remarks:      payload.Remarks,
		Installments: payload.Installments,
		RepaysID:     payload.RepaysID,
	}
	if parsed, ok := v.Date("date", payload.Date); ok {
		t.Date = parsed
	}
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.Append(r.Context(), t)
	switch {
	case errors.Is(err, ledger.ErrUnknownAdvance):
		api.Fail(w, http.StatusBadRequest, "unknown_advance", "repaysTransactionId does not exist", reqID)
		return
	case errors.Is(err, ledger.ErrNotAnAdvance):
		api.Fail(w, http.StatusBadRequest, "not_an_advance", "repaysTransactionId must reference an advance", reqID)
		return
	case errors.Is(err, ledger.ErrWrongEmployee):
		api.Fail(w, http.StatusBadRequest, "wrong_employee", "referenced advance belongs to another employee", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusBadRequest, "invalid_transaction", err.Error(), reqID)
		return
	}

	h.recordAudit(r, "ledger.append", id, nil, t)
	api.Created(w, map[string]string{"id": id}, reqID)
}

// HandleHistory lists the employee's ledger, full by default or narrowed to
// a window when both from and to query parameters are given.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")

	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")

	var transactions []ledger.Transaction
	var err error
	if fromRaw != "" || toRaw != "" {
		from, ferr := shared.ParseDate(fromRaw)
		to, terr := shared.ParseDate(toRaw)
		if ferr != nil || terr != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_range", "from and to must be YYYY-MM-DD", reqID)
			return
		}
		if to.IsZero() {
			to = time.Now()
		}
		transactions, err = h.Service.HistoryBetween(r.Context(), employeeID, from, to)
	} else {
		transactions, err = h.Service.History(r.Context(), employeeID)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list transactions", reqID)
		return
	}
	api.Success(w, map[string]any{"items": transactions}, reqID)
}

// HandleAdvanceStatus reports the employee's outstanding advance. No advance
// is an empty state, not an error.
func (h *Handler) HandleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "id")

	summary, ok, err := h.Service.AdvanceStatus(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "status_error", "failed to resolve advance", reqID)
		return
	}
	if !ok {
		api.Success(w, map[string]any{"hasAdvance": false}, reqID)
		return
	}
	api.Success(w, map[string]any{"hasAdvance": true, "advance": summary}, reqID)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	_ = h.Audit.Record(r.Context(), actor, action, "transaction", entityID, requestctx.GetRequestID(r.Context()), r.RemoteAddr, before, after)
}
