package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dms/internal/domain/auth"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	"dms/internal/transport/http/middleware"
	"dms/internal/transport/http/shared"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleListSessions reports recent sign-ins. The window defaults to the
// last 7 days; ?since=YYYY-MM-DD widens or narrows it.
func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	since := time.Now().AddDate(0, 0, -7)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "since must be YYYY-MM-DD", reqID)
			return
		}
		since = parsed
	}

	sessions, err := h.Store.ListSessionsSince(r.Context(), since)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list sessions", reqID)
		return
	}
	api.Success(w, map[string]any{"items": sessions}, reqID)
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list users", reqID)
		return
	}
	api.Success(w, users, reqID)
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	if len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	v.Enum("role", payload.Role, []string{auth.RoleAdmin, auth.RoleHR, auth.RoleFinance, auth.RoleStaff}, "unknown role")
	v.Required("role", payload.Role, "is required")
	if v.Reject(w, reqID) {
		return
	}

	roleID, err := h.Store.RoleIDByName(r.Context(), strings.ToLower(payload.Role))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", reqID)
		return
	}
	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to create user", reqID)
		return
	}

	id, err := h.Store.CreateUser(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email)), hash, roleID)
	if err != nil {
		api.Fail(w, http.StatusConflict, "create_error", "failed to create user", reqID)
		return
	}

	h.recordAudit(r, "user.create", id, nil, map[string]string{"email": payload.Email, "role": payload.Role})
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	userID := chi.URLParam(r, "id")
	var payload updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	roleID, err := h.Store.RoleIDByName(r.Context(), strings.ToLower(payload.Role))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", reqID)
		return
	}
	if err := h.Store.UpdateUserRole(r.Context(), userID, roleID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update role", reqID)
		return
	}

	h.recordAudit(r, "user.role_change", userID, nil, map[string]string{"role": payload.Role})
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) HandleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	userID := chi.URLParam(r, "id")
	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.Status != auth.UserStatusActive && payload.Status != auth.UserStatusDisabled {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be active or disabled", reqID)
		return
	}

	if err := h.Store.UpdateUserStatus(r.Context(), userID, payload.Status); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update status", reqID)
		return
	}

	h.recordAudit(r, "user.status_change", userID, nil, map[string]string{"status": payload.Status})
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
	_ = h.Audit.Record(r.Context(), actor, action, "user", entityID, requestctx.GetRequestID(r.Context()), r.RemoteAddr, before, after)
}
