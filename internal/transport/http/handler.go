package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"school/internal/authz"
	"school/internal/domain"
	"school/internal/dto"
	"school/internal/httpx"
	"school/internal/netutil"
	obsmw "school/internal/observability/middleware"
	"school/internal/service"
	"school/internal/service/impl"

	"github.com/go-chi/chi/v5"
)

type handler struct {
	sessions service.SessionService
	users    service.UserService
	children service.ChildService
	logger   *slog.Logger
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	res, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.logger.WarnContext(r.Context(), "login rejected",
				"client_ip", netutil.ClientIP(r),
				"user_agent", netutil.UserAgent(r),
				"request_id", obsmw.RequestIDFromContext(r.Context()),
			)
		}
		h.writeError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "login succeeded",
		"user_id", res.User.ID,
		"client_ip", netutil.ClientIP(r),
		"request_id", obsmw.RequestIDFromContext(r.Context()),
	)
	httpx.WriteData(w, http.StatusOK, res)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := authz.SessionTokenFrom(r.Context())
	if !ok {
		token = authz.BearerToken(r.Header.Get("Authorization"))
	}
	if err := h.sessions.Logout(r.Context(), token); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, "SUCCESS")
}

func (h *handler) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	res, err := h.users.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}

func (h *handler) addParent(w http.ResponseWriter, r *http.Request) {
	var req dto.AddParentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	res, err := h.users.AddParent(r.Context(), caller(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, res)
}

func (h *handler) addChild(w http.ResponseWriter, r *http.Request) {
	var req dto.AddChildRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	res, err := h.children.AddChild(r.Context(), caller(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, res)
}

func (h *handler) listChildren(w http.ResponseWriter, r *http.Request) {
	res, err := h.children.ListAll(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}

func (h *handler) getChild(w http.ResponseWriter, r *http.Request) {
	res, err := h.children.GetByID(r.Context(), caller(r), strings.TrimSpace(chi.URLParam(r, "childId")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}

func (h *handler) listChildrenByParent(w http.ResponseWriter, r *http.Request) {
	res, err := h.children.ListByParent(r.Context(), caller(r), strings.TrimSpace(chi.URLParam(r, "parentId")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}

func caller(r *http.Request) *domain.Principal {
	p, _ := authz.PrincipalFrom(r.Context())
	return p
}

type errorMapping struct {
	err    error
	status int
	field  string
	msg    string
}

var errorTable = []errorMapping{
	{impl.ErrEmptyCredential, http.StatusBadRequest, "", ""},
	{impl.ErrEmptyToken, http.StatusBadRequest, "token", ""},
	{impl.ErrEmptyEmail, http.StatusBadRequest, "email", ""},
	{impl.ErrEmptyName, http.StatusBadRequest, "name", ""},
	{impl.ErrEmptyPassword, http.StatusBadRequest, "password", ""},
	{impl.ErrPasswordLength, http.StatusBadRequest, "password", ""},
	{impl.ErrInvalidDate, http.StatusBadRequest, "dateOfBirth", ""},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "", ""},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "", ""},
	{domain.ErrForbidden, http.StatusForbidden, "", ""},
	{domain.ErrUserNotFound, http.StatusNotFound, "email", "user not found by provided email"},
	{domain.ErrChildNotFound, http.StatusNotFound, "childId", ""},
	{domain.ErrParentNotFound, http.StatusNotFound, "parentId", ""},
	{domain.ErrEmailTaken, http.StatusConflict, "email", ""},
}

// writeError maps service errors onto statuses. Anything unrecognised is a
// storage or programming fault and is reported as a generic 500.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			msg := m.msg
			if msg == "" {
				msg = m.err.Error()
			}
			httpx.WriteError(w, m.status, m.field, msg)
			return
		}
	}
	h.logger.ErrorContext(r.Context(), "request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", obsmw.RequestIDFromContext(r.Context()),
		"trace_id", obsmw.TraceIDFromContext(r.Context()),
	)
	httpx.WriteError(w, http.StatusInternalServerError, "", "internal error")
}
