package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"school/internal/config"
	"school/internal/domain"
	"school/internal/events"
	"school/internal/httpx"
	"school/internal/observability/metrics"
	obsmw "school/internal/observability/middleware"
)

const bearerPrefix = "Bearer "

type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

type PrincipalLoader interface {
	Principal(ctx context.Context, userID domain.UserID) (*domain.Principal, error)
}

// Gate admits requests that carry the token of an active session. Paths in
// the public set skip it entirely; the login path is always in that set.
type Gate struct {
	sessions   SessionAuthenticator
	principals PrincipalLoader
	public     map[string]struct{}
	logger     *slog.Logger
}

func NewGate(sessions SessionAuthenticator, principals PrincipalLoader, publicPaths []string, logger *slog.Logger) *Gate {
	public := make(map[string]struct{}, len(publicPaths)+1)
	public[config.LoginPath] = struct{}{}
	for _, p := range publicPaths {
		if p = strings.TrimSpace(p); p != "" {
			public[p] = struct{}{}
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{sessions: sessions, principals: principals, public: public, logger: logger}
}

// BearerToken pulls the token out of an Authorization header value. The
// "Bearer " prefix is optional; a bare token is accepted as is.
func BearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := g.public[r.URL.Path]; ok {
			metrics.GateDecisionsTotal.WithLabelValues("bypass").Inc()
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		reqID := obsmw.RequestIDFromContext(ctx)
		traceID := obsmw.TraceIDFromContext(ctx)

		token := BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			g.deny(w, "missing_token")
			g.logger.WarnContext(ctx, "gate rejected request", "reason", "missing token", "path", r.URL.Path, "request_id", reqID, "trace_id", traceID)
			return
		}

		session, err := g.sessions.Authenticate(ctx, token)
		if errors.Is(err, domain.ErrUnauthenticated) {
			g.deny(w, "invalid_token")
			g.logger.WarnContext(ctx, "gate rejected request", "reason", "unknown or inactive session", "token_prefix", events.TokenPrefix(token), "path", r.URL.Path, "request_id", reqID, "trace_id", traceID)
			return
		}
		if err != nil {
			g.fail(ctx, w, err, reqID, traceID)
			return
		}

		principal, err := g.principals.Principal(ctx, session.UserID)
		if errors.Is(err, domain.ErrUserNotFound) {
			g.deny(w, "unknown_user")
			g.logger.WarnContext(ctx, "gate rejected request", "reason", "session owner missing", "user_id", session.UserID, "request_id", reqID, "trace_id", traceID)
			return
		}
		if err != nil {
			g.fail(ctx, w, err, reqID, traceID)
			return
		}

		metrics.GateDecisionsTotal.WithLabelValues("allow").Inc()
		ctx = WithPrincipal(ctx, principal)
		ctx = WithSessionToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) deny(w http.ResponseWriter, reason string) {
	metrics.GateDecisionsTotal.WithLabelValues(reason).Inc()
	httpx.WriteError(w, http.StatusUnauthorized, "", domain.ErrUnauthenticated.Error())
}

func (g *Gate) fail(ctx context.Context, w http.ResponseWriter, err error, reqID, traceID string) {
	metrics.GateDecisionsTotal.WithLabelValues("error").Inc()
	g.logger.ErrorContext(ctx, "gate lookup failed", "error", err, "request_id", reqID, "trace_id", traceID)
	httpx.WriteError(w, http.StatusInternalServerError, "", "internal error")
}
