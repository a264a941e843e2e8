package http

import (
	"log/slog"
	"net/http"
	"time"

	"school/internal/authz"
	"school/internal/config"
	"school/internal/httpx"
	"school/internal/netutil"
	obsmw "school/internal/observability/middleware"
	"school/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const LogoutPath = "/v1/auth/logout"

type Options struct {
	PublicPaths    []string
	CORSOrigins    []string
	LoginRateLimit int // per client IP per minute; 0 disables
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

func NewRouter(sessions service.SessionService, users service.UserService, children service.ChildService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	h := &handler{sessions: sessions, users: users, children: children, logger: logger}
	gate := authz.NewGate(sessions, users, opts.PublicPaths, logger)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(opts.RequestTimeout))
	r.Use(obsmw.WithMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsOrAll(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: len(opts.CORSOrigins) > 0,
		MaxAge:           300,
	}))

	// every request, routed or not, passes the gate; public paths bypass it
	r.Use(gate.Middleware)

	r.Get(config.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	login := r.With()
	if opts.LoginRateLimit > 0 {
		login = r.With(httprate.Limit(opts.LoginRateLimit, time.Minute,
			httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
				return netutil.ClientIP(r), nil
			}),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				httpx.WriteError(w, http.StatusTooManyRequests, "", "too many login attempts")
			}),
		))
	}
	login.Post(config.LoginPath, h.login)
	r.Post(LogoutPath, h.logout)

	r.Get("/v1/users/{email}", h.getUserByEmail)
	r.Post("/v1/parents", h.addParent)

	r.Route("/v1/children", func(cr chi.Router) {
		cr.Post("/", h.addChild)
		cr.Get("/", h.listChildren)
		cr.Get("/parent/{parentId}", h.listChildrenByParent)
		cr.Get("/{childId}", h.getChild)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	})
	return r
}

func originsOrAll(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}
