// Package httpapi exposes the REST surface over chi and the gRPC health service.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"drimer.pl/drimain/internal/audit"
	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/obs"
	"drimer.pl/drimain/internal/org"
	"drimer.pl/drimain/internal/schedule"
	"drimer.pl/drimain/internal/ticket"
)

const serviceName = "drimain"

// ReadyProbe pings the database when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

type readinessChecker interface {
	Check(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer delegates to.
type Deps struct {
	Auth      *auth.Authenticator
	Users     auth.UserStore
	Tickets   *ticket.Service
	Schedules *schedule.Service
	Org       *org.Service
	Ready     readinessChecker
	Logger    *zap.Logger
	Audit     *audit.Logger
	Version   string
}

// Options tune the HTTP surface.
type Options struct {
	CookieEnabled bool
	CookieSecure  bool
	LoginRate     float64
	LoginBurst    int
	MaxBodyBytes  int64
	CORSOrigins   []string
	// TrustedProxies are the peers whose X-Forwarded-For is believed.
	TrustedProxies []netip.Prefix
}

// API is the HTTP layer.
type API struct {
	auth      *auth.Authenticator
	users     auth.UserStore
	tickets   *ticket.Service
	schedules *schedule.Service
	org       *org.Service
	ready     readinessChecker
	log       *zap.Logger
	audit     *audit.Logger
	version   string
	opts      Options
	router    chi.Router
}

func New(d Deps, opts Options) *API {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Audit == nil {
		d.Audit = audit.New(d.Logger)
	}
	if d.Ready == nil {
		d.Ready = ReadyProbe{}
	}
	if opts.LoginRate <= 0 {
		opts.LoginRate = 1
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 10
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	a := &API{
		auth:      d.Auth,
		users:     d.Users,
		tickets:   d.Tickets,
		schedules: d.Schedules,
		org:       d.Org,
		ready:     d.Ready,
		log:       d.Logger,
		audit:     d.Audit,
		version:   d.Version,
		opts:      opts,
	}
	a.router = a.routes()
	return a
}

func (a *API) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		RequestID,
		RealIP(a.opts.TrustedProxies),
		Recover(a.log),
		LoggingJSON(a.log),
		obs.Instrument,
		SecurityHeaders,
		CORS(a.opts.CORSOrigins),
		MaxBodyBytes(a.opts.MaxBodyBytes),
	)
	r.NotFound(a.notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "", "method not allowed")
	})

	r.Get("/healthz", a.Healthz)
	r.Get("/readyz", a.Ready)
	r.Handle("/metrics", obs.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(RateLimitMiddleware(a.opts.LoginBurst, a.opts.LoginRate)).Post("/login", a.handleLogin)
			r.Get("/me", a.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(a.authenticate)

			r.Route("/zgloszenia", func(r chi.Router) {
				r.Get("/", a.listTickets)
				r.Post("/", a.createTicket)
				r.Get("/{id}", a.getTicket)
				r.Put("/{id}", a.updateTicket)
				r.Delete("/{id}", a.deleteTicket)
			})

			r.Route("/harmonogramy", func(r chi.Router) {
				r.Get("/", a.listSchedules)
				r.Post("/", a.createSchedule)
				r.Get("/{id}", a.getSchedule)
				r.Put("/{id}", a.updateSchedule)
				r.Delete("/{id}", a.deleteSchedule)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(a.requireRoles(auth.RoleAdmin))
				a.adminRoutes(r)
			})
		})
	})
	return r
}

// Handler returns the root http.Handler.
func (a *API) Handler() http.Handler {
	return a.router
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.ready.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// notFound requires a session outside /api and the public paths, so page
// requests without one are redirected to /login.
func (a *API) notFound(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) || isPublicPath(r.URL.Path) {
		writeError(w, r, http.StatusNotFound, "", "no route for "+r.URL.Path)
		return
	}
	a.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "", "no route for "+r.URL.Path)
	})).ServeHTTP(w, r)
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
