package http

import (
	"log/slog"
	"net/http"
	"time"

	"eventticketing/internal/delivery/http/controllers"
	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/delivery/http/middleware"
	"eventticketing/internal/domain"
	"eventticketing/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds the cross-cutting HTTP settings.
type RouterConfig struct {
	AllowedOrigins []string
	// RateLimit caps requests per client IP per RateWindow on the whole API.
	RateLimit  int
	RateWindow time.Duration
	// AuthRateLimit applies to register and login on top of RateLimit.
	AuthRateLimit int
}

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Event        *controllers.EventController
	Booking      *controllers.BookingController
	Notification *controllers.NotificationController
	Dashboard    *controllers.DashboardController
	Health       *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(cfg RouterConfig, c Controllers, verifier domain.TokenVerifier, authorizer domain.Authorizer,
	m *metrics.Metrics, logger *slog.Logger) http.Handler {
	window := cfg.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	authenticate := middleware.RequireAuth(verifier)
	can := func(resource, action string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(authorizer, logger, resource, action)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(m.Instrument)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimit, window))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONError(w, http.StatusMethodNotAllowed, helpers.ErrCodeBadRequest, "method not allowed")
	})

	r.Get("/health", c.Health.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AuthRateLimit, window))
			r.Post("/register", c.Auth.Register)
			r.Post("/login", c.Auth.Login)
		})
		r.With(authenticate).Get("/me", c.Auth.Me)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/public", c.Event.ListPublic)
		r.Get("/{id}", c.Event.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.With(can(domain.ResourceEvent, domain.ActionListManaged)).Get("/", c.Event.ListManaged)
			r.With(can(domain.ResourceEvent, domain.ActionCreate)).Post("/", c.Event.Create)
			r.With(can(domain.ResourceEvent, domain.ActionUpdate)).Put("/{id}", c.Event.Update)
			r.With(can(domain.ResourceEvent, domain.ActionDelete)).Delete("/{id}", c.Event.Delete)
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(authenticate)
		r.With(can(domain.ResourceBooking, domain.ActionCreate)).Post("/", c.Booking.Create)
		r.With(can(domain.ResourceBooking, domain.ActionList)).Get("/", c.Booking.List)
		r.With(can(domain.ResourceBooking, domain.ActionGet)).Get("/{id}", c.Booking.GetByID)
		r.With(can(domain.ResourceBooking, domain.ActionCancel)).Put("/{id}/cancel", c.Booking.Cancel)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(authenticate)
		r.With(can(domain.ResourceNotification, domain.ActionList)).Get("/", c.Notification.List)
		r.With(can(domain.ResourceNotification, domain.ActionList)).Get("/unread-count", c.Notification.UnreadCount)
		r.With(can(domain.ResourceNotification, domain.ActionRead)).Put("/mark-all-read", c.Notification.MarkAllRead)
		r.With(can(domain.ResourceNotification, domain.ActionRead)).Put("/{id}/read", c.Notification.MarkRead)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticate)
		r.With(can(domain.ResourceDashboard, domain.ActionAdmin)).Get("/summary", c.Dashboard.Admin)
		r.With(can(domain.ResourceDashboard, domain.ActionOrganizer)).Get("/organizer", c.Dashboard.Organizer)
		r.With(can(domain.ResourceDashboard, domain.ActionUser)).Get("/user", c.Dashboard.User)
	})

	return r
}
