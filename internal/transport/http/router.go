// Package http assembles the chi router from the feature handlers and the
// platform middleware chain.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"registrar/internal/audit"
	"registrar/internal/certificate"
	"registrar/internal/company"
	"registrar/internal/dtc"
	"registrar/internal/invitation"
	"registrar/internal/platform/metrics"
	"registrar/internal/platform/middleware"
	"registrar/internal/shareholder"
	"registrar/internal/transaction"
	"registrar/internal/user"
	"registrar/pkg/domain"
)

const requestTimeout = 30 * time.Second

// Deps carries everything the router mounts.
type Deps struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Validator  middleware.JWTValidator
	Revocation middleware.TokenRevocationChecker

	Companies    *company.Handler
	Shareholders *shareholder.Handler
	Certificates *certificate.Handler
	Transactions *transaction.Handler
	DTC          *dtc.Handler
	Invitations  *invitation.Handler
	Users        *user.Handler
	Audit        *audit.Handler

	Health http.HandlerFunc
}

// New builds the full route tree. The management surface sits behind
// RequireAuth plus RequireRole(admin); the invitation token routes are
// reachable by anyone holding a token, with OptionalAuth supplying identity
// when the caller is logged in.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)

	if d.Health != nil {
		r.Get("/healthz", d.Health)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(pub chi.Router) {
		pub.Use(middleware.OptionalAuth(d.Validator, d.Revocation, d.Logger))
		d.Invitations.RegisterPublic(pub)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAuth(d.Validator, d.Revocation, d.Logger))
		admin.Use(middleware.RequireRole(domain.RoleAdmin, d.Logger))

		d.Companies.Register(admin)
		d.Shareholders.Register(admin)
		d.Certificates.Register(admin)
		d.Transactions.Register(admin)
		d.DTC.Register(admin)
		d.Invitations.Register(admin)
		d.Users.Register(admin)
		d.Audit.Register(admin)
	})

	return r
}
