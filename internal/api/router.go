package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/walleto/walleto/internal/service"
	"github.com/walleto/walleto/internal/store"
	"github.com/walleto/walleto/pkg/httpx"
	"github.com/walleto/walleto/pkg/jwtx"
	"github.com/walleto/walleto/pkg/slogx"
)

// Config wires the router's dependencies.
type Config struct {
	Logger   *slog.Logger
	Verifier jwtx.Verifier
	Auth     *service.AuthService
	Expenses *service.ExpenseService
	Store    store.Store
}

// NewRouter builds the full HTTP handler: routes, per-route rate limits,
// bearer authn on the ledger, and the logging/metrics envelope.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	authH := &AuthHandler{Auth: cfg.Auth}
	expH := &ExpenseHandler{Expenses: cfg.Expenses}
	healthH := &HealthHandler{Store: cfg.Store}

	// Auth endpoints are unauthenticated and brute-forceable, so they get
	// the strict per-IP budget.
	strict := httpx.RateLimitByIP(httpx.StrictLimit)
	moderate := httpx.RateLimitByUser(httpx.ModerateLimit)
	lenient := httpx.RateLimitByIP(httpx.LenientLimit)
	authn := httpx.AuthnMiddleware(cfg.Verifier)

	mux.Handle("POST /v1/auth/register", httpx.Chain(http.HandlerFunc(authH.Register), strict))
	mux.Handle("GET /v1/auth/verify-email/{token}", httpx.Chain(http.HandlerFunc(authH.VerifyEmail), strict))
	mux.Handle("POST /v1/auth/login", httpx.Chain(http.HandlerFunc(authH.Login), strict))
	mux.Handle("POST /v1/auth/forgot-password", httpx.Chain(http.HandlerFunc(authH.ForgotPassword), strict))
	mux.Handle("POST /v1/auth/reset-password/{token}", httpx.Chain(http.HandlerFunc(authH.ResetPassword), strict))

	mux.Handle("GET /v1/expenses", httpx.Chain(http.HandlerFunc(expH.List), authn, moderate))
	mux.Handle("POST /v1/expenses", httpx.Chain(http.HandlerFunc(expH.Create), authn, moderate))
	mux.Handle("GET /v1/expenses/{id}", httpx.Chain(http.HandlerFunc(expH.Get), authn, moderate))
	mux.Handle("PUT /v1/expenses/{id}", httpx.Chain(http.HandlerFunc(expH.Update), authn, moderate))
	mux.Handle("DELETE /v1/expenses/{id}", httpx.Chain(http.HandlerFunc(expH.Delete), authn, moderate))

	mux.Handle("GET /livez", httpx.Chain(http.HandlerFunc(healthH.Livez), lenient))
	mux.Handle("GET /readyz", httpx.Chain(http.HandlerFunc(healthH.Readyz), lenient))
	mux.Handle("GET /metrics", promhttp.Handler())

	return httpx.Chain(mux,
		slogx.HTTPMiddleware(cfg.Logger),
		httpx.MetricsMiddleware(),
	)
}
