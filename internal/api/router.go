package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Fantasim/balanceapi/internal/api/handlers"
	"github.com/Fantasim/balanceapi/internal/api/middleware"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options carries the values the routes need besides the service.
type Options struct {
	TokenAddress     string
	BatchConcurrency int
}

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(svc handlers.BalanceService, opts Options) chi.Router {
	r := chi.NewRouter()

	// Middleware stack (order matters)
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.Recover)

	slog.Info("router initialized",
		"middleware", []string{"requestID", "requestLogging", "recover"},
	)

	r.Get("/health", handlers.HealthHandler(opts.TokenAddress, Version, opts.BatchConcurrency))
	r.Get("/get_balance/{address}", handlers.GetBalance(svc))
	r.Post("/get_balance_batch", handlers.GetBalanceBatch(svc))

	return r
}
