package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/millbooks-erp/millbooks/internal/costing"
	"github.com/millbooks-erp/millbooks/internal/ledger"
	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/reports"
	"github.com/millbooks-erp/millbooks/internal/stock"
	"github.com/millbooks-erp/millbooks/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	PartyHandler   *party.Handler
	CostingHandler *costing.Handler
	LedgerHandler  *ledger.Handler
	StockHandler   *stock.Handler
	ReportsHandler *reports.Handler
	JobsHandler    *jobs.Handler
}

// NewRouter constructs the chi.Router with millbooks defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if params.Config != nil {
			r.Use(APIKeyMiddleware(params.Logger, params.Config.APIKeyHash))
		}
		params.PartyHandler.MountRoutes(r)
		params.CostingHandler.MountRoutes(r)
		params.LedgerHandler.MountRoutes(r)
		params.StockHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
