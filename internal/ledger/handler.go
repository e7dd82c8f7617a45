package ledger

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/millbooks-erp/millbooks/internal/export"
	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/platform/httpx"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Handler exposes ledger queries.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledger", h.getLedger)
}

type ledgerQuery struct {
	Type  string `validate:"required,oneof=customer supplier"`
	Party string `validate:"max=256"`
	From  string `validate:"omitempty,datetime=2006-01-02"`
	To    string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) getLedger(w http.ResponseWriter, r *http.Request) {
	q := ledgerQuery{
		Type:  r.URL.Query().Get("type"),
		Party: r.URL.Query().Get("party"),
		From:  r.URL.Query().Get("from"),
		To:    r.URL.Query().Get("to"),
	}
	if err := h.validate.Struct(q); err != nil {
		httpx.RespondError(w, shared.Validationf("%v", err))
		return
	}

	partyType, err := party.ParseType(q.Type)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dr, err := shared.ParseDateRange(q.From, q.To)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	led, err := h.service.BuildLedger(r.Context(), partyType, q.Party, dr)
	if err != nil {
		h.logger.Error("build ledger", slog.Any("error", err),
			slog.String("type", q.Type), slog.String("party", q.Party))
		httpx.RespondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" || strings.Contains(r.Header.Get("Accept"), "text/csv") {
		rows := make([]export.LedgerRow, 0, len(led.Entries))
		for _, e := range led.Entries {
			rows = append(rows, export.LedgerRow{
				Date:    e.Date,
				Kind:    string(e.Kind),
				Ref:     e.Ref,
				Detail:  e.Detail,
				Qty:     e.Qty,
				Weight:  e.Weight,
				Debit:   e.Debit,
				Credit:  e.Credit,
				Balance: e.Balance,
			})
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
		if err := export.WriteLedgerCSV(w, led.OpeningBalance, rows); err != nil {
			h.logger.Error("ledger csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, led)
}
