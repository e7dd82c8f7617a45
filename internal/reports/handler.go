package reports

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/millbooks-erp/millbooks/internal/export"
	"github.com/millbooks-erp/millbooks/internal/platform/httpx"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Handler exposes the reporting views.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/income-statement", h.getIncomeStatement)
		r.Get("/trial-balance", h.getTrialBalance)
		r.Get("/receivables", h.getReceivables)
		r.Get("/payables", h.getPayables)
		r.Get("/item-profit", h.getItemProfit)
		r.Get("/customer-profit", h.getCustomerProfit)
	})
}

type rangeQuery struct {
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) dateRange(r *http.Request) (shared.DateRange, error) {
	q := rangeQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := h.validate.Struct(q); err != nil {
		return shared.DateRange{}, shared.Validationf("%v", err)
	}
	return shared.ParseDateRange(q.From, q.To)
}

func (h *Handler) asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(shared.DateLayout, raw)
	if err != nil {
		return time.Time{}, shared.Validationf("as_of: want YYYY-MM-DD, got %q", raw)
	}
	return t, nil
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv" ||
		strings.Contains(r.Header.Get("Accept"), "text/csv")
}

func csvHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func (h *Handler) getIncomeStatement(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	f := Filter{
		Store:   r.URL.Query().Get("store"),
		Product: r.URL.Query().Get("product"),
	}
	stmt, err := h.service.IncomeStatement(r.Context(), dr, f)
	if err != nil {
		h.logger.Error("income statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if wantsCSV(r) {
		csvHeaders(w, "income-statement.csv")
		if err := export.WriteIncomeStatementCSV(w, stmt.Revenue, stmt.COGS, stmt.GrossProfit, stmt.NetProfit); err != nil {
			h.logger.Error("income statement csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, stmt)
}

func (h *Handler) getTrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), asOf)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tb)
}

func (h *Handler) getReceivables(w http.ResponseWriter, r *http.Request) {
	h.balances(w, r, "receivables.csv", "Invoiced", "Received", h.service.Receivables)
}

func (h *Handler) getPayables(w http.ResponseWriter, r *http.Request) {
	h.balances(w, r, "payables.csv", "Purchased", "Paid", h.service.Payables)
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request, filename, invoicedHeader, settledHeader string,
	fetch func(ctx context.Context, asOf time.Time, partyQuery string) ([]BalanceRow, error)) {
	asOf, err := h.asOf(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := fetch(r.Context(), asOf, r.URL.Query().Get("party"))
	if err != nil {
		h.logger.Error("party balances", slog.Any("error", err), slog.String("report", filename))
		httpx.RespondError(w, err)
		return
	}
	if wantsCSV(r) {
		out := make([]export.BalanceRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, export.BalanceRow{
				Party:      row.Party,
				Invoiced:   row.Invoiced,
				Settled:    row.Settled,
				BalanceDue: row.BalanceDue,
			})
		}
		csvHeaders(w, filename)
		if err := export.WriteBalancesCSV(w, invoicedHeader, settledHeader, out); err != nil {
			h.logger.Error("balances csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) getItemProfit(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.ItemProfit(r.Context(), dr)
	if err != nil {
		h.logger.Error("item profit", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) getCustomerProfit(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.CustomerProfit(r.Context(), dr)
	if err != nil {
		h.logger.Error("customer profit", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
