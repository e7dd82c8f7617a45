package stock

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/millbooks-erp/millbooks/internal/export"
	"github.com/millbooks-erp/millbooks/internal/platform/httpx"
)

// Handler exposes reconciled stock queries.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock", h.getStoreStock)
	r.Get("/stores", h.listStores)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.Stores(r.Context())
	if err != nil {
		h.logger.Error("list stores", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stores)
}

func (h *Handler) getStoreStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.StoreStock(r.Context(), r.URL.Query().Get("store"))
	if err != nil {
		h.logger.Error("store stock", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" || strings.Contains(r.Header.Get("Accept"), "text/csv") {
		records := make([]export.StockRow, 0, len(rows))
		for _, row := range rows {
			records = append(records, export.StockRow{
				Store:         row.Store,
				Product:       row.Product,
				Lot:           row.Lot,
				PurchasedQty:  row.PurchasedQty,
				SoldQty:       row.SoldQty,
				ProducedQty:   row.ProducedQty,
				ConsumedQty:   row.ConsumedQty,
				CurrentQty:    row.CurrentQty,
				CurrentWeight: row.CurrentWeight,
				Source:        string(row.Source),
			})
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="stock.csv"`)
		if err := export.WriteStockCSV(w, records); err != nil {
			h.logger.Error("stock csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
