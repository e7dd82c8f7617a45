package costing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/millbooks-erp/millbooks/internal/platform/httpx"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Handler exposes unit cost queries.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers costing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/costing/unit-cost", h.getUnitCost)
	r.Get("/products", h.listProducts)
}

type productView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DefaultCost string `json:"defaultCost"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			ID:          p.ID,
			Name:        p.Name,
			DefaultCost: p.DefaultCost.StringFixed(2),
		})
	}
	httpx.JSON(w, http.StatusOK, views)
}

type unitCostView struct {
	Store    string `json:"store"`
	Product  string `json:"product"`
	Lot      string `json:"lot,omitempty"`
	AsOf     string `json:"asOf"`
	Mode     Mode   `json:"mode"`
	Basis    Basis  `json:"basis"`
	UnitCost string `json:"unitCost"`
}

func (h *Handler) getUnitCost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := ParseMode(q.Get("mode"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	basis, err := ParseBasis(q.Get("basis"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	asOf := time.Now().UTC()
	if raw := q.Get("asOf"); raw != "" {
		asOf, err = time.Parse(shared.DateLayout, raw)
		if err != nil {
			httpx.RespondError(w, shared.Validationf("invalid asOf date %q", raw))
			return
		}
	}

	key := Key{
		Store:   q.Get("store"),
		Product: q.Get("product"),
		Lot:     q.Get("lot"),
		AsOf:    asOf,
	}
	cost, err := h.service.UnitCost(r.Context(), key, mode, basis)
	if err != nil {
		h.logger.Error("unit cost", slog.Any("error", err),
			slog.String("store", key.Store), slog.String("product", key.Product))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, unitCostView{
		Store:    key.Store,
		Product:  key.Product,
		Lot:      key.Lot,
		AsOf:     asOf.Format(shared.DateLayout),
		Mode:     mode,
		Basis:    basis,
		UnitCost: cost.StringFixed(4),
	})
}
