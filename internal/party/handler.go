package party

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/millbooks-erp/millbooks/internal/platform/httpx"
)

// Handler exposes party resolution endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers party routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/parties", h.listParties)
	r.Get("/parties/resolve", h.resolveParty)
}

func (h *Handler) resolveParty(w http.ResponseWriter, r *http.Request) {
	partyType, err := ParseType(r.URL.Query().Get("type"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	res, err := h.service.Resolve(r.Context(), partyType, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("resolve party", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

type partyView struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Person      string `json:"person"`
	Description string `json:"description"`
	Phone       string `json:"phone,omitempty"`
}

func (h *Handler) listParties(w http.ResponseWriter, r *http.Request) {
	partyType, err := ParseType(r.URL.Query().Get("type"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	parties, err := h.service.List(r.Context(), partyType, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("list parties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]partyView, 0, len(parties))
	for _, p := range parties {
		views = append(views, partyView{
			ID:          p.ID,
			Code:        p.Code,
			Person:      p.Person,
			Description: p.Description,
			Phone:       p.Phone,
		})
	}
	httpx.JSON(w, http.StatusOK, views)
}
