package artwork

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lordsmuseum/ally/backend/internal/model/artwork"
	"github.com/lordsmuseum/ally/backend/pkg/utils"
)

// Handler serves the static artwork catalog, including the map coordinates
// the floor-plan view places its pins with.
type Handler struct {
	artworks artwork.Store
}

// New creates the catalog handler.
func New(artworks artwork.Store) *Handler {
	return &Handler{artworks: artworks}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/artworks", h.handleList)
	r.Get("/artworks/{artworkID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.artworks.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, ok := h.artworks.FindByID(chi.URLParam(r, "artworkID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "artwork not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
