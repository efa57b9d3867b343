package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	resourceModel "github.com/nadhirah/mindcare/backend/internal/model/resource"
	"github.com/nadhirah/mindcare/backend/internal/store"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

// Handler serves the public resource list.
type Handler struct {
	store store.Store
}

// New creates the resource handler.
func New(st store.Store) *Handler {
	return &Handler{store: st}
}

// RegisterRoutes mounts the resource endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resources", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Resources(r.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to list resources")
		utils.RespondError(w, http.StatusInternalServerError, "failed to list resources")
		return
	}
	if items == nil {
		items = []resourceModel.Resource{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}
