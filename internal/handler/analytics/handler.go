package analytics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/nadhirah/mindcare/backend/internal/middleware"
	analyticsService "github.com/nadhirah/mindcare/backend/internal/service/analytics"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

// Handler serves per-user reporting endpoints.
type Handler struct {
	svc *analyticsService.Service
}

// New creates the analytics handler.
func New(svc *analyticsService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterProtectedRoutes mounts the analytics endpoints.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/analytics/overview", h.handleOverview)
	r.Get("/analytics/checkins", h.handleCheckinTrends)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	overview, err := h.svc.Overview(r.Context(), u.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to build overview")
		utils.RespondError(w, http.StatusInternalServerError, "failed to build overview")
		return
	}
	utils.RespondJSON(w, http.StatusOK, overview)
}

func (h *Handler) handleCheckinTrends(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}

	trends, err := h.svc.CheckinTrends(r.Context(), u.ID, days)
	if err != nil {
		logrus.WithError(err).Error("failed to build check-in trends")
		utils.RespondError(w, http.StatusInternalServerError, "failed to build check-in trends")
		return
	}
	utils.RespondJSON(w, http.StatusOK, trends)
}
