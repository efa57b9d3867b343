package checkin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/nadhirah/mindcare/backend/internal/middleware"
	checkinModel "github.com/nadhirah/mindcare/backend/internal/model/checkin"
	checkinService "github.com/nadhirah/mindcare/backend/internal/service/checkin"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

// Handler serves mood check-in endpoints.
type Handler struct {
	svc *checkinService.Service
}

// New creates the check-in handler.
func New(svc *checkinService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterProtectedRoutes mounts the check-in endpoints.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/checkin", h.handleCreate)
	r.Get("/checkins", h.handleList)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var payload struct {
		Mood        string `json:"mood"`
		StressLevel int    `json:"stress_level"`
		Notes       string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Mood == "" {
		utils.RespondError(w, http.StatusBadRequest, "mood is required")
		return
	}

	ci, err := h.svc.Create(r.Context(), u.ID, payload.Mood, payload.StressLevel, payload.Notes)
	if err != nil {
		if errors.Is(err, checkinService.ErrInvalidStress) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		logrus.WithError(err).Error("failed to create check-in")
		utils.RespondError(w, http.StatusInternalServerError, "failed to create check-in")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": ci.ID})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	items, err := h.svc.List(r.Context(), u.ID, limit)
	if err != nil {
		logrus.WithError(err).Error("failed to list check-ins")
		utils.RespondError(w, http.StatusInternalServerError, "failed to list check-ins")
		return
	}
	if items == nil {
		items = []checkinModel.CheckIn{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}
