package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/nadhirah/mindcare/backend/internal/middleware"
	bookingModel "github.com/nadhirah/mindcare/backend/internal/model/booking"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
	bookingService "github.com/nadhirah/mindcare/backend/internal/service/booking"
	"github.com/nadhirah/mindcare/backend/internal/store"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

// Handler serves counselor discovery and booking endpoints.
type Handler struct {
	svc *bookingService.Service
}

// New creates the booking handler.
func New(svc *bookingService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public counselor endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/counselors", h.handleCounselors)
	r.Get("/counselors/{counselorID}/slots", h.handleSlots)
}

// RegisterProtectedRoutes mounts the booking endpoints.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/bookings", h.handleBook)
	r.Get("/bookings/my", h.handleMyBookings)
}

func (h *Handler) handleCounselors(w http.ResponseWriter, r *http.Request) {
	counselors, err := h.svc.Counselors(r.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to list counselors")
		utils.RespondError(w, http.StatusInternalServerError, "failed to list counselors")
		return
	}
	if counselors == nil {
		counselors = []bookingModel.Counselor{}
	}
	utils.RespondJSON(w, http.StatusOK, counselors)
}

func (h *Handler) handleSlots(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}

	slots, err := h.svc.Slots(r.Context(), chi.URLParam(r, "counselorID"), days)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "counselor not found")
			return
		}
		logrus.WithError(err).Error("failed to list slots")
		utils.RespondError(w, http.StatusInternalServerError, "failed to list slots")
		return
	}
	if slots == nil {
		slots = []bookingModel.AvailabilitySlot{}
	}
	utils.RespondJSON(w, http.StatusOK, slots)
}

type bookingPayload struct {
	ID        string              `json:"id"`
	Status    bookingModel.Status `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	Counselor counselorRef        `json:"counselor"`
	Slot      slotRef             `json:"slot"`
}

type counselorRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type slotRef struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func toBookingPayload(d bookingModel.Detail) bookingPayload {
	return bookingPayload{
		ID:        d.Booking.ID,
		Status:    d.Booking.Status,
		CreatedAt: d.Booking.CreatedAt,
		Counselor: counselorRef{ID: d.Counselor.ID, FullName: d.Counselor.FullName},
		Slot:      slotRef{ID: d.Slot.ID, StartTime: d.Slot.StartTime, EndTime: d.Slot.EndTime},
	}
}

// handleBook is premium-gated; free-tier callers get the upgrade signal.
func (h *Handler) handleBook(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if u.Plan != user.PlanPremium {
		utils.RespondError(w, http.StatusPaymentRequired, "premium required")
		return
	}

	var payload struct {
		CounselorID string `json:"counselor_id"`
		SlotID      string `json:"slot_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.CounselorID == "" || payload.SlotID == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing counselor_id or slot_id")
		return
	}

	detail, err := h.svc.Book(r.Context(), u.ID, payload.CounselorID, payload.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "counselor or slot not found")
		case errors.Is(err, store.ErrSlotTaken):
			utils.RespondError(w, http.StatusConflict, "slot already booked")
		case errors.Is(err, bookingService.ErrSlotInPast):
			utils.RespondError(w, http.StatusBadRequest, "slot is in the past")
		default:
			logrus.WithError(err).Error("failed to create booking")
			utils.RespondError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, toBookingPayload(detail))
}

func (h *Handler) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	details, err := h.svc.MyBookings(r.Context(), u.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to list bookings")
		utils.RespondError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	out := make([]bookingPayload, 0, len(details))
	for _, d := range details {
		out = append(out, toBookingPayload(d))
	}
	utils.RespondJSON(w, http.StatusOK, out)
}
