package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nadhirah/mindcare/backend/internal/model/booking"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

// ErrSlotInPast rejects bookings for slots whose start time has passed.
var ErrSlotInPast = errors.New("slot is in the past")

const (
	defaultSlotDays = 14
	maxSlotDays     = 60
)

// Service exposes counselor discovery and slot booking.
type Service struct {
	store store.Store
}

// NewService builds the booking service on the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Counselors lists active counselors, newest first.
func (s *Service) Counselors(ctx context.Context) ([]booking.Counselor, error) {
	return s.store.ActiveCounselors(ctx)
}

// Slots returns the counselor's unbooked upcoming slots within the next
// `days` days (clamped to [1, 60], defaulting to 14).
func (s *Service) Slots(ctx context.Context, counselorID string, days int) ([]booking.AvailabilitySlot, error) {
	if days < 1 || days > maxSlotDays {
		days = defaultSlotDays
	}

	if _, err := s.store.CounselorByID(ctx, counselorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.store.OpenSlots(ctx, counselorID, now, now.AddDate(0, 0, days))
}

// Book claims a slot for ownerID and confirms the booking immediately. A
// slot that is already taken, missing, or in the past is rejected.
func (s *Service) Book(ctx context.Context, ownerID, counselorID, slotID string) (booking.Detail, error) {
	counselor, err := s.store.CounselorByID(ctx, counselorID)
	if err != nil {
		return booking.Detail{}, err
	}

	slot, err := s.store.SlotByID(ctx, slotID, counselorID)
	if err != nil {
		return booking.Detail{}, err
	}
	if slot.IsBooked {
		return booking.Detail{}, store.ErrSlotTaken
	}
	if !slot.StartTime.After(time.Now().UTC()) {
		return booking.Detail{}, ErrSlotInPast
	}

	b := booking.Booking{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		CounselorID: counselorID,
		SlotID:      slotID,
		Status:      booking.StatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.BookSlot(ctx, &b); err != nil {
		return booking.Detail{}, err
	}

	slot.IsBooked = true
	return booking.Detail{Booking: b, Counselor: counselor, Slot: slot}, nil
}

// MyBookings lists the owner's bookings, newest first, joined with
// counselor and slot details.
func (s *Service) MyBookings(ctx context.Context, ownerID string) ([]booking.Detail, error) {
	return s.store.BookingsByOwner(ctx, ownerID)
}
