package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nadhirah/mindcare/backend/internal/model/checkin"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

// ErrInvalidStress rejects stress levels outside the 0-10 scale.
var ErrInvalidStress = errors.New("stress_level must be 0-10")

const (
	defaultListLimit = 7
	maxListLimit     = 50
)

// Service records and lists mood check-ins.
type Service struct {
	store store.Store
}

// NewService builds the check-in service on the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Create validates and stores a check-in for ownerID.
func (s *Service) Create(ctx context.Context, ownerID, mood string, stressLevel int, notes string) (checkin.CheckIn, error) {
	if stressLevel < 0 || stressLevel > 10 {
		return checkin.CheckIn{}, ErrInvalidStress
	}

	ci := checkin.CheckIn{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Mood:        mood,
		StressLevel: stressLevel,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateCheckIn(ctx, &ci); err != nil {
		return checkin.CheckIn{}, err
	}
	return ci, nil
}

// List returns the owner's most recent check-ins, newest first. The limit is
// clamped to [1, 50]; zero means the default of 7.
func (s *Service) List(ctx context.Context, ownerID string, limit int) ([]checkin.CheckIn, error) {
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.CheckInsByOwner(ctx, ownerID, limit)
}
