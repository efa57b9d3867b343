package store

import (
	"context"
	"errors"
	"time"

	"github.com/nadhirah/mindcare/backend/internal/model/booking"
	"github.com/nadhirah/mindcare/backend/internal/model/chat"
	"github.com/nadhirah/mindcare/backend/internal/model/checkin"
	"github.com/nadhirah/mindcare/backend/internal/model/resource"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
)

var (
	// ErrNotFound covers both genuinely missing rows and rows owned by a
	// different user; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken signals a duplicate registration.
	ErrEmailTaken = errors.New("email already registered")

	// ErrSlotTaken signals a concurrent booking won the slot.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrSessionLimit signals the owner already holds the maximum number of
	// sessions allowed by the create call.
	ErrSessionLimit = errors.New("session limit reached")
)

// Store is the relational persistence boundary. Owner scoping is part of
// every session/check-in lookup so handlers never filter by hand.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, u *user.User) error
	UserByEmail(ctx context.Context, email string) (user.User, error)
	UserByID(ctx context.Context, id string) (user.User, error)
	UpdateUserPlan(ctx context.Context, id string, plan user.Plan) error

	// Chat sessions. A positive maxOwned bounds how many sessions the owner
	// may hold; the count and the insert are a single atomic step, and
	// exceeding the bound returns ErrSessionLimit. Zero means unlimited.
	CreateSession(ctx context.Context, s *chat.Session, maxOwned int64) error
	SessionByID(ctx context.Context, id, ownerID string) (chat.Session, error)
	SessionsByOwner(ctx context.Context, ownerID string) ([]chat.Session, error)
	CountSessions(ctx context.Context, ownerID string) (int64, error)
	RenameSession(ctx context.Context, id, ownerID, title string) error
	// DeleteSession removes the session and all of its messages atomically.
	DeleteSession(ctx context.Context, id, ownerID string) error

	// Chat messages. AppendMessages writes all given messages or none.
	AppendMessages(ctx context.Context, msgs ...chat.Message) error
	MessagesBySession(ctx context.Context, sessionID string) ([]chat.Message, error)
	CountMessages(ctx context.Context, ownerID string) (int64, error)

	// Check-ins.
	CreateCheckIn(ctx context.Context, c *checkin.CheckIn) error
	CheckInByID(ctx context.Context, id, ownerID string) (checkin.CheckIn, error)
	CheckInsByOwner(ctx context.Context, ownerID string, limit int) ([]checkin.CheckIn, error)
	CheckInsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]checkin.CheckIn, error)
	CountCheckIns(ctx context.Context, ownerID string) (int64, error)
	LatestCheckIn(ctx context.Context, ownerID string) (checkin.CheckIn, error)

	// Counselor booking.
	ActiveCounselors(ctx context.Context) ([]booking.Counselor, error)
	CounselorByID(ctx context.Context, id string) (booking.Counselor, error)
	OpenSlots(ctx context.Context, counselorID string, from, to time.Time) ([]booking.AvailabilitySlot, error)
	SlotByID(ctx context.Context, id, counselorID string) (booking.AvailabilitySlot, error)
	CreateCounselor(ctx context.Context, c *booking.Counselor) error
	CreateSlot(ctx context.Context, s *booking.AvailabilitySlot) error
	// BookSlot marks the slot booked and records the booking atomically.
	BookSlot(ctx context.Context, b *booking.Booking) error
	BookingsByOwner(ctx context.Context, ownerID string) ([]booking.Detail, error)

	// Resources.
	Resources(ctx context.Context) ([]resource.Resource, error)
	CreateResource(ctx context.Context, r *resource.Resource) error
}
