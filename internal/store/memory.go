package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nadhirah/mindcare/backend/internal/model/booking"
	"github.com/nadhirah/mindcare/backend/internal/model/chat"
	"github.com/nadhirah/mindcare/backend/internal/model/checkin"
	"github.com/nadhirah/mindcare/backend/internal/model/resource"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
)

// MemoryStore implements Store with mutex-guarded maps. It backs local
// development runs without a database and doubles as the test fixture.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]user.User
	sessions   map[string]chat.Session
	messages   map[string][]chat.Message // keyed by session id
	checkins   map[string]checkin.CheckIn
	counselors map[string]booking.Counselor
	slots      map[string]booking.AvailabilitySlot
	bookings   map[string]booking.Booking
	resources  []resource.Resource
	seq        int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]user.User),
		sessions:   make(map[string]chat.Session),
		messages:   make(map[string][]chat.Message),
		checkins:   make(map[string]checkin.CheckIn),
		counselors: make(map[string]booking.Counselor),
		slots:      make(map[string]booking.AvailabilitySlot),
		bookings:   make(map[string]booking.Booking),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, ErrNotFound
}

func (s *MemoryStore) UserByID(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) UpdateUserPlan(_ context.Context, id string, plan user.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Plan = plan
	s.users[id] = u
	return nil
}

func (s *MemoryStore) CreateSession(_ context.Context, sess *chat.Session, maxOwned int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if maxOwned > 0 {
		var n int64
		for _, existing := range s.sessions {
			if existing.UserID == sess.UserID {
				n++
			}
		}
		if n >= maxOwned {
			return ErrSessionLimit
		}
	}
	s.sessions[sess.ID] = *sess
	s.messages[sess.ID] = make([]chat.Message, 0, 16)
	return nil
}

func (s *MemoryStore) SessionByID(_ context.Context, id, ownerID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.UserID != ownerID {
		return chat.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) SessionsByOwner(_ context.Context, ownerID string) ([]chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []chat.Session
	for _, sess := range s.sessions {
		if sess.UserID == ownerID {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CountSessions(_ context.Context, ownerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, sess := range s.sessions {
		if sess.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) RenameSession(_ context.Context, id, ownerID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.UserID != ownerID {
		return ErrNotFound
	}
	sess.Title = title
	s.sessions[id] = sess
	return nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.UserID != ownerID {
		return ErrNotFound
	}
	delete(s.sessions, id)
	delete(s.messages, id)
	return nil
}

func (s *MemoryStore) AppendMessages(_ context.Context, msgs ...chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Validate every message before writing any so a bad turn cannot leave
	// a half-appended pair behind.
	for _, m := range msgs {
		sess, ok := s.sessions[m.SessionID]
		if !ok || sess.UserID != m.UserID {
			return ErrNotFound
		}
	}
	for _, m := range msgs {
		s.seq++
		m.Seq = s.seq
		s.messages[m.SessionID] = append(s.messages[m.SessionID], m)
	}
	return nil
}

func (s *MemoryStore) MessagesBySession(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) CountMessages(_ context.Context, ownerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, msgs := range s.messages {
		for _, m := range msgs {
			if m.UserID == ownerID {
				n++
			}
		}
	}
	return n, nil
}

func (s *MemoryStore) CreateCheckIn(_ context.Context, c *checkin.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkins[c.ID] = *c
	return nil
}

func (s *MemoryStore) CheckInByID(_ context.Context, id, ownerID string) (checkin.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checkins[id]
	if !ok || c.UserID != ownerID {
		return checkin.CheckIn{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) CheckInsByOwner(_ context.Context, ownerID string, limit int) ([]checkin.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.ownerCheckinsLocked(ownerID)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CheckInsInRange(_ context.Context, ownerID string, from, to time.Time) ([]checkin.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []checkin.CheckIn
	for _, c := range s.ownerCheckinsLocked(ownerID) {
		if !c.CreatedAt.Before(from) && !c.CreatedAt.After(to) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CountCheckIns(_ context.Context, ownerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.ownerCheckinsLocked(ownerID))), nil
}

func (s *MemoryStore) LatestCheckIn(_ context.Context, ownerID string) (checkin.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.ownerCheckinsLocked(ownerID)
	if len(all) == 0 {
		return checkin.CheckIn{}, ErrNotFound
	}
	latest := all[0]
	for _, c := range all[1:] {
		if c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	return latest, nil
}

func (s *MemoryStore) ownerCheckinsLocked(ownerID string) []checkin.CheckIn {
	var out []checkin.CheckIn
	for _, c := range s.checkins {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out
}

func (s *MemoryStore) ActiveCounselors(_ context.Context) ([]booking.Counselor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []booking.Counselor
	for _, c := range s.counselors {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CounselorByID(_ context.Context, id string) (booking.Counselor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.counselors[id]
	if !ok || !c.IsActive {
		return booking.Counselor{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) OpenSlots(_ context.Context, counselorID string, from, to time.Time) ([]booking.AvailabilitySlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []booking.AvailabilitySlot
	for _, slot := range s.slots {
		if slot.CounselorID != counselorID || slot.IsBooked {
			continue
		}
		if slot.StartTime.Before(from) || slot.StartTime.After(to) {
			continue
		}
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *MemoryStore) SlotByID(_ context.Context, id, counselorID string) (booking.AvailabilitySlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[id]
	if !ok || slot.CounselorID != counselorID {
		return booking.AvailabilitySlot{}, ErrNotFound
	}
	return slot, nil
}

func (s *MemoryStore) CreateCounselor(_ context.Context, c *booking.Counselor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counselors[c.ID] = *c
	return nil
}

func (s *MemoryStore) CreateSlot(_ context.Context, slot *booking.AvailabilitySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot.ID] = *slot
	return nil
}

func (s *MemoryStore) BookSlot(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[b.SlotID]
	if !ok || slot.CounselorID != b.CounselorID {
		return ErrNotFound
	}
	if slot.IsBooked {
		return ErrSlotTaken
	}
	slot.IsBooked = true
	s.slots[b.SlotID] = slot
	s.bookings[b.ID] = *b
	return nil
}

func (s *MemoryStore) BookingsByOwner(_ context.Context, ownerID string) ([]booking.Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []booking.Detail
	for _, b := range s.bookings {
		if b.UserID != ownerID {
			continue
		}
		out = append(out, booking.Detail{
			Booking:   b,
			Counselor: s.counselors[b.CounselorID],
			Slot:      s.slots[b.SlotID],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Booking.CreatedAt.After(out[j].Booking.CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Resources(_ context.Context) ([]resource.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]resource.Resource, len(s.resources))
	copy(out, s.resources)
	return out, nil
}

func (s *MemoryStore) CreateResource(_ context.Context, r *resource.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, *r)
	return nil
}
