package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/nadhirah/mindcare/backend/internal/model/booking"
	"github.com/nadhirah/mindcare/backend/internal/model/chat"
	"github.com/nadhirah/mindcare/backend/internal/model/checkin"
	"github.com/nadhirah/mindcare/backend/internal/model/resource"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
)

// GormStore implements Store on PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// NewGorm opens the database and migrates the schema.
func NewGorm(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&user.User{},
		&chat.Session{},
		&chat.Message{},
		&checkin.CheckIn{},
		&booking.Counselor{},
		&booking.AvailabilitySlot{},
		&booking.Booking{},
		&resource.Resource{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *user.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&user.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, mapErr(err)
}

func (s *GormStore) UserByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return u, mapErr(err)
}

func (s *GormStore) UpdateUserPlan(ctx context.Context, id string, plan user.Plan) error {
	res := s.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Update("plan", plan)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateSession(ctx context.Context, sess *chat.Session, maxOwned int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if maxOwned > 0 {
			// Lock the owner row so concurrent creates for the same user
			// serialize; counting alone cannot stop two racing inserts.
			var owner user.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", sess.UserID).First(&owner).Error; err != nil {
				return mapErr(err)
			}
			var n int64
			if err := tx.Model(&chat.Session{}).Where("user_id = ?", sess.UserID).Count(&n).Error; err != nil {
				return err
			}
			if n >= maxOwned {
				return ErrSessionLimit
			}
		}
		return tx.Create(sess).Error
	})
}

func (s *GormStore) SessionByID(ctx context.Context, id, ownerID string) (chat.Session, error) {
	var sess chat.Session
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&sess).Error
	return sess, mapErr(err)
}

func (s *GormStore) SessionsByOwner(ctx context.Context, ownerID string) ([]chat.Session, error) {
	var out []chat.Session
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) CountSessions(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&chat.Session{}).Where("user_id = ?", ownerID).Count(&n).Error
	return n, err
}

func (s *GormStore) RenameSession(ctx context.Context, id, ownerID, title string) error {
	res := s.db.WithContext(ctx).Model(&chat.Session{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteSession(ctx context.Context, id, ownerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&chat.Session{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("session_id = ?", id).Delete(&chat.Message{}).Error
	})
}

func (s *GormStore) AppendMessages(ctx context.Context, msgs ...chat.Message) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range msgs {
			var count int64
			if err := tx.Model(&chat.Session{}).
				Where("id = ? AND user_id = ?", msgs[i].SessionID, msgs[i].UserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			if err := tx.Create(&msgs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) MessagesBySession(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var out []chat.Message
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, seq ASC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) CountMessages(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&chat.Message{}).Where("user_id = ?", ownerID).Count(&n).Error
	return n, err
}

func (s *GormStore) CreateCheckIn(ctx context.Context, c *checkin.CheckIn) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) CheckInByID(ctx context.Context, id, ownerID string) (checkin.CheckIn, error) {
	var c checkin.CheckIn
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&c).Error
	return c, mapErr(err)
}

func (s *GormStore) CheckInsByOwner(ctx context.Context, ownerID string, limit int) ([]checkin.CheckIn, error) {
	var out []checkin.CheckIn
	q := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

func (s *GormStore) CheckInsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]checkin.CheckIn, error) {
	var out []checkin.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", ownerID, from, to).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) CountCheckIns(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&checkin.CheckIn{}).Where("user_id = ?", ownerID).Count(&n).Error
	return n, err
}

func (s *GormStore) LatestCheckIn(ctx context.Context, ownerID string) (checkin.CheckIn, error) {
	var c checkin.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		First(&c).Error
	return c, mapErr(err)
}

func (s *GormStore) ActiveCounselors(ctx context.Context) ([]booking.Counselor, error) {
	var out []booking.Counselor
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) CounselorByID(ctx context.Context, id string) (booking.Counselor, error) {
	var c booking.Counselor
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&c).Error
	return c, mapErr(err)
}

func (s *GormStore) OpenSlots(ctx context.Context, counselorID string, from, to time.Time) ([]booking.AvailabilitySlot, error) {
	var out []booking.AvailabilitySlot
	err := s.db.WithContext(ctx).
		Where("counselor_id = ? AND is_booked = ? AND start_time >= ? AND start_time <= ?",
			counselorID, false, from, to).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) SlotByID(ctx context.Context, id, counselorID string) (booking.AvailabilitySlot, error) {
	var slot booking.AvailabilitySlot
	err := s.db.WithContext(ctx).Where("id = ? AND counselor_id = ?", id, counselorID).First(&slot).Error
	return slot, mapErr(err)
}

func (s *GormStore) CreateCounselor(ctx context.Context, c *booking.Counselor) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) CreateSlot(ctx context.Context, slot *booking.AvailabilitySlot) error {
	return s.db.WithContext(ctx).Create(slot).Error
}

func (s *GormStore) BookSlot(ctx context.Context, b *booking.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the slot with a conditional update; losing a concurrent race
		// surfaces as zero rows affected rather than a double booking.
		res := tx.Model(&booking.AvailabilitySlot{}).
			Where("id = ? AND counselor_id = ? AND is_booked = ?", b.SlotID, b.CounselorID, false).
			Update("is_booked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSlotTaken
		}
		return tx.Create(b).Error
	})
}

func (s *GormStore) BookingsByOwner(ctx context.Context, ownerID string) ([]booking.Detail, error) {
	var rows []booking.Booking
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]booking.Detail, 0, len(rows))
	for _, b := range rows {
		var c booking.Counselor
		if err := s.db.WithContext(ctx).Where("id = ?", b.CounselorID).First(&c).Error; err != nil {
			return nil, err
		}
		var slot booking.AvailabilitySlot
		if err := s.db.WithContext(ctx).Where("id = ?", b.SlotID).First(&slot).Error; err != nil {
			return nil, err
		}
		out = append(out, booking.Detail{Booking: b, Counselor: c, Slot: slot})
	}
	return out, nil
}

func (s *GormStore) Resources(ctx context.Context) ([]resource.Resource, error) {
	var out []resource.Resource
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *GormStore) CreateResource(ctx context.Context, r *resource.Resource) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
