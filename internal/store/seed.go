package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nadhirah/mindcare/backend/internal/model/booking"
	"github.com/nadhirah/mindcare/backend/internal/model/resource"
)

const (
	seedDaysAhead   = 14
	seedSlotMinutes = 50
	// Slot times are defined in Brunei time (UTC+8) and stored as UTC.
	bruneiUTCOffset = 8 * time.Hour
)

var seedDailyTimes = []struct{ hour, minute int }{
	{9, 0}, {14, 0}, {20, 0},
}

var seedCounselors = []booking.Counselor{
	{
		FullName:    "Aisyah Salleh, RP(Brunei)",
		Bio:         "Registered counselor with experience in anxiety and adolescent well-being.",
		Specialties: "anxiety,stress,students",
		PriceCents:  4500,
		Currency:    "BND",
		IsActive:    true,
	},
	{
		FullName:    "Hafiz Rahman, MS Psych",
		Bio:         "Trauma-informed therapist; CBT & mindfulness.",
		Specialties: "trauma,cbt,mindfulness",
		PriceCents:  6000,
		Currency:    "BND",
		IsActive:    true,
	},
}

var seedResources = []resource.Resource{
	{
		Title:       "Brunei Healthline (MOH)",
		Description: "Official health services",
		URL:         "https://www.moh.gov.bn",
	},
	{
		Title:       "WHO Mental Health",
		Description: "Global guidance on mental health",
		URL:         "https://www.who.int/health-topics/mental-health",
	},
}

// Seed populates a fresh store with demo counselors, their availability for
// the next two weeks, and the default resource links.
func Seed(ctx context.Context, s Store) error {
	now := time.Now().UTC()

	for _, c := range seedCounselors {
		c.ID = uuid.NewString()
		c.CreatedAt = now
		if err := s.CreateCounselor(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed counselor %s: %w", c.FullName, err)
		}
		if err := seedSlots(ctx, s, c.ID, now); err != nil {
			return err
		}
	}

	for _, r := range seedResources {
		r.ID = uuid.NewString()
		r.CreatedAt = now
		if err := s.CreateResource(ctx, &r); err != nil {
			return fmt.Errorf("failed to seed resource %s: %w", r.Title, err)
		}
	}

	return nil
}

func seedSlots(ctx context.Context, s Store, counselorID string, now time.Time) error {
	dayStart := now.Add(bruneiUTCOffset).Truncate(24 * time.Hour)

	for d := 0; d < seedDaysAhead; d++ {
		day := dayStart.AddDate(0, 0, d)
		for _, at := range seedDailyTimes {
			startBNT := time.Date(day.Year(), day.Month(), day.Day(), at.hour, at.minute, 0, 0, time.UTC)
			start := startBNT.Add(-bruneiUTCOffset)
			slot := booking.AvailabilitySlot{
				ID:          uuid.NewString(),
				CounselorID: counselorID,
				StartTime:   start,
				EndTime:     start.Add(seedSlotMinutes * time.Minute),
				CreatedAt:   now,
			}
			if err := s.CreateSlot(ctx, &slot); err != nil {
				return fmt.Errorf("failed to seed slot: %w", err)
			}
		}
	}
	return nil
}
