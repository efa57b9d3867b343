package analytics

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/nadhirah/mindcare/backend/internal/model/checkin"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 180
)

// Overview summarizes a user's activity.
type Overview struct {
	SessionsCount int64            `json:"sessions_count"`
	MessagesCount int64            `json:"messages_count"`
	CheckinsCount int64            `json:"checkins_count"`
	LastCheckin   *checkin.CheckIn `json:"last_checkin"`
}

// Bucket is one day of check-in activity. AvgStress is nil for empty days so
// charts can show gaps instead of zeroes.
type Bucket struct {
	Date      string   `json:"date"`
	Count     int      `json:"count"`
	AvgStress *float64 `json:"avg_stress"`
}

// Trends reports check-in activity over a date range.
type Trends struct {
	Range   TrendRange     `json:"range"`
	Buckets []Bucket       `json:"buckets"`
	Moods   map[string]int `json:"moods"`
}

// TrendRange bounds the reporting window.
type TrendRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Service aggregates per-user usage statistics.
type Service struct {
	store store.Store
}

// NewService builds the analytics service on the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Overview returns counts plus the latest check-in snapshot for ownerID.
func (s *Service) Overview(ctx context.Context, ownerID string) (Overview, error) {
	sessions, err := s.store.CountSessions(ctx, ownerID)
	if err != nil {
		return Overview{}, err
	}
	messages, err := s.store.CountMessages(ctx, ownerID)
	if err != nil {
		return Overview{}, err
	}
	checkins, err := s.store.CountCheckIns(ctx, ownerID)
	if err != nil {
		return Overview{}, err
	}

	out := Overview{
		SessionsCount: sessions,
		MessagesCount: messages,
		CheckinsCount: checkins,
	}

	last, err := s.store.LatestCheckIn(ctx, ownerID)
	switch {
	case err == nil:
		out.LastCheckin = &last
	case !errors.Is(err, store.ErrNotFound):
		return Overview{}, err
	}

	return out, nil
}

// CheckinTrends buckets the owner's check-ins per day over the last `days`
// days (clamped to [1, 180]), producing a dense list covering the whole
// range plus a mood histogram.
func (s *Service) CheckinTrends(ctx context.Context, ownerID string, days int) (Trends, error) {
	if days == 0 {
		days = defaultTrendDays
	}
	if days < 1 {
		days = 1
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	rows, err := s.store.CheckInsInRange(ctx, ownerID, start, end)
	if err != nil {
		return Trends{}, err
	}

	type agg struct {
		count     int
		sumStress int
	}
	byDay := make(map[string]agg)
	moods := make(map[string]int)
	for _, r := range rows {
		day := r.CreatedAt.Format("2006-01-02")
		a := byDay[day]
		a.count++
		a.sumStress += r.StressLevel
		byDay[day] = a
		if r.Mood != "" {
			moods[r.Mood]++
		}
	}

	buckets := make([]Bucket, 0, days+1)
	for i := 0; i <= days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		b := Bucket{Date: day}
		if a, ok := byDay[day]; ok {
			b.Count = a.count
			avg := math.Round(float64(a.sumStress)/float64(a.count)*100) / 100
			b.AvgStress = &avg
		}
		buckets = append(buckets, b)
	}

	return Trends{
		Range:   TrendRange{Start: start, End: end},
		Buckets: buckets,
		Moods:   moods,
	}, nil
}
