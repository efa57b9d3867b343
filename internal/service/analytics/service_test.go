package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkinModel "github.com/nadhirah/mindcare/backend/internal/model/checkin"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
	analytics "github.com/nadhirah/mindcare/backend/internal/service/analytics"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

func seedCheckin(t *testing.T, st *store.MemoryStore, ownerID, mood string, stress int, at time.Time) {
	t.Helper()
	ci := checkinModel.CheckIn{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Mood:        mood,
		StressLevel: stress,
		CreatedAt:   at,
	}
	require.NoError(t, st.CreateCheckIn(context.Background(), &ci))
}

func TestOverviewEmptyUser(t *testing.T) {
	st := store.NewMemory()
	svc := analytics.NewService(st)
	ctx := context.Background()

	u := user.User{ID: uuid.NewString(), Email: "a@example.com"}
	require.NoError(t, st.CreateUser(ctx, &u))

	out, err := svc.Overview(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, out.SessionsCount)
	assert.Zero(t, out.MessagesCount)
	assert.Zero(t, out.CheckinsCount)
	assert.Nil(t, out.LastCheckin)
}

func TestOverviewReportsLatestCheckin(t *testing.T) {
	st := store.NewMemory()
	svc := analytics.NewService(st)
	ctx := context.Background()
	ownerID := uuid.NewString()

	now := time.Now().UTC()
	seedCheckin(t, st, ownerID, "tired", 4, now.Add(-48*time.Hour))
	seedCheckin(t, st, ownerID, "calm", 2, now.Add(-1*time.Hour))

	out, err := svc.Overview(ctx, ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.CheckinsCount)
	require.NotNil(t, out.LastCheckin)
	assert.Equal(t, "calm", out.LastCheckin.Mood)
}

func TestCheckinTrendsDenseBuckets(t *testing.T) {
	st := store.NewMemory()
	svc := analytics.NewService(st)
	ctx := context.Background()
	ownerID := uuid.NewString()

	now := time.Now().UTC()
	// Midday two days ago, so both entries stay in one calendar bucket.
	midday := now.AddDate(0, 0, -2).Truncate(24 * time.Hour).Add(12 * time.Hour)
	seedCheckin(t, st, ownerID, "anxious", 8, midday)
	seedCheckin(t, st, ownerID, "anxious", 7, midday.Add(time.Hour))
	seedCheckin(t, st, ownerID, "calm", 2, now)

	trends, err := svc.CheckinTrends(ctx, ownerID, 7)
	require.NoError(t, err)

	// One bucket per day across the whole range, empty days included.
	assert.Len(t, trends.Buckets, 8)
	assert.Equal(t, map[string]int{"anxious": 2, "calm": 1}, trends.Moods)

	var withData int
	for _, b := range trends.Buckets {
		if b.Count == 0 {
			assert.Nil(t, b.AvgStress, "empty day must have nil avg_stress")
			continue
		}
		withData++
		require.NotNil(t, b.AvgStress)
		if b.Count == 2 {
			assert.InDelta(t, 7.5, *b.AvgStress, 0.001)
		}
	}
	assert.Equal(t, 2, withData)
}

func TestCheckinTrendsClampsDays(t *testing.T) {
	st := store.NewMemory()
	svc := analytics.NewService(st)
	ctx := context.Background()

	trends, err := svc.CheckinTrends(ctx, uuid.NewString(), 9999)
	require.NoError(t, err)
	assert.Len(t, trends.Buckets, 181)

	trends, err = svc.CheckinTrends(ctx, uuid.NewString(), 0)
	require.NoError(t, err)
	assert.Len(t, trends.Buckets, 31)
}
