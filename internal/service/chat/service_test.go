package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	checkinModel "github.com/nadhirah/mindcare/backend/internal/model/checkin"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
	chat "github.com/nadhirah/mindcare/backend/internal/service/chat"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

func seedUser(t *testing.T, st *store.MemoryStore, plan user.Plan) user.User {
	t.Helper()
	u := user.User{
		ID:        uuid.NewString(),
		Email:     uuid.NewString() + "@example.com",
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("CreateUser err: %v", err)
	}
	return u
}

func TestCreateSessionFreeQuota(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	free := seedUser(t, st, user.PlanFree)

	if _, err := svc.CreateSession(ctx, free.ID, "first", ""); err != nil {
		t.Fatalf("first session err: %v", err)
	}
	_, err := svc.CreateSession(ctx, free.ID, "second", "")
	if !errors.Is(err, chat.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestCreateSessionFreeQuotaUnderConcurrency(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	free := seedUser(t, st, user.PlanFree)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateSession(ctx, free.ID, "", "")
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case !errors.Is(err, chat.ErrQuotaExceeded):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("racing creates must yield exactly 1 session, got %d", created)
	}
}

func TestCreateSessionWithoutCheckinLeavesNoLink(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	u := seedUser(t, st, user.PlanFree)

	session, err := svc.CreateSession(context.Background(), u.ID, "plain", "")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	// Nil keeps the uuid column NULL on the relational store.
	if session.CheckinID != nil {
		t.Fatalf("unlinked session must carry no check-in reference, got %q", *session.CheckinID)
	}
	if session.StressAtStart != nil {
		t.Fatalf("unlinked session must carry no stress snapshot, got %d", *session.StressAtStart)
	}
}

func TestCreateSessionPremiumUnlimited(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	premium := seedUser(t, st, user.PlanPremium)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, premium.ID, "", ""); err != nil {
			t.Fatalf("session %d err: %v", i, err)
		}
	}
}

func TestCreateSessionCopiesCheckinSnapshot(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	u := seedUser(t, st, user.PlanPremium)

	ci := checkinModel.CheckIn{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Mood:        "anxious",
		StressLevel: 7,
		CreatedAt:   time.Now().UTC(),
	}
	if err := st.CreateCheckIn(ctx, &ci); err != nil {
		t.Fatalf("CreateCheckIn err: %v", err)
	}

	session, err := svc.CreateSession(ctx, u.ID, "", ci.ID)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if session.CheckinID == nil || *session.CheckinID != ci.ID {
		t.Fatalf("checkin not linked: %v", session.CheckinID)
	}
	if session.MoodAtStart != "anxious" {
		t.Fatalf("mood snapshot not copied: %q", session.MoodAtStart)
	}
	if session.StressAtStart == nil || *session.StressAtStart != 7 {
		t.Fatalf("stress snapshot not copied: %v", session.StressAtStart)
	}
	// Empty title falls back to the mood.
	if session.Title != "anxious" {
		t.Fatalf("unexpected title: %q", session.Title)
	}
}

func TestCreateSessionForeignCheckinRejected(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	owner := seedUser(t, st, user.PlanPremium)
	other := seedUser(t, st, user.PlanPremium)

	ci := checkinModel.CheckIn{ID: uuid.NewString(), UserID: other.ID, Mood: "calm", CreatedAt: time.Now().UTC()}
	if err := st.CreateCheckIn(ctx, &ci); err != nil {
		t.Fatalf("CreateCheckIn err: %v", err)
	}

	_, err := svc.CreateSession(ctx, owner.ID, "", ci.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign check-in, got %v", err)
	}
}

func TestAppendTurnPairPersistsInOrder(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	u := seedUser(t, st, user.PlanFree)

	session, err := svc.CreateSession(ctx, u.ID, "t", "")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	if err := svc.AppendTurnPair(ctx, session.ID, u.ID, "hello", "hi there"); err != nil {
		t.Fatalf("AppendTurnPair err: %v", err)
	}

	turns, err := svc.ListTurns(ctx, session.ID, u.ID)
	if err != nil {
		t.Fatalf("ListTurns err: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != "user" || turns[0].Content != "hello" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != "assistant" || turns[1].Content != "hi there" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestAppendTurnPairWrongOwner(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	owner := seedUser(t, st, user.PlanFree)
	intruder := seedUser(t, st, user.PlanFree)

	session, err := svc.CreateSession(ctx, owner.ID, "t", "")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	err = svc.AppendTurnPair(ctx, session.ID, intruder.ID, "hello", "hi")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	turns, err := svc.ListTurns(ctx, session.ID, owner.ID)
	if err != nil {
		t.Fatalf("ListTurns err: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected no turns persisted, got %d", len(turns))
	}
}

func TestDeleteSessionRemovesTurns(t *testing.T) {
	st := store.NewMemory()
	svc := chat.NewService(st)
	ctx := context.Background()
	u := seedUser(t, st, user.PlanFree)

	session, err := svc.CreateSession(ctx, u.ID, "t", "")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if err := svc.AppendTurnPair(ctx, session.ID, u.ID, "a", "b"); err != nil {
		t.Fatalf("AppendTurnPair err: %v", err)
	}

	if err := svc.DeleteSession(ctx, session.ID, u.ID); err != nil {
		t.Fatalf("DeleteSession err: %v", err)
	}
	if _, err := svc.ListTurns(ctx, session.ID, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
