package checkin_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	checkin "github.com/nadhirah/mindcare/backend/internal/service/checkin"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

func TestCreateRejectsOutOfRangeStress(t *testing.T) {
	svc := checkin.NewService(store.NewMemory())
	ctx := context.Background()

	for _, stress := range []int{-1, 11, 100} {
		_, err := svc.Create(ctx, "user-1", "anxious", stress, "")
		if !errors.Is(err, checkin.ErrInvalidStress) {
			t.Fatalf("stress %d: expected ErrInvalidStress, got %v", stress, err)
		}
	}
	for _, stress := range []int{0, 5, 10} {
		if _, err := svc.Create(ctx, "user-1", "anxious", stress, ""); err != nil {
			t.Fatalf("stress %d: unexpected err %v", stress, err)
		}
	}
}

func TestListDefaultsAndClamps(t *testing.T) {
	st := store.NewMemory()
	svc := checkin.NewService(st)
	ctx := context.Background()
	ownerID := uuid.NewString()

	for i := 0; i < 60; i++ {
		if _, err := svc.Create(ctx, ownerID, "ok", 3, fmt.Sprintf("note %d", i)); err != nil {
			t.Fatalf("Create err: %v", err)
		}
	}

	got, err := svc.List(ctx, ownerID, 0)
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("zero limit should default to 7, got %d", len(got))
	}

	got, err = svc.List(ctx, ownerID, 500)
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(got) != 50 {
		t.Fatalf("limit should clamp to 50, got %d", len(got))
	}
}
