// Package chat is the session ledger: it owns session lifecycle, the
// freemium quota, and the atomic persistence of turn pairs.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nadhirah/mindcare/backend/internal/model/chat"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

// ErrQuotaExceeded signals the free-tier session limit; handlers report it
// distinctly from not-found so clients can offer an upgrade path.
var ErrQuotaExceeded = errors.New("free plan allows a single session")

// freeSessionLimit is how many sessions a free-tier user may own.
const freeSessionLimit = 1

// Service encapsulates conversation state management over the store.
type Service struct {
	store store.Store
}

// NewService builds the ledger on the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateSession provisions a session for ownerID. A linked check-in must
// belong to the owner; its mood and stress are copied onto the session at
// creation time and never refreshed.
func (s *Service) CreateSession(ctx context.Context, ownerID, title, checkinID string) (chat.Session, error) {
	owner, err := s.store.UserByID(ctx, ownerID)
	if err != nil {
		return chat.Session{}, fmt.Errorf("failed to load owner: %w", err)
	}

	// The bound is enforced atomically by the store so two racing creates
	// cannot both slip under it.
	var limit int64
	if owner.Plan != user.PlanPremium {
		limit = freeSessionLimit
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	if checkinID != "" {
		chk, err := s.store.CheckInByID(ctx, checkinID, ownerID)
		if err != nil {
			return chat.Session{}, err
		}
		// Pointer so an unlinked session stores NULL, not an empty uuid.
		session.CheckinID = &chk.ID
		session.MoodAtStart = chk.Mood
		stress := chk.StressLevel
		session.StressAtStart = &stress
	}

	if session.Title == "" {
		if session.MoodAtStart != "" {
			session.Title = session.MoodAtStart
		} else {
			session.Title = "New session"
		}
	}

	if err := s.store.CreateSession(ctx, &session, limit); err != nil {
		if errors.Is(err, store.ErrSessionLimit) {
			return chat.Session{}, ErrQuotaExceeded
		}
		return chat.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ListSessions returns the owner's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, ownerID string) ([]chat.Session, error) {
	return s.store.SessionsByOwner(ctx, ownerID)
}

// RenameSession updates the title; concurrent renames are last-write-wins.
func (s *Service) RenameSession(ctx context.Context, sessionID, ownerID, title string) error {
	return s.store.RenameSession(ctx, sessionID, ownerID, title)
}

// DeleteSession removes the session and its messages atomically.
func (s *Service) DeleteSession(ctx context.Context, sessionID, ownerID string) error {
	return s.store.DeleteSession(ctx, sessionID, ownerID)
}

// ListTurns returns the session's turns in conversation order.
func (s *Service) ListTurns(ctx context.Context, sessionID, ownerID string) ([]chat.Message, error) {
	if _, err := s.store.SessionByID(ctx, sessionID, ownerID); err != nil {
		return nil, err
	}
	return s.store.MessagesBySession(ctx, sessionID)
}

// AppendTurnPair records one exchanged round: the user turn then the
// assistant turn, both persisted or neither.
func (s *Service) AppendTurnPair(ctx context.Context, sessionID, ownerID, userText, assistantText string) error {
	if _, err := s.store.SessionByID(ctx, sessionID, ownerID); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.store.AppendMessages(ctx,
		chat.Message{
			ID:        uuid.NewString(),
			UserID:    ownerID,
			SessionID: sessionID,
			Role:      chat.RoleUser,
			Content:   userText,
			CreatedAt: now,
		},
		chat.Message{
			ID:        uuid.NewString(),
			UserID:    ownerID,
			SessionID: sessionID,
			Role:      chat.RoleAssistant,
			Content:   assistantText,
			CreatedAt: now,
		},
	)
}
