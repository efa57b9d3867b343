package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/nadhirah/mindcare/backend/internal/middleware"
	chatModel "github.com/nadhirah/mindcare/backend/internal/model/chat"
	aiService "github.com/nadhirah/mindcare/backend/internal/service/ai"
	chatService "github.com/nadhirah/mindcare/backend/internal/service/chat"
	"github.com/nadhirah/mindcare/backend/internal/store"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

// Handler serves the stateless chat endpoint and persisted chat sessions.
type Handler struct {
	ai     *aiService.Service
	ledger *chatService.Service
}

// New creates the chat handler.
func New(ai *aiService.Service, ledger *chatService.Service) *Handler {
	return &Handler{ai: ai, ledger: ledger}
}

// RegisterRoutes mounts the public stateless chat endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// RegisterProtectedRoutes mounts the per-user session endpoints.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/chat/sessions", h.handleCreateSession)
	r.Get("/chat/sessions", h.handleListSessions)
	r.Patch("/chat/sessions/{sessionID}", h.handleRenameSession)
	r.Delete("/chat/sessions/{sessionID}", h.handleDeleteSession)
	r.Get("/chat/sessions/{sessionID}/messages", h.handleListMessages)
	r.Post("/chat/sessions/{sessionID}/send", h.handleSend)
}

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// handleChat answers a one-off message with caller-supplied history; nothing
// is persisted.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string        `json:"message"`
		History []historyTurn `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	history := make([]chatModel.Message, 0, len(payload.History))
	for _, turn := range payload.History {
		role := chatModel.Role(turn.Role)
		if !role.Valid() {
			utils.RespondError(w, http.StatusBadRequest, "history roles must be user or assistant")
			return
		}
		history = append(history, chatModel.Message{Role: role, Content: turn.Content})
	}

	reply := h.ai.Reply(r.Context(), history, payload.Message)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var payload struct {
		Title     string `json:"title"`
		CheckinID string `json:"checkin_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.ledger.CreateSession(r.Context(), u.ID, payload.Title, payload.CheckinID)
	if err != nil {
		switch {
		case errors.Is(err, chatService.ErrQuotaExceeded):
			utils.RespondError(w, http.StatusPaymentRequired, "premium required for multiple sessions")
		case errors.Is(err, store.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "check-in not found")
		default:
			logrus.WithError(err).Error("failed to create session")
			utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		}
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	sessions, err := h.ledger.ListSessions(r.Context(), u.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to list sessions")
		utils.RespondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []chatModel.Session{}
	}
	utils.RespondJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		utils.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	err := h.ledger.RenameSession(r.Context(), chi.URLParam(r, "sessionID"), u.ID, payload.Title)
	if err != nil {
		h.respondLedgerError(w, err, "failed to rename session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	err := h.ledger.DeleteSession(r.Context(), chi.URLParam(r, "sessionID"), u.ID)
	if err != nil {
		h.respondLedgerError(w, err, "failed to delete session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	msgs, err := h.ledger.ListTurns(r.Context(), chi.URLParam(r, "sessionID"), u.ID)
	if err != nil {
		h.respondLedgerError(w, err, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []chatModel.Message{}
	}
	utils.RespondJSON(w, http.StatusOK, msgs)
}

// handleSend runs one full exchange: window, prompt, generation, cleaning,
// and the atomic append of both turns.
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	history, err := h.ledger.ListTurns(r.Context(), sessionID, u.ID)
	if err != nil {
		h.respondLedgerError(w, err, "failed to load session")
		return
	}

	reply := h.ai.Reply(r.Context(), history, payload.Message)

	if err := h.ledger.AppendTurnPair(r.Context(), sessionID, u.ID, payload.Message, reply); err != nil {
		h.respondLedgerError(w, err, "failed to persist messages")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	logrus.WithError(err).Error(logMsg)
	utils.RespondError(w, http.StatusInternalServerError, logMsg)
}
