package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nadhirah/mindcare/backend/internal/auth"
	"github.com/nadhirah/mindcare/backend/internal/middleware"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
	"github.com/nadhirah/mindcare/backend/internal/store"
	"github.com/nadhirah/mindcare/backend/pkg/utils"
)

// Handler serves registration, login, and account routes.
type Handler struct {
	store  store.Store
	tokens *auth.TokenIssuer
}

// New creates the auth handler.
func New(st store.Store, tokens *auth.TokenIssuer) *Handler {
	return &Handler{store: st, tokens: tokens}
}

// RegisterRoutes mounts the public auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

// RegisterProtectedRoutes mounts endpoints that require a bearer token.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Post("/billing/upgrade", h.handleUpgrade)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Plan  user.Plan `json:"plan"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if payload.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "password is required")
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		utils.RespondError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        payload.Email,
		PasswordHash: hash,
		Plan:         user.PlanFree,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreateUser(r.Context(), &u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			utils.RespondError(w, http.StatusBadRequest, "email already registered")
			return
		}
		logrus.WithError(err).Error("failed to create user")
		utils.RespondError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.respondToken(w, u)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.store.UserByEmail(r.Context(), strings.TrimSpace(payload.Email))
	if err != nil || !auth.VerifyPassword(payload.Password, u.PasswordHash) {
		utils.RespondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.respondToken(w, u)
}

func (h *Handler) respondToken(w http.ResponseWriter, u user.User) {
	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		logrus.WithError(err).Error("failed to issue token")
		utils.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userPayload{ID: u.ID, Email: u.Email, Plan: u.Plan},
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, userPayload{ID: u.ID, Email: u.Email, Plan: u.Plan})
}

// handleUpgrade flips the account to premium. Any non-empty code is accepted
// until a real payment flow replaces this.
func (h *Handler) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Code) == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing code")
		return
	}

	if err := h.store.UpdateUserPlan(r.Context(), u.ID, user.PlanPremium); err != nil {
		logrus.WithError(err).Error("failed to upgrade plan")
		utils.RespondError(w, http.StatusInternalServerError, "upgrade failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true, "plan": user.PlanPremium})
}
