package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nadhirah/mindcare/backend/internal/auth"
	"github.com/nadhirah/mindcare/backend/internal/knowledge"
	"github.com/nadhirah/mindcare/backend/internal/middleware"
	"github.com/nadhirah/mindcare/backend/internal/model/user"
	aiService "github.com/nadhirah/mindcare/backend/internal/service/ai"
	chatService "github.com/nadhirah/mindcare/backend/internal/service/chat"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

// scriptedGenerator returns queued outputs in order, then empty strings.
type scriptedGenerator struct {
	outputs []string
}

func (g *scriptedGenerator) Generate(context.Context, string) string {
	if len(g.outputs) == 0 {
		return ""
	}
	out := g.outputs[0]
	g.outputs = g.outputs[1:]
	return out
}

func (g *scriptedGenerator) Name() string  { return "Ollama" }
func (g *scriptedGenerator) Model() string { return "llama3" }

type fixture struct {
	router *chi.Mux
	store  *store.MemoryStore
	token  string
	user   user.User
}

func setup(t *testing.T, gen aiService.Generator) *fixture {
	t.Helper()

	st := store.NewMemory()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	handler := New(aiService.NewService(gen, knowledge.Base{}, 0), chatService.NewService(st))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator(tokens, st))
		handler.RegisterProtectedRoutes(protected)
	})

	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword err: %v", err)
	}
	u := user.User{
		ID:           uuid.NewString(),
		Email:        "a@example.com",
		PasswordHash: hash,
		Plan:         user.PlanFree,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("CreateUser err: %v", err)
	}
	token, err := tokens.Issue(u.ID, u.Email)
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}

	return &fixture{router: r, store: st, token: token, user: u}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func (f *fixture) createSession(t *testing.T) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/chat/sessions", map[string]string{"title": "t"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var session struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session.ID
}

func TestSendPersistsBothTurns(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"<assistant>Try deep breathing.\n<user>thanks</user>"}}
	f := setup(t, gen)
	sessionID := f.createSession(t)

	resp := f.do(t, http.MethodPost, "/chat/sessions/"+sessionID+"/send", map[string]string{"message": "I feel anxious today"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if out.Reply != "Try deep breathing." {
		t.Fatalf("unexpected reply: %q", out.Reply)
	}

	resp = f.do(t, http.MethodGet, "/chat/sessions/"+sessionID+"/messages", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list messages: expected 200, got %d", resp.Code)
	}
	var msgs []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "I feel anxious today" {
		t.Fatalf("unexpected user turn: %+v", msgs[0])
	}
	if msgs[1].Role != "assistant" || msgs[1].Content != "Try deep breathing." {
		t.Fatalf("unexpected assistant turn: %+v", msgs[1])
	}
}

func TestSendBackendFailureStillPersists(t *testing.T) {
	f := setup(t, &scriptedGenerator{}) // always empty output
	sessionID := f.createSession(t)

	resp := f.do(t, http.MethodPost, "/chat/sessions/"+sessionID+"/send", map[string]string{"message": "hello"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if !strings.Contains(out.Reply, `"llama3"`) {
		t.Fatalf("fallback should name the model: %q", out.Reply)
	}

	resp = f.do(t, http.MethodGet, "/chat/sessions/"+sessionID+"/messages", nil)
	var msgs []json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("fallback exchange should persist both turns, got %d", len(msgs))
	}
}

func TestSecondSessionRequiresPremium(t *testing.T) {
	f := setup(t, &scriptedGenerator{})
	f.createSession(t)

	resp := f.do(t, http.MethodPost, "/chat/sessions", map[string]string{"title": "another"})
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSendToUnknownSession(t *testing.T) {
	f := setup(t, &scriptedGenerator{})

	resp := f.do(t, http.MethodPost, "/chat/sessions/"+uuid.NewString()+"/send", map[string]string{"message": "hi"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSendEmptyMessage(t *testing.T) {
	f := setup(t, &scriptedGenerator{})
	sessionID := f.createSession(t)

	resp := f.do(t, http.MethodPost, "/chat/sessions/"+sessionID+"/send", map[string]string{"message": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	f := setup(t, &scriptedGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/chat/sessions", nil)
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestStatelessChat(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"You are not alone."}}
	f := setup(t, gen)

	// No Authorization header needed.
	payload, _ := json.Marshal(map[string]any{
		"message": "I feel low",
		"history": []map[string]string{{"role": "user", "content": "hi"}, {"role": "assistant", "content": "hello"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if out.Reply != "You are not alone." {
		t.Fatalf("unexpected reply: %q", out.Reply)
	}
}

func TestStatelessChatRejectsBadRole(t *testing.T) {
	f := setup(t, &scriptedGenerator{})

	payload, _ := json.Marshal(map[string]any{
		"message": "hi",
		"history": []map[string]string{{"role": "system", "content": "x"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
