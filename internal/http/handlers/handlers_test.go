package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlexandrGonin/eatprayit-backend/internal/config"
	"github.com/AlexandrGonin/eatprayit-backend/internal/http/middleware"
	"github.com/AlexandrGonin/eatprayit-backend/internal/models"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store/memory"

	"github.com/go-chi/chi/v5"
)

type testEnv struct {
	handler *Handler
	router  http.Handler
	users   *memory.UserStore
	events  *memory.EventStore
	cfg     *config.Config
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     "test-secret",
		AuthRateRPS:   100,
		AuthRateBurst: 100,
	}
	if mutate != nil {
		mutate(cfg)
	}

	users := memory.NewUserStore()
	events := memory.NewEventStore()
	h := New(users, events, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Post("/auth/telegram", h.AuthTelegram)
	r.Post("/check-access", h.CheckAccess)
	r.Get("/profile/{id}", h.GetProfile)
	r.Get("/events/{id}", h.ListEvents)
	r.Get("/events/tags/{id}", h.EventTags)
	r.Get("/events/detail/{id}", h.EventDetail)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, cfg.EnforceToken))
		r.Patch("/profile/{id}", h.UpdateProfile)
		r.Get("/admin/users", h.ListUsers)
	})
	r.NotFound(h.NotFound)

	return &testEnv{handler: h, router: r, users: users, events: events, cfg: cfg}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return payload
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodGet, "/health", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if decodeBody(t, resp)["status"] != "OK" {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestUnmatchedRouteNamesPath(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodGet, "/no/such/route", nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] != "route not found: /no/such/route" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestAuthTelegramCreatesProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/auth/telegram", map[string]interface{}{
		"id":         int64(100),
		"first_name": "Alice",
		"username":   "alice",
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("missing success marker: %s", resp.Body.String())
	}
	if body["access_token"] == "" || body["access_token"] == nil {
		t.Fatalf("expected an access token")
	}
	user := body["user"].(map[string]interface{})
	if user["bio"] == "" {
		t.Fatalf("expected default bio")
	}
	if user["referral_code"] == "" || user["referral_code"] == nil {
		t.Fatalf("expected referral code")
	}
}

func TestAuthTelegramRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, body := range []map[string]interface{}{
		{"first_name": "Alice"},
		{"id": int64(100)},
		{},
	} {
		resp := env.do(t, http.MethodPost, "/auth/telegram", body, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("payload %v: expected 400, got %d", body, resp.Code)
		}
	}
}

// TestAuthTelegramIdempotent verifies that repeating the same auth call
// yields the same profile (modulo timestamp).
func TestAuthTelegramIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	payload := map[string]interface{}{"id": int64(100), "first_name": "Alice", "last_name": "Smith"}

	first := env.do(t, http.MethodPost, "/auth/telegram", payload, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first auth: %d", first.Code)
	}
	second := env.do(t, http.MethodPost, "/auth/telegram", payload, nil)
	if second.Code != http.StatusOK {
		t.Fatalf("second auth: %d", second.Code)
	}

	u1 := decodeBody(t, first)["user"].(map[string]interface{})
	u2 := decodeBody(t, second)["user"].(map[string]interface{})
	delete(u1, "updated_at")
	delete(u2, "updated_at")
	j1, _ := json.Marshal(u1)
	j2, _ := json.Marshal(u2)
	if !bytes.Equal(j1, j2) {
		t.Fatalf("profiles differ:\n%s\n%s", j1, j2)
	}
}

func TestAuthTelegramRequireRegistration(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) { cfg.RequireRegistration = true })

	resp := env.do(t, http.MethodPost, "/auth/telegram", map[string]interface{}{
		"id": int64(100), "first_name": "Alice",
	}, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unregistered user, got %d", resp.Code)
	}
	if decodeBody(t, resp)["hasAccess"] != false {
		t.Fatalf("expected hasAccess:false, got %s", resp.Body.String())
	}

	// Pre-register out-of-band, then the same call succeeds.
	if _, err := env.users.Upsert(context.Background(), models.User{TelegramID: 100, FirstName: "Alice"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	resp = env.do(t, http.MethodPost, "/auth/telegram", map[string]interface{}{
		"id": int64(100), "first_name": "Alice",
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 after registration, got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestAuthTelegramRateLimited(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.AuthRateRPS = 0.001
		cfg.AuthRateBurst = 2
	})
	payload := map[string]interface{}{"id": int64(1), "first_name": "A"}

	for i := 0; i < 2; i++ {
		if resp := env.do(t, http.MethodPost, "/auth/telegram", payload, nil); resp.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i, resp.Code)
		}
	}
	if resp := env.do(t, http.MethodPost, "/auth/telegram", payload, nil); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", resp.Code)
	}
}

func TestAuthTelegramRequireInitData(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.RequireInitData = true
		cfg.TelegramToken = "123456:test_bot_token"
	})
	resp := env.do(t, http.MethodPost, "/auth/telegram", map[string]interface{}{
		"id": int64(1), "first_name": "A",
	}, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without init_data, got %d", resp.Code)
	}

	resp = env.do(t, http.MethodPost, "/auth/telegram", map[string]interface{}{
		"init_data": "hash=deadbeef&user=%7B%22id%22%3A1%7D",
	}, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", resp.Code)
	}
}
