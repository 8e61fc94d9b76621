package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio/internal/auth"
	"adstudio/internal/domain"
	"adstudio/internal/generate"
	"adstudio/internal/http/handlers"
	"adstudio/internal/store/memory"
)

func newTestServer(t *testing.T) (http.Handler, *auth.TokenIssuer, string) {
	t.Helper()
	store := memory.NewStore()
	userID := uuid.NewString()
	if err := store.Create(context.Background(), &domain.User{ID: userID, Email: "user@example.com"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	app := &handlers.App{
		Logger:    zerolog.Nop(),
		Users:     store,
		Videos:    store,
		Tokens:    tokens,
		Generator: generate.NewService(nil, store, generate.Options{Interval: time.Millisecond, MaxWait: time.Second, Logger: zerolog.Nop()}),
	}
	router := NewRouter(app, Options{Verifier: tokens})
	return router, tokens, userID
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := newTestServer(t)
	for _, tc := range []struct {
		name   string
		header string
	}{
		{name: "missing"},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.token"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: GET /api/videos status = %d, want 401", tc.name, rec.Code)
		}
	}
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	router, tokens, userID := newTestServer(t)
	token, err := tokens.Sign(userID)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/videos status = %d, want 200: %s", rec.Code, rec.Body)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	router, _, userID := newTestServer(t)
	expired := auth.NewTokenIssuer("test-secret", -time.Minute)
	token, err := expired.Sign(userID)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /api/videos with expired token status = %d, want 401", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/healthz status = %d, want 200", rec.Code)
	}
}
