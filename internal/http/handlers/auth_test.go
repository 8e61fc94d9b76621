package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"adstudio/internal/auth"
	"adstudio/internal/store/memory"
)

type fakeGoogleVerifier struct {
	identity *auth.GoogleIdentity
	err      error
}

func (f *fakeGoogleVerifier) Verify(ctx context.Context, credential string) (*auth.GoogleIdentity, error) {
	return f.identity, f.err
}

func newTestApp() (*App, *memory.Store) {
	store := memory.NewStore()
	return &App{
		Logger: zerolog.Nop(),
		Users:  store,
		Videos: store,
		Tokens: auth.NewTokenIssuer("test-secret", time.Hour),
	}, store
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) authResponse {
	t.Helper()
	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestRegisterThenDuplicate(t *testing.T) {
	app, _ := newTestApp()

	rec := postJSON(t, app.Register, credentialsRequest{Email: "user@example.com", Password: "secret123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Register() status = %d, want 201: %s", rec.Code, rec.Body)
	}
	resp := decodeAuthResponse(t, rec)
	if resp.Token == "" || resp.User.Email != "user@example.com" {
		t.Fatalf("Register() response = %+v, want token and user", resp)
	}
	if _, err := app.Tokens.Verify(resp.Token); err != nil {
		t.Fatalf("Register() issued unverifiable token: %v", err)
	}

	dup := postJSON(t, app.Register, credentialsRequest{Email: "user@example.com", Password: "other"})
	if dup.Code != http.StatusBadRequest {
		t.Fatalf("duplicate Register() status = %d, want 400", dup.Code)
	}
	if !bytes.Contains(dup.Body.Bytes(), []byte("already exists")) {
		t.Fatalf("duplicate Register() body = %s, want already-exists message", dup.Body)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	app, _ := newTestApp()
	rec := postJSON(t, app.Register, credentialsRequest{Email: "user@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Register() without password status = %d, want 400", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp()
	if rec := postJSON(t, app.Register, credentialsRequest{Email: "user@example.com", Password: "secret123"}); rec.Code != http.StatusCreated {
		t.Fatalf("Register() status = %d", rec.Code)
	}

	ok := postJSON(t, app.Login, credentialsRequest{Email: "user@example.com", Password: "secret123"})
	if ok.Code != http.StatusOK {
		t.Fatalf("Login() status = %d, want 200: %s", ok.Code, ok.Body)
	}
	if resp := decodeAuthResponse(t, ok); resp.Token == "" {
		t.Fatalf("Login() returned no token")
	}

	bad := postJSON(t, app.Login, credentialsRequest{Email: "user@example.com", Password: "wrong"})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("Login() with bad password status = %d, want 400", bad.Code)
	}
	ghost := postJSON(t, app.Login, credentialsRequest{Email: "ghost@example.com", Password: "secret123"})
	if ghost.Code != http.StatusBadRequest {
		t.Fatalf("Login() unknown user status = %d, want 400", ghost.Code)
	}
}

func TestGoogleAuthCreatesUserOnFirstSight(t *testing.T) {
	app, _ := newTestApp()
	app.Google = &fakeGoogleVerifier{identity: &auth.GoogleIdentity{Sub: "sub-1", Email: "fed@example.com"}}

	first := postJSON(t, app.GoogleAuth, googleAuthRequest{Credential: "cred"})
	if first.Code != http.StatusOK {
		t.Fatalf("GoogleAuth() status = %d, want 200: %s", first.Code, first.Body)
	}
	firstResp := decodeAuthResponse(t, first)

	second := postJSON(t, app.GoogleAuth, googleAuthRequest{Credential: "cred"})
	secondResp := decodeAuthResponse(t, second)
	if secondResp.User.ID != firstResp.User.ID {
		t.Fatalf("GoogleAuth() created a second account: %s vs %s", secondResp.User.ID, firstResp.User.ID)
	}
}

func TestGoogleAuthRejectsBadCredential(t *testing.T) {
	app, _ := newTestApp()
	app.Google = &fakeGoogleVerifier{err: errors.New("bad token")}
	rec := postJSON(t, app.GoogleAuth, googleAuthRequest{Credential: "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("GoogleAuth() status = %d, want 401", rec.Code)
	}
}

func TestGoogleAuthUnconfigured(t *testing.T) {
	app, _ := newTestApp()
	rec := postJSON(t, app.GoogleAuth, googleAuthRequest{Credential: "cred"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GoogleAuth() without verifier status = %d, want 503", rec.Code)
	}
}
