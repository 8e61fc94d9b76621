package client

import (
	"path/filepath"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	loaded, err := LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession(missing) unexpected error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("LoadSession(missing) = %+v, want nil", loaded)
	}

	s := &Session{Token: "tok-123", User: User{ID: "u-1", Email: "user@example.com"}}
	if err := SaveSession(path, s); err != nil {
		t.Fatalf("SaveSession() unexpected error: %v", err)
	}
	loaded, err = LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession() unexpected error: %v", err)
	}
	if loaded == nil || loaded.Token != "tok-123" || loaded.User.Email != "user@example.com" {
		t.Fatalf("LoadSession() = %+v, want saved session", loaded)
	}

	if err := ClearSession(path); err != nil {
		t.Fatalf("ClearSession() unexpected error: %v", err)
	}
	loaded, err = LoadSession(path)
	if err != nil || loaded != nil {
		t.Fatalf("LoadSession(after clear) = %+v, %v, want nil, nil", loaded, err)
	}
	if err := ClearSession(path); err != nil {
		t.Fatalf("ClearSession(absent) unexpected error: %v", err)
	}
}
