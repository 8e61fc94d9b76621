package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Session is the locally persisted login state: the bearer token plus the
// profile it belongs to.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// DefaultSessionPath returns the per-user location of the session file.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "adstudio", "session.json"), nil
}

// LoadSession reads a persisted session. A missing file is not an error; it
// returns (nil, nil).
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: parse: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// SaveSession persists the session, creating parent directories as needed.
// The file is user-only since it holds a bearer token.
func SaveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("session: ensure directory: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// ClearSession removes the persisted session. Clearing an absent session is
// a no-op.
func ClearSession(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove: %w", err)
	}
	return nil
}
