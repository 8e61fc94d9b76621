// Package memory provides process-local implementations of the domain store
// interfaces. It is the default backend when no DATABASE_URL is configured and
// the substitution point a real datastore plugs into.
package memory

import (
	"context"
	"strings"
	"sync"

	"adstudio/internal/domain"
)

// Store keeps users and videos in memory behind a single mutex. Request
// handling is concurrent, so every access goes through the lock.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*domain.User // keyed by ID
	emails map[string]string      // lower-cased email -> ID
	subs   map[string]string      // google sub -> ID
	videos map[string][]domain.Video
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
		subs:   make(map[string]string),
		videos: make(map[string][]domain.Video),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(user.Email)
	if _, ok := s.emails[key]; ok {
		return domain.ErrEmailTaken
	}
	clone := *user
	s.users[user.ID] = &clone
	s.emails[key] = user.ID
	if user.GoogleSub != "" {
		s.subs[user.GoogleSub] = user.ID
	}
	return nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[normalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *s.users[id]
	return &clone, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *Store) UpsertByGoogleSub(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.subs[user.GoogleSub]; ok {
		clone := *s.users[id]
		return &clone, nil
	}
	// A password account with the same email adopts the Google identity.
	if id, ok := s.emails[normalizeEmail(user.Email)]; ok {
		existing := s.users[id]
		existing.GoogleSub = user.GoogleSub
		s.subs[user.GoogleSub] = id
		clone := *existing
		return &clone, nil
	}
	clone := *user
	s.users[user.ID] = &clone
	s.emails[normalizeEmail(user.Email)] = user.ID
	s.subs[user.GoogleSub] = user.ID
	result := clone
	return &result, nil
}

func (s *Store) Append(ctx context.Context, video *domain.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[video.UserID]; !ok {
		return domain.ErrNotFound
	}
	// Newest first.
	s.videos[video.UserID] = append([]domain.Video{*video}, s.videos[video.UserID]...)
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.videos[userID]
	out := make([]domain.Video, len(list))
	copy(out, list)
	return out, nil
}

var (
	_ domain.UserStore  = (*Store)(nil)
	_ domain.VideoStore = (*Store)(nil)
)
