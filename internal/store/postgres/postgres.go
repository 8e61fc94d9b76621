// Package postgres implements the domain store interfaces on top of a pgx
// connection pool, for deployments that outgrow the in-memory backend.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"adstudio/internal/domain"
)

const uniqueViolation = "23505"

// Store persists users and videos in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Create(ctx context.Context, user *domain.User) error {
	_, err := s.pool.Exec(ctx, qInsertUser, user.ID, user.Email, nullable(user.PasswordHash), user.GoogleSub, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, qSelectUserByEmail, email))
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, qSelectUserByID, id))
}

func (s *Store) UpsertByGoogleSub(ctx context.Context, user *domain.User) (*domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, qUpsertGoogleUser, user.ID, user.Email, user.GoogleSub, user.CreatedAt))
}

func (s *Store) Append(ctx context.Context, video *domain.Video) error {
	_, err := s.pool.Exec(ctx, qInsertVideo, video.ID, video.UserID, video.Src, video.Prompt, video.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.Video, error) {
	rows, err := s.pool.Query(ctx, qSelectVideosByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("select videos: %w", err)
	}
	defer rows.Close()
	var videos []domain.Video
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(&v.ID, &v.UserID, &v.Src, &v.Prompt, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *Store) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.GoogleSub, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var (
	_ domain.UserStore  = (*Store)(nil)
	_ domain.VideoStore = (*Store)(nil)
)
