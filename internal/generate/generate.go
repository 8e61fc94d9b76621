// Package generate runs the video-generation job cycle: submit one provider
// job, poll the operation handle until terminal or the wall-clock budget is
// spent, fetch the result, and record it in the user's library.
package generate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio/internal/domain"
	"adstudio/internal/providers/video"
	"adstudio/internal/storage"
)

// Reason classifies generation failures.
type Reason string

const (
	ReasonMissingConfig Reason = "missing_configuration"
	ReasonNoResult      Reason = "no_result"
	ReasonProvider      Reason = "provider_failure"
)

// Error is the typed failure returned to handlers.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generate: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generate: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes provider-side failures matchable with
// errors.Is(err, domain.ErrProviderFailure).
func (e *Error) Is(target error) bool {
	return target == domain.ErrProviderFailure && e.Reason == ReasonProvider
}

// Request is one confirmed ad creation.
type Request struct {
	ImageBytes  []byte
	MIMEType    string
	Prompt      string
	AspectRatio domain.AspectRatio
}

// Options tunes the poll loop and optional media persistence.
type Options struct {
	// Interval between status polls. The provider reports progress no
	// faster than this.
	Interval time.Duration
	// MaxWait bounds the whole poll loop; exceeding it fails the job with
	// ReasonNoResult rather than waiting forever.
	MaxWait time.Duration
	// Media, when set, persists video bytes to disk and addresses them
	// under MediaBaseURL instead of inlining a data URI.
	Media        *storage.FileStore
	MediaBaseURL string
	Logger       zerolog.Logger
}

// Service orchestrates generation jobs. A nil generator means the provider is
// not configured; every job then fails fast with ReasonMissingConfig.
type Service struct {
	generator    video.Generator
	videos       domain.VideoStore
	interval     time.Duration
	maxWait      time.Duration
	media        *storage.FileStore
	mediaBaseURL string
	logger       zerolog.Logger
}

func NewService(generator video.Generator, videos domain.VideoStore, opts Options) *Service {
	interval := opts.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = 10 * time.Minute
	}
	return &Service{
		generator:    generator,
		videos:       videos,
		interval:     interval,
		maxWait:      maxWait,
		media:        opts.Media,
		mediaBaseURL: opts.MediaBaseURL,
		logger:       opts.Logger,
	}
}

// GenerateAd submits exactly one provider job for the request, waits for it
// to finish, and appends the resulting video to the head of the user's
// collection. Failures leave the collection untouched and are never retried
// here; resubmission is an explicit user action.
func (s *Service) GenerateAd(ctx context.Context, userID string, req Request) (*domain.Video, error) {
	if s.generator == nil {
		return nil, &Error{Reason: ReasonMissingConfig, Err: errors.New("video provider is not configured")}
	}

	op, err := s.generator.Start(ctx, video.StartRequest{
		Prompt:      req.Prompt,
		ImageBytes:  req.ImageBytes,
		MIMEType:    req.MIMEType,
		AspectRatio: string(req.AspectRatio),
	})
	if err != nil {
		return nil, &Error{Reason: ReasonProvider, Err: err}
	}

	deadline := time.Now().Add(s.maxWait)
	for !op.Done {
		if time.Now().After(deadline) {
			return nil, &Error{Reason: ReasonNoResult, Err: fmt.Errorf("operation not done after %s", s.maxWait)}
		}
		select {
		case <-ctx.Done():
			return nil, &Error{Reason: ReasonProvider, Err: ctx.Err()}
		case <-time.After(s.interval):
		}
		op, err = s.generator.Poll(ctx, op)
		if err != nil {
			return nil, &Error{Reason: ReasonProvider, Err: err}
		}
	}

	data, mimeType, err := s.generator.Fetch(ctx, op)
	if err != nil {
		if errors.Is(err, video.ErrNoResult) {
			return nil, &Error{Reason: ReasonNoResult, Err: err}
		}
		return nil, &Error{Reason: ReasonProvider, Err: err}
	}

	vid := &domain.Video{
		ID:        uuid.NewString(),
		UserID:    userID,
		Prompt:    req.Prompt,
		CreatedAt: time.Now(),
	}
	src, err := s.storeMedia(ctx, vid.ID, data, mimeType)
	if err != nil {
		return nil, err
	}
	vid.Src = src

	if err := s.videos.Append(ctx, vid); err != nil {
		return nil, fmt.Errorf("record video: %w", err)
	}
	s.logger.Info().
		Str("video_id", vid.ID).
		Str("user_id", userID).
		Int("bytes", len(data)).
		Msg("video generated")
	return vid, nil
}

func (s *Service) storeMedia(ctx context.Context, id string, data []byte, mimeType string) (string, error) {
	if s.media == nil {
		return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
	}
	key, err := s.media.Write(ctx, "videos/"+id+extensionFor(mimeType), data)
	if err != nil {
		return "", fmt.Errorf("persist video: %w", err)
	}
	return s.mediaBaseURL + "/" + key, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "video/webm":
		return ".webm"
	default:
		return ".mp4"
	}
}
