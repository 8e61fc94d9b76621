package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio/internal/domain"
	"adstudio/internal/providers/video"
	"adstudio/internal/store/memory"
)

type fakeGenerator struct {
	pollsUntilDone int
	startErr       error
	fetchErr       error
	data           []byte
	mimeType       string

	starts          int
	polls           int
	polledAfterDone bool
}

func (f *fakeGenerator) Start(ctx context.Context, req video.StartRequest) (*video.Operation, error) {
	f.starts++
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &video.Operation{Done: f.pollsUntilDone == 0, Raw: f}, nil
}

func (f *fakeGenerator) Poll(ctx context.Context, op *video.Operation) (*video.Operation, error) {
	if op.Done {
		f.polledAfterDone = true
	}
	f.polls++
	return &video.Operation{Done: f.polls >= f.pollsUntilDone, Raw: f}, nil
}

func (f *fakeGenerator) Fetch(ctx context.Context, op *video.Operation) ([]byte, string, error) {
	if f.fetchErr != nil {
		return nil, "", f.fetchErr
	}
	mimeType := f.mimeType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	return f.data, mimeType, nil
}

func newTestStore(t *testing.T) (*memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	userID := uuid.NewString()
	if err := store.Create(context.Background(), &domain.User{ID: userID, Email: "user@example.com"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return store, userID
}

func testOptions() Options {
	return Options{Interval: time.Millisecond, MaxWait: 50 * time.Millisecond, Logger: zerolog.Nop()}
}

func TestGenerateAdSuccess(t *testing.T) {
	store, userID := newTestStore(t)
	gen := &fakeGenerator{pollsUntilDone: 3, data: []byte("mp4-bytes")}
	svc := NewService(gen, store, testOptions())

	vid, err := svc.GenerateAd(context.Background(), userID, Request{
		ImageBytes:  []byte("img"),
		MIMEType:    "image/png",
		Prompt:      "a spinning product",
		AspectRatio: domain.AspectLandscape,
	})
	if err != nil {
		t.Fatalf("GenerateAd() unexpected error: %v", err)
	}
	if gen.starts != 1 {
		t.Fatalf("provider received %d jobs, want exactly 1", gen.starts)
	}
	if gen.polledAfterDone {
		t.Fatalf("terminal operation was re-polled")
	}
	if !strings.HasPrefix(vid.Src, "data:video/mp4;base64,") {
		t.Fatalf("GenerateAd() src = %q, want data URI", vid.Src)
	}
	list, err := store.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser() error: %v", err)
	}
	if len(list) != 1 || list[0].ID != vid.ID {
		t.Fatalf("store holds %d videos, want the 1 generated", len(list))
	}
}

func TestGenerateAdBoundedPolling(t *testing.T) {
	store, userID := newTestStore(t)
	gen := &fakeGenerator{pollsUntilDone: 1 << 30} // never completes
	svc := NewService(gen, store, testOptions())

	_, err := svc.GenerateAd(context.Background(), userID, Request{Prompt: "p", AspectRatio: domain.AspectPortrait})
	var genErr *Error
	if !errors.As(err, &genErr) || genErr.Reason != ReasonNoResult {
		t.Fatalf("GenerateAd() = %v, want Error{ReasonNoResult}", err)
	}
	assertNoVideos(t, store, userID)
}

func TestGenerateAdMissingProvider(t *testing.T) {
	store, userID := newTestStore(t)
	svc := NewService(nil, store, testOptions())
	_, err := svc.GenerateAd(context.Background(), userID, Request{Prompt: "p"})
	var genErr *Error
	if !errors.As(err, &genErr) || genErr.Reason != ReasonMissingConfig {
		t.Fatalf("GenerateAd() = %v, want Error{ReasonMissingConfig}", err)
	}
}

func TestGenerateAdStartFailure(t *testing.T) {
	store, userID := newTestStore(t)
	gen := &fakeGenerator{startErr: errors.New("boom")}
	svc := NewService(gen, store, testOptions())
	_, err := svc.GenerateAd(context.Background(), userID, Request{Prompt: "p"})
	var genErr *Error
	if !errors.As(err, &genErr) || genErr.Reason != ReasonProvider {
		t.Fatalf("GenerateAd() = %v, want Error{ReasonProvider}", err)
	}
	assertNoVideos(t, store, userID)
}

func TestGenerateAdFetchNoResult(t *testing.T) {
	store, userID := newTestStore(t)
	gen := &fakeGenerator{pollsUntilDone: 1, fetchErr: video.ErrNoResult}
	svc := NewService(gen, store, testOptions())
	_, err := svc.GenerateAd(context.Background(), userID, Request{Prompt: "p"})
	var genErr *Error
	if !errors.As(err, &genErr) || genErr.Reason != ReasonNoResult {
		t.Fatalf("GenerateAd() = %v, want Error{ReasonNoResult}", err)
	}
	assertNoVideos(t, store, userID)
}

func TestGenerateAdContextCanceled(t *testing.T) {
	store, userID := newTestStore(t)
	gen := &fakeGenerator{pollsUntilDone: 1 << 30}
	svc := NewService(gen, store, Options{Interval: 10 * time.Millisecond, MaxWait: time.Minute, Logger: zerolog.Nop()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.GenerateAd(ctx, userID, Request{Prompt: "p"})
	var genErr *Error
	if !errors.As(err, &genErr) || genErr.Reason != ReasonProvider {
		t.Fatalf("GenerateAd() with canceled context = %v, want Error{ReasonProvider}", err)
	}
	assertNoVideos(t, store, userID)
}

func assertNoVideos(t *testing.T, store *memory.Store, userID string) {
	t.Helper()
	list, err := store.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser() error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("store holds %d videos after failure, want 0", len(list))
	}
}
