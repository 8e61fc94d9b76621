package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"adstudio/internal/providers/image"
)

type fakeEditor struct {
	result *image.EditResult
	err    error

	instruction string
}

func (f *fakeEditor) Edit(ctx context.Context, req image.EditRequest) (*image.EditResult, error) {
	f.instruction = req.Instruction
	return f.result, f.err
}

func TestEditImageReturnsEditedBytes(t *testing.T) {
	app, _ := newTestApp()
	editor := &fakeEditor{result: &image.EditResult{ImageBytes: []byte("edited"), MIMEType: "image/png"}}
	app.Editor = editor
	userID := registerUser(t, app)

	rec := authedJSON(t, app.EditImage, userID, http.MethodPost, "/api/edit-image", editImageRequest{
		ImageB64:      base64.StdEncoding.EncodeToString([]byte("original")),
		ImageMimeType: "image/png",
		Prompt:        "remove the background",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("EditImage() status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if editor.instruction != "remove the background" {
		t.Fatalf("editor received instruction %q", editor.instruction)
	}
	var resp editImageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(resp.ImageB64)
	if err != nil || string(decoded) != "edited" {
		t.Fatalf("EditImage() imageB64 = %q, want edited bytes", resp.ImageB64)
	}
}

func TestEditImageSafetyBlocked(t *testing.T) {
	app, _ := newTestApp()
	app.Editor = &fakeEditor{err: &image.EditError{Reason: image.ReasonSafetyBlocked}}
	userID := registerUser(t, app)

	rec := authedJSON(t, app.EditImage, userID, http.MethodPost, "/api/edit-image", editImageRequest{
		ImageB64: base64.StdEncoding.EncodeToString([]byte("original")),
		Prompt:   "p",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("EditImage() status = %d, want 422", rec.Code)
	}
}

func TestEditImageNoResult(t *testing.T) {
	app, _ := newTestApp()
	app.Editor = &fakeEditor{err: &image.EditError{Reason: image.ReasonNoResult}}
	userID := registerUser(t, app)

	rec := authedJSON(t, app.EditImage, userID, http.MethodPost, "/api/edit-image", editImageRequest{
		ImageB64: base64.StdEncoding.EncodeToString([]byte("original")),
		Prompt:   "p",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("EditImage() status = %d, want 502", rec.Code)
	}
}

func TestEditImageUnconfigured(t *testing.T) {
	app, _ := newTestApp()
	userID := registerUser(t, app)
	rec := authedJSON(t, app.EditImage, userID, http.MethodPost, "/api/edit-image", editImageRequest{
		ImageB64: base64.StdEncoding.EncodeToString([]byte("original")),
		Prompt:   "p",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("EditImage() status = %d, want 503", rec.Code)
	}
}
