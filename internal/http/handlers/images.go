package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"adstudio/internal/providers/image"
)

type editImageRequest struct {
	ImageB64      string `json:"imageB64"`
	ImageMimeType string `json:"imageMimeType"`
	Prompt        string `json:"prompt"`
}

type editImageResponse struct {
	ImageB64      string `json:"imageB64"`
	ImageMimeType string `json:"imageMimeType"`
}

func (a *App) EditImage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Editor == nil {
		a.error(w, http.StatusServiceUnavailable, "not_configured", "image editing is not configured")
		return
	}
	var req editImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	imageBytes, err := base64.StdEncoding.DecodeString(req.ImageB64)
	if err != nil || len(imageBytes) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "imageB64 must be valid base64")
		return
	}

	result, err := a.Editor.Edit(r.Context(), image.EditRequest{
		ImageBytes:  imageBytes,
		MIMEType:    req.ImageMimeType,
		Instruction: req.Prompt,
	})
	if err != nil {
		var editErr *image.EditError
		if errors.As(err, &editErr) {
			switch editErr.Reason {
			case image.ReasonSafetyBlocked:
				a.error(w, http.StatusUnprocessableEntity, "safety_blocked", "the edit was blocked by safety filters")
			default:
				a.error(w, http.StatusBadGateway, "no_result", "the provider returned no edited image")
			}
			return
		}
		a.Logger.Error().Err(err).Msg("edit image failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "image editing failed")
		return
	}

	mimeType := result.MIMEType
	if mimeType == "" {
		mimeType = req.ImageMimeType
	}
	a.json(w, http.StatusOK, editImageResponse{
		ImageB64:      base64.StdEncoding.EncodeToString(result.ImageBytes),
		ImageMimeType: mimeType,
	})
}
