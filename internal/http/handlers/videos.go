package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"adstudio/internal/domain"
	"adstudio/internal/generate"
)

type videoDTO struct {
	ID     string `json:"id"`
	Src    string `json:"src"`
	Prompt string `json:"prompt"`
}

type generateVideoRequest struct {
	ImageB64      string `json:"imageB64"`
	ImageMimeType string `json:"imageMimeType"`
	Prompt        string `json:"prompt"`
	AspectRatio   string `json:"aspectRatio"`
}

func (a *App) ListVideos(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	videos, err := a.Videos.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list videos failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load videos")
		return
	}
	out := make([]videoDTO, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoDTO{ID: v.ID, Src: v.Src, Prompt: v.Prompt})
	}
	a.json(w, http.StatusOK, out)
}

func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req generateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	aspect, err := domain.ParseAspectRatio(req.AspectRatio)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "aspect ratio must be 16:9 or 9:16")
		return
	}
	imageBytes, err := base64.StdEncoding.DecodeString(req.ImageB64)
	if err != nil || len(imageBytes) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "imageB64 must be valid base64")
		return
	}

	vid, err := a.Generator.GenerateAd(r.Context(), userID, generate.Request{
		ImageBytes:  imageBytes,
		MIMEType:    req.ImageMimeType,
		Prompt:      req.Prompt,
		AspectRatio: aspect,
	})
	if err != nil {
		a.respondGenerateError(w, err)
		return
	}
	a.json(w, http.StatusCreated, videoDTO{ID: vid.ID, Src: vid.Src, Prompt: vid.Prompt})
}

func (a *App) respondGenerateError(w http.ResponseWriter, err error) {
	var genErr *generate.Error
	if errors.As(err, &genErr) {
		switch genErr.Reason {
		case generate.ReasonMissingConfig:
			a.error(w, http.StatusServiceUnavailable, "not_configured", "video generation is not configured")
		case generate.ReasonNoResult:
			a.error(w, http.StatusBadGateway, "no_result", "video generation returned no result")
		default:
			a.error(w, http.StatusBadGateway, "provider_failure", "video generation failed")
		}
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	a.Logger.Error().Err(err).Msg("generate video failed")
	a.error(w, http.StatusInternalServerError, "internal", "failed to generate video")
}
