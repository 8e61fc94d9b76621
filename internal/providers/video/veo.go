package video

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrNoResult is returned when a terminal operation carries no playable video.
var ErrNoResult = errors.New("video: operation returned no result")

// VeoOptions configures the Veo-backed generator.
type VeoOptions struct {
	APIKey string
	Model  string
}

// Veo generates videos through the Gemini API's Veo models.
type Veo struct {
	client *genai.Client
	model  string
}

// NewVeo constructs the generator. The API key is server-held; it never
// travels to clients.
func NewVeo(ctx context.Context, opts VeoOptions) (*Veo, error) {
	if opts.APIKey == "" {
		return nil, errors.New("video: API key is required")
	}
	model := opts.Model
	if model == "" {
		model = "veo-3.1-fast-generate-preview"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("video: init genai client: %w", err)
	}
	return &Veo{client: client, model: model}, nil
}

func (v *Veo) Start(ctx context.Context, req StartRequest) (*Operation, error) {
	var image *genai.Image
	if len(req.ImageBytes) > 0 {
		image = &genai.Image{ImageBytes: req.ImageBytes, MIMEType: req.MIMEType}
	}
	op, err := v.client.Models.GenerateVideos(ctx, v.model, req.Prompt, image, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		Resolution:     "720p",
		AspectRatio:    req.AspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("video: submit generation: %w", err)
	}
	return &Operation{Done: op.Done, Raw: op}, nil
}

func (v *Veo) Poll(ctx context.Context, op *Operation) (*Operation, error) {
	raw, ok := op.Raw.(*genai.GenerateVideosOperation)
	if !ok {
		return nil, errors.New("video: operation does not belong to this provider")
	}
	refreshed, err := v.client.Operations.GetVideosOperation(ctx, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("video: poll operation: %w", err)
	}
	return &Operation{Done: refreshed.Done, Raw: refreshed}, nil
}

func (v *Veo) Fetch(ctx context.Context, op *Operation) ([]byte, string, error) {
	raw, ok := op.Raw.(*genai.GenerateVideosOperation)
	if !ok {
		return nil, "", errors.New("video: operation does not belong to this provider")
	}
	if raw.Response == nil || len(raw.Response.GeneratedVideos) == 0 {
		return nil, "", ErrNoResult
	}
	vid := raw.Response.GeneratedVideos[0].Video
	if vid == nil {
		return nil, "", ErrNoResult
	}
	data := vid.VideoBytes
	if len(data) == 0 {
		// Download authenticates with the server-held key and fills VideoBytes.
		fetched, err := v.client.Files.Download(ctx, vid, nil)
		if err != nil {
			return nil, "", fmt.Errorf("video: download result: %w", err)
		}
		data = fetched
		if len(data) == 0 {
			data = vid.VideoBytes
		}
	}
	if len(data) == 0 {
		return nil, "", ErrNoResult
	}
	mimeType := vid.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	return data, mimeType, nil
}

var _ Generator = (*Veo)(nil)
