package image

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiOptions configures the Gemini-backed editor.
type GeminiOptions struct {
	APIKey string
	Model  string
}

// GeminiEditor edits product images with a Gemini image model.
type GeminiEditor struct {
	client *genai.Client
	model  string
}

func NewGeminiEditor(ctx context.Context, opts GeminiOptions) (*GeminiEditor, error) {
	if opts.APIKey == "" {
		return nil, errors.New("image: API key is required")
	}
	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("image: init genai client: %w", err)
	}
	return &GeminiEditor{client: client, model: model}, nil
}

func (g *GeminiEditor) Edit(ctx context.Context, req EditRequest) (*EditResult, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.ImageBytes, req.MIMEType),
			genai.NewPartFromText(req.Instruction),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("image: generate content: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &EditError{Reason: ReasonSafetyBlocked, Msg: string(resp.PromptFeedback.BlockReason)}
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return nil, &EditError{Reason: ReasonSafetyBlocked}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &EditResult{
					ImageBytes: part.InlineData.Data,
					MIMEType:   part.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return nil, &EditError{Reason: ReasonNoResult}
}

var _ Editor = (*GeminiEditor)(nil)
