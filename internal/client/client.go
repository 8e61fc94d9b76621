// Package client is a typed client for the ad-studio HTTP API, used by the
// terminal front-end.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adstudio/internal/domain"
)

// User mirrors the API's user payload.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResult is the payload of a successful register/login call.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Video mirrors the API's video payload.
type Video struct {
	ID     string `json:"id"`
	Src    string `json:"src"`
	Prompt string `json:"prompt"`
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Is lets callers detect expired or rejected sessions with
// errors.Is(err, domain.ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	return target == domain.ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client talks to one API server. The bearer token is set after login and
// cleared on logout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Minute}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken forgets the bearer token.
func (c *Client) ClearToken() { c.token = "" }

func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authCall(ctx, "/api/register", map[string]string{"email": email, "password": password})
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authCall(ctx, "/api/login", map[string]string{"email": email, "password": password})
}

func (c *Client) LoginWithGoogle(ctx context.Context, credential string) (*AuthResult, error) {
	return c.authCall(ctx, "/api/auth/google", map[string]string{"credential": credential})
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

func (c *Client) Videos(ctx context.Context) ([]Video, error) {
	var videos []Video
	if err := c.do(ctx, http.MethodGet, "/api/videos", nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// EditImage applies one instruction to an image and returns the edited bytes
// and their MIME type.
func (c *Client) EditImage(ctx context.Context, image []byte, mimeType, prompt string) ([]byte, string, error) {
	req := map[string]string{
		"imageB64":      base64.StdEncoding.EncodeToString(image),
		"imageMimeType": mimeType,
		"prompt":        prompt,
	}
	var resp struct {
		ImageB64      string `json:"imageB64"`
		ImageMimeType string `json:"imageMimeType"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/edit-image", req, &resp); err != nil {
		return nil, "", err
	}
	edited, err := base64.StdEncoding.DecodeString(resp.ImageB64)
	if err != nil {
		return nil, "", fmt.Errorf("api: decode edited image: %w", err)
	}
	return edited, resp.ImageMimeType, nil
}

// GenerateVideo submits one generation job and blocks until the server
// responds; the server owns the polling.
func (c *Client) GenerateVideo(ctx context.Context, image []byte, mimeType, prompt, aspectRatio string) (*Video, error) {
	req := map[string]string{
		"imageB64":      base64.StdEncoding.EncodeToString(image),
		"imageMimeType": mimeType,
		"prompt":        prompt,
		"aspectRatio":   aspectRatio,
	}
	var video Video
	if err := c.do(ctx, http.MethodPost, "/api/generate-video", req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: "unknown"}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
