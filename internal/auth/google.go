package auth

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the subset of a verified ID token the platform cares about.
type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// GoogleVerifier validates federated sign-in credentials.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

// GoogleIDTokenVerifier verifies Google ID tokens against a configured OAuth
// client ID using Google's published keys.
type GoogleIDTokenVerifier struct {
	clientID string
}

func NewGoogleIDTokenVerifier(clientID string) (*GoogleIDTokenVerifier, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	return &GoogleIDTokenVerifier{clientID: clientID}, nil
}

func (v *GoogleIDTokenVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate google credential: %w", err)
	}
	sub, _ := payload.Claims["sub"].(string)
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if sub == "" || email == "" {
		return nil, fmt.Errorf("google credential missing subject or email")
	}
	return &GoogleIdentity{Sub: sub, Email: email, Name: name}, nil
}

var _ GoogleVerifier = (*GoogleIDTokenVerifier)(nil)
