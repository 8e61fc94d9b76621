// Package image abstracts the synchronous image-editing provider.
package image

import (
	"context"
	"fmt"
)

// EditReason classifies edit failures.
type EditReason string

const (
	ReasonSafetyBlocked EditReason = "safety_blocked"
	ReasonNoResult      EditReason = "no_result"
)

// EditError is the typed failure surfaced to handlers.
type EditError struct {
	Reason EditReason
	Msg    string
}

func (e *EditError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("image edit: %s: %s", e.Reason, e.Msg)
	}
	return fmt.Sprintf("image edit: %s", e.Reason)
}

// EditRequest carries one single-shot edit.
type EditRequest struct {
	ImageBytes  []byte
	MIMEType    string
	Instruction string
}

// EditResult is the edited image.
type EditResult struct {
	ImageBytes []byte
	MIMEType   string
}

// Editor applies a text instruction to an image and returns the edited image.
// The call is synchronous; there is no operation handle.
type Editor interface {
	Edit(ctx context.Context, req EditRequest) (*EditResult, error)
}
