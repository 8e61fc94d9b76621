// Package video abstracts the asynchronous video-generation provider: one
// submitted job yields an operation handle that is polled until terminal,
// then fetched.
package video

import "context"

// StartRequest carries one generation job to the provider.
type StartRequest struct {
	Prompt      string
	ImageBytes  []byte
	MIMEType    string
	AspectRatio string
}

// Operation is the opaque handle for an in-flight provider job. Raw holds the
// provider-native operation value and is only touched by the implementation
// that produced it.
type Operation struct {
	Done bool
	Raw  any
}

// Generator is the provider contract the orchestrator drives.
type Generator interface {
	// Start submits exactly one generation job.
	Start(ctx context.Context, req StartRequest) (*Operation, error)
	// Poll re-queries the handle's status. Callers must not poll a
	// terminal operation again.
	Poll(ctx context.Context, op *Operation) (*Operation, error)
	// Fetch retrieves the finished video, returning its bytes and MIME type.
	Fetch(ctx context.Context, op *Operation) ([]byte, string, error)
}
