package provider

import (
	"context"

	"github.com/google/uuid"
)

// Provider defines the interface for AI model providers (e.g. OpenAI).
// Implementations handle the specifics of communicating with different AI
// services while maintaining a consistent interface for the rest of the
// application.
//
// The contract is deliberately single-shot: one request, one complete
// response. The refinement loop consumes whole artifacts and whole feedback
// strings, so a streaming surface would add nothing but buffering.
type Provider interface {
	Complete(context.Context, CompletionParams) (Response, error)
}

// CompletionParams encapsulates all parameters needed for a completion
// request.
type CompletionParams struct {
	// RunID uniquely identifies the refinement run this request belongs to,
	// for tracking and debugging.
	RunID uuid.UUID

	// Instructions is the fully rendered prompt for this capability
	// invocation. Capabilities receive all of their inputs through the
	// instructions; there is no separate conversation history.
	Instructions string

	// Sender names the capability making the request, for logging.
	Sender string

	// Model specifies which AI model to use for this completion.
	Model interface {
		Name() string
		Provider() Provider
	}

	// Prevents unkeyed literals
	_ struct{}
}

// Response is a completed model response.
type Response struct {
	// Content is the full text of the model's reply.
	Content string
}
