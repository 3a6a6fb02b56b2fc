package api

import "context"

// Generator produces the initial artifact for a topic. Implementations are
// single-shot, possibly latent operations: one call, one complete artifact.
//
// The interface is deliberately minimal so that deterministic substitutes
// (fixtures, recorded transcripts) can stand in for a live model during tests.
type Generator interface {
	// Generate creates the initial artifact from the topic. An empty
	// artifact is treated as a failure by callers.
	Generate(ctx context.Context, topic string) (string, error)
}

// Critic reviews an artifact against the original topic and returns textual
// feedback, or the exact completion sentinel when no further refinement is
// needed. The sentinel comparison is owned by the loop controller, never by
// the critic itself.
type Critic interface {
	Critique(ctx context.Context, artifact, topic string) (string, error)
}

// Refiner applies feedback to an artifact and returns the replacement
// artifact. A refiner has no authority over loop termination: returning the
// completion sentinel instead of an artifact is a contract violation.
type Refiner interface {
	Refine(ctx context.Context, artifact, feedback string) (string, error)
}

// Check is a read-only validation pass that runs over the final artifact
// after refinement completes, e.g. a grammar or tone check. Checks never
// mutate the artifact; their output is reported alongside it.
type Check interface {
	// Name identifies the check in results and events.
	Name() string

	Check(ctx context.Context, artifact string) (string, error)
}

// Capabilities bundles the three refinement capabilities. A single value
// (typically a set of prompt-bound scribes sharing one model) can satisfy
// the whole loop.
type Capabilities interface {
	Generator
	Critic
	Refiner
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, topic string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, topic string) (string, error) {
	return f(ctx, topic)
}

// CriticFunc adapts a function to the Critic interface.
type CriticFunc func(ctx context.Context, artifact, topic string) (string, error)

func (f CriticFunc) Critique(ctx context.Context, artifact, topic string) (string, error) {
	return f(ctx, artifact, topic)
}

// RefinerFunc adapts a function to the Refiner interface.
type RefinerFunc func(ctx context.Context, artifact, feedback string) (string, error)

func (f RefinerFunc) Refine(ctx context.Context, artifact, feedback string) (string, error) {
	return f(ctx, artifact, feedback)
}
