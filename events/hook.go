package events

import (
	"context"
	"log/slog"
	"slices"

	"github.com/quillworks/quill/pkg/slogx"
)

// Hook receives the events of a refinement run as they happen. The interface
// is deliberately designed without a provided no-op implementation so that
// consumers make an explicit decision about every event type; when new event
// types are added, implementations fail to compile until they handle them.
type Hook interface {
	OnProduced(context.Context, Produced)

	OnCritiqued(context.Context, Critiqued)

	OnRefined(context.Context, Refined)

	OnChecked(context.Context, Checked)

	OnTerminated(context.Context, Terminated)

	OnError(context.Context, Error)
}

// LoggingHook returns a Hook that writes every event to slog. It is the
// default hook for loops constructed without one.
func LoggingHook() Hook {
	return &loggingHook{}
}

type loggingHook struct{}

func (loggingHook) OnProduced(ctx context.Context, e Produced) {
	slog.DebugContext(ctx, "artifact produced",
		slogx.Stringer("run_id", e.RunID),
		slog.String("sender", e.Sender),
		slog.Int("artifact_len", len(e.Artifact)),
	)
}

func (loggingHook) OnCritiqued(ctx context.Context, e Critiqued) {
	slog.DebugContext(ctx, "artifact critiqued",
		slogx.Stringer("run_id", e.RunID),
		slog.Int("iteration", e.Iteration),
		slog.String("sender", e.Sender),
		slog.String("feedback", e.Feedback),
	)
}

func (loggingHook) OnRefined(ctx context.Context, e Refined) {
	slog.DebugContext(ctx, "artifact refined",
		slogx.Stringer("run_id", e.RunID),
		slog.Int("iteration", e.Iteration),
		slog.String("sender", e.Sender),
		slog.Int("artifact_len", len(e.Artifact)),
	)
}

func (loggingHook) OnChecked(ctx context.Context, e Checked) {
	slog.DebugContext(ctx, "artifact checked",
		slogx.Stringer("run_id", e.RunID),
		slog.String("sender", e.Sender),
		slog.String("output", e.Output),
	)
}

func (loggingHook) OnTerminated(ctx context.Context, e Terminated) {
	slog.InfoContext(ctx, "run terminated",
		slogx.Stringer("run_id", e.RunID),
		slog.Int("iterations", e.Iterations),
		slogx.Stringer("reason", e.Reason),
	)
}

func (loggingHook) OnError(ctx context.Context, e Error) {
	slog.ErrorContext(ctx, "run failed",
		slogx.Stringer("run_id", e.RunID),
		slogx.Stringer("step", e.Step),
		slogx.Error(e),
	)
}

// NewCompositeHook combines multiple hooks into one; every event fans out to
// all of them in order.
func NewCompositeHook(hooks ...Hook) Hook {
	return CompositeHook(hooks)
}

// CompositeHook allows combining multiple hooks into a single hook
// implementation.
type CompositeHook []Hook

func (c CompositeHook) OnProduced(ctx context.Context, e Produced) {
	for h := range slices.Values(c) {
		h.OnProduced(ctx, e)
	}
}

func (c CompositeHook) OnCritiqued(ctx context.Context, e Critiqued) {
	for h := range slices.Values(c) {
		h.OnCritiqued(ctx, e)
	}
}

func (c CompositeHook) OnRefined(ctx context.Context, e Refined) {
	for h := range slices.Values(c) {
		h.OnRefined(ctx, e)
	}
}

func (c CompositeHook) OnChecked(ctx context.Context, e Checked) {
	for h := range slices.Values(c) {
		h.OnChecked(ctx, e)
	}
}

func (c CompositeHook) OnTerminated(ctx context.Context, e Terminated) {
	for h := range slices.Values(c) {
		h.OnTerminated(ctx, e)
	}
}

func (c CompositeHook) OnError(ctx context.Context, e Error) {
	for h := range slices.Values(c) {
		h.OnError(ctx, e)
	}
}
