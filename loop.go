package quill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/quillworks/quill/api"
	"github.com/quillworks/quill/events"
	"github.com/quillworks/quill/pkg/slogx"
	"github.com/quillworks/quill/pkg/uuidx"
)

const (
	// DefaultSentinel is the completion phrase a critic answers with when no
	// further refinement is needed. Matching is exact and case-sensitive.
	DefaultSentinel = "No major issues found."

	// DefaultMaxIterations bounds the critique/refine loop when no explicit
	// cap is configured.
	DefaultMaxIterations = 5
)

// Loop runs the bounded produce/critique/refine cycle for one topic at a
// time. A Loop is immutable after construction and safe for concurrent use;
// every Run owns its artifact, feedback, and counters locally, so
// independent runs never share state.
type Loop struct {
	name          string
	generator     api.Generator
	critic        api.Critic
	refiner       api.Refiner
	sentinel      string
	maxIterations int
	hook          events.Hook
}

var (
	// WithName sets the loop's name, used as the sender on run events.
	WithName = opts.ForName[Loop, string]("name")

	// WithGenerator sets the capability that produces the initial artifact.
	WithGenerator = opts.ForName[Loop, api.Generator]("generator")

	// WithCritic sets the capability that reviews the artifact each iteration.
	WithCritic = opts.ForName[Loop, api.Critic]("critic")

	// WithRefiner sets the capability that applies feedback to the artifact.
	WithRefiner = opts.ForName[Loop, api.Refiner]("refiner")

	// WithSentinel overrides the completion phrase.
	WithSentinel = opts.ForName[Loop, string]("sentinel")

	// WithMaxIterations caps the number of critique/refine iterations.
	WithMaxIterations = opts.ForName[Loop, int]("maxIterations")

	// WithHook sets the hook receiving run events.
	WithHook = opts.ForName[Loop, events.Hook]("hook")
)

// Capabilities configures the generator, critic, and refiner from a single
// value implementing all three interfaces.
func Capabilities(caps api.Capabilities) opts.Option[Loop] {
	return opts.Type[Loop](func(l *Loop) error {
		l.generator = caps
		l.critic = caps
		l.refiner = caps
		return nil
	})
}

// New creates a refinement loop with the provided options. Unconfigured
// settings fall back to DefaultSentinel, DefaultMaxIterations, and a hook
// that logs events through slog.
func New(options ...opts.Option[Loop]) *Loop {
	l := &Loop{
		name:          "refinement-loop",
		sentinel:      DefaultSentinel,
		maxIterations: DefaultMaxIterations,
		hook:          events.LoggingHook(),
	}
	if err := opts.Apply(l, options); err != nil {
		panic(err)
	}
	return l
}

func (l *Loop) validate(topic string) error {
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if l.maxIterations < 1 {
		return fmt.Errorf("maxIterations must be at least 1, got %d", l.maxIterations)
	}
	if l.generator == nil {
		return fmt.Errorf("generator cannot be nil")
	}
	if l.critic == nil {
		return fmt.Errorf("critic cannot be nil")
	}
	if l.refiner == nil {
		return fmt.Errorf("refiner cannot be nil")
	}
	if l.sentinel == "" {
		return fmt.Errorf("sentinel cannot be empty")
	}
	return nil
}

// Run produces an initial artifact for the topic and alternates critique and
// refine steps until the critic answers with the exact sentinel or the
// iteration cap is reached. Steps execute strictly sequentially; each step's
// input depends on the previous step's output.
//
// On success the result carries the final artifact, the number of iterations
// actually run, and which exit condition ended the loop. Any capability
// failure aborts the run: callers receive the error and no artifact.
func (l *Loop) Run(ctx context.Context, topic string) (api.Result, error) {
	if err := l.validate(topic); err != nil {
		return api.Result{}, err
	}

	runID := uuidx.New()

	artifact, err := l.generator.Generate(ctx, topic)
	if err != nil {
		return api.Result{}, l.fail(ctx, runID, api.StepGenerate, &GenerationError{Err: err})
	}
	if artifact == "" {
		return api.Result{}, l.fail(ctx, runID, api.StepGenerate, &GenerationError{Err: errors.New("generator returned an empty artifact")})
	}
	l.hook.OnProduced(ctx, events.Produced{
		RunID:     runID,
		Sender:    l.name,
		Artifact:  artifact,
		Timestamp: strfmt.DateTime(time.Now()),
	})

	var iterations int
	for {
		feedback, err := l.critic.Critique(ctx, artifact, topic)
		if err != nil {
			return api.Result{}, l.fail(ctx, runID, api.StepCritique, &StepError{Step: api.StepCritique, Err: err})
		}
		if feedback == "" {
			// An empty response can never be the sentinel, and a critique
			// with no content is a malformed capability response.
			return api.Result{}, l.fail(ctx, runID, api.StepCritique, &StepError{Step: api.StepCritique, Err: errors.New("critic returned empty feedback")})
		}
		l.hook.OnCritiqued(ctx, events.Critiqued{
			RunID:     runID,
			Iteration: iterations + 1,
			Sender:    l.name,
			Feedback:  feedback,
			Timestamp: strfmt.DateTime(time.Now()),
		})

		// Exact, case-sensitive comparison. Near-misses keep the loop going.
		if feedback == l.sentinel {
			iterations++
			return l.finish(ctx, runID, artifact, iterations, api.TerminationSentinel), nil
		}

		refined, err := l.refiner.Refine(ctx, artifact, feedback)
		if err != nil {
			return api.Result{}, l.fail(ctx, runID, api.StepRefine, &StepError{Step: api.StepRefine, Err: err})
		}
		if refined == "" {
			return api.Result{}, l.fail(ctx, runID, api.StepRefine, &StepError{Step: api.StepRefine, Err: errors.New("refiner returned an empty artifact")})
		}
		if refined == l.sentinel {
			// Termination authority belongs to the critic alone. A refiner
			// echoing the sentinel is rejected loudly, never honored.
			violation := &ContractViolationError{Iteration: iterations + 1, Sentinel: l.sentinel}
			slog.ErrorContext(ctx, "refiner attempted to terminate the loop",
				slogx.Stringer("run_id", runID),
				slog.Int("iteration", iterations+1),
			)
			return api.Result{}, l.fail(ctx, runID, api.StepRefine, violation)
		}

		artifact = refined
		l.hook.OnRefined(ctx, events.Refined{
			RunID:     runID,
			Iteration: iterations + 1,
			Sender:    l.name,
			Artifact:  artifact,
			Timestamp: strfmt.DateTime(time.Now()),
		})

		iterations++
		if iterations == l.maxIterations {
			return l.finish(ctx, runID, artifact, iterations, api.TerminationBound), nil
		}
	}
}

func (l *Loop) finish(ctx context.Context, runID uuid.UUID, artifact string, iterations int, reason api.TerminationReason) api.Result {
	l.hook.OnTerminated(ctx, events.Terminated{
		RunID:      runID,
		Iterations: iterations,
		Reason:     reason,
		Artifact:   artifact,
		Timestamp:  strfmt.DateTime(time.Now()),
	})
	return api.Result{
		RunID:      runID,
		Artifact:   artifact,
		Iterations: iterations,
		Reason:     reason,
	}
}

func (l *Loop) fail(ctx context.Context, runID uuid.UUID, step api.Step, err error) error {
	l.hook.OnError(ctx, events.Error{
		RunID:     runID,
		Step:      step,
		Err:       err,
		Sender:    l.name,
		Timestamp: strfmt.DateTime(time.Now()),
	})
	return err
}
