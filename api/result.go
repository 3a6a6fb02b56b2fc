package api

import (
	"fmt"

	"github.com/google/uuid"
)

// TerminationReason records which of the two loop exit conditions fired.
// Exactly one reason is the cause of termination, although both conditions
// are checked every iteration.
type TerminationReason int

const (
	// TerminationSentinel means the critic returned the exact completion
	// sentinel and the loop stopped without a further refine call.
	TerminationSentinel TerminationReason = iota + 1

	// TerminationBound means the configured iteration cap was reached before
	// the critic signaled completion.
	TerminationBound
)

func (r TerminationReason) String() string {
	switch r {
	case TerminationSentinel:
		return "sentinel"
	case TerminationBound:
		return "bound"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler so the reason serializes as
// its name in event payloads.
func (r TerminationReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *TerminationReason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sentinel":
		*r = TerminationSentinel
	case "bound":
		*r = TerminationBound
	default:
		return fmt.Errorf("unknown termination reason %q", text)
	}
	return nil
}

// CheckResult is the output of one post-refinement check, in pipeline order.
type CheckResult struct {
	Name   string `json:"name"`
	Output string `json:"output"`
}

// Result is the outcome of a completed refinement run. It is only produced
// for the two terminal states; failed runs return an error and no Result.
type Result struct {
	// RunID uniquely identifies the run across logs and events.
	RunID uuid.UUID `json:"run_id"`

	// Artifact is the final work product: the artifact as of the start of
	// the terminating iteration when the sentinel matched, or the output of
	// the last refine call when the iteration bound was hit.
	Artifact string `json:"artifact"`

	// Iterations is the number of (critique, refine) pairs completed. An
	// iteration that terminates on the sentinel counts, even though its
	// refine step never ran.
	Iterations int `json:"iterations"`

	// Reason reports which exit condition ended the loop.
	Reason TerminationReason `json:"reason"`

	// Checks holds post-refinement check outputs when the run went through a
	// Pipeline; nil for a bare loop run.
	Checks []CheckResult `json:"checks,omitempty"`
}
