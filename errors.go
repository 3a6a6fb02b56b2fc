package quill

import (
	"fmt"

	"github.com/quillworks/quill/api"
)

// GenerationError reports that the producer step failed or returned an empty
// artifact. It is fatal to the run.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StepError reports that a capability invocation failed mid-run. It carries
// the failing step so callers can tell a broken critic from a broken refiner.
// It is fatal to the run; no partial artifact accompanies it.
type StepError struct {
	Step api.Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ContractViolationError reports that a refine step attempted to signal
// completion on its own authority: it returned the completion sentinel
// instead of an artifact, without the critic having produced the sentinel.
// Honoring it silently would terminate the loop on the wrong party's say-so,
// so the run fails instead.
type ContractViolationError struct {
	Iteration int
	Sentinel  string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("refine: returned the completion sentinel %q on iteration %d without critic authority", e.Sentinel, e.Iteration)
}
