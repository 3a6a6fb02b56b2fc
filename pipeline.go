package quill

import (
	"context"
	"errors"
	"time"

	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"

	"github.com/quillworks/quill/api"
	"github.com/quillworks/quill/events"
)

// Pipeline composes a refinement loop with an ordered list of read-only
// post-checks that run over the final artifact, e.g. a grammar check and a
// tone check. Checks report their findings but never mutate the artifact.
type Pipeline struct {
	loop   *Loop
	checks []api.Check
}

// WithLoop sets the refinement loop the pipeline runs first.
var WithLoop = opts.ForName[Pipeline, *Loop]("loop")

// Checks appends post-refinement checks, run in the order given.
func Checks(check api.Check, extraChecks ...api.Check) opts.Option[Pipeline] {
	return opts.Type[Pipeline](func(p *Pipeline) error {
		p.checks = append(p.checks, check)
		p.checks = append(p.checks, extraChecks...)
		return nil
	})
}

// NewPipeline creates a pipeline from the provided options.
func NewPipeline(options ...opts.Option[Pipeline]) *Pipeline {
	p := &Pipeline{}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	return p
}

// Run executes the refinement loop and then each check against the final
// artifact. Check outputs are collected on the result in pipeline order. A
// failing check aborts the run the same way a failing loop step does: the
// caller gets the error, not a partial result.
func (p *Pipeline) Run(ctx context.Context, topic string) (api.Result, error) {
	if p.loop == nil {
		return api.Result{}, errors.New("pipeline requires a loop")
	}

	result, err := p.loop.Run(ctx, topic)
	if err != nil {
		return api.Result{}, err
	}

	for _, check := range p.checks {
		output, err := check.Check(ctx, result.Artifact)
		if err != nil {
			return api.Result{}, p.loop.fail(ctx, result.RunID, api.StepCheck, &StepError{Step: api.StepCheck, Err: err})
		}
		if output == "" {
			return api.Result{}, p.loop.fail(ctx, result.RunID, api.StepCheck, &StepError{Step: api.StepCheck, Err: errors.New(check.Name() + " returned empty output")})
		}

		p.loop.hook.OnChecked(ctx, events.Checked{
			RunID:     result.RunID,
			Sender:    check.Name(),
			Output:    output,
			Timestamp: strfmt.DateTime(time.Now()),
		})
		result.Checks = append(result.Checks, api.CheckResult{Name: check.Name(), Output: output})
	}

	return result, nil
}
