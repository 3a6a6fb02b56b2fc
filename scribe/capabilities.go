package scribe

import (
	"context"

	"github.com/fogfish/opts"

	"github.com/quillworks/quill/api"
	"github.com/quillworks/quill/types"
)

var (
	_ api.Generator = (*generator)(nil)
	_ api.Critic    = (*critic)(nil)
	_ api.Refiner   = (*refiner)(nil)
	_ api.Check     = (*check)(nil)
)

// Generator creates a prompt-bound generator. The instruction template may
// reference {{.Topic}}.
func Generator(options ...opts.Option[scribe]) api.Generator {
	return &generator{scribe: newScribe("generator", options)}
}

type generator struct {
	scribe
}

func (g *generator) Generate(ctx context.Context, topic string) (string, error) {
	return g.complete(ctx, types.ContextVars{"Topic": topic})
}

// Critic creates a prompt-bound critic. The instruction template may
// reference {{.Artifact}} and {{.Topic}}, and must instruct the model to
// answer with the exact completion sentinel when no issues remain.
func Critic(options ...opts.Option[scribe]) api.Critic {
	return &critic{scribe: newScribe("critic", options)}
}

type critic struct {
	scribe
}

func (c *critic) Critique(ctx context.Context, artifact, topic string) (string, error) {
	return c.complete(ctx, types.ContextVars{"Artifact": artifact, "Topic": topic})
}

// Refiner creates a prompt-bound refiner. The instruction template may
// reference {{.Artifact}} and {{.Feedback}}, and must instruct the model to
// output only the refined artifact.
func Refiner(options ...opts.Option[scribe]) api.Refiner {
	return &refiner{scribe: newScribe("refiner", options)}
}

type refiner struct {
	scribe
}

func (r *refiner) Refine(ctx context.Context, artifact, feedback string) (string, error) {
	return r.complete(ctx, types.ContextVars{"Artifact": artifact, "Feedback": feedback})
}

// Check creates a prompt-bound post-refinement check. The instruction
// template may reference {{.Artifact}}.
func Check(options ...opts.Option[scribe]) api.Check {
	return &check{scribe: newScribe("check", options)}
}

type check struct {
	scribe
}

func (c *check) Name() string {
	return c.name
}

func (c *check) Check(ctx context.Context, artifact string) (string, error) {
	return c.complete(ctx, types.ContextVars{"Artifact": artifact})
}
