package scribe

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/fogfish/opts"

	"github.com/quillworks/quill/api"
	"github.com/quillworks/quill/pkg/uuidx"
	"github.com/quillworks/quill/provider"
	"github.com/quillworks/quill/provider/openai"
	"github.com/quillworks/quill/types"
)

// scribe is a prompt-bound capability: a named instruction template tied to
// a model. Each invocation renders the template with that call's context
// variables and executes a single completion.
type scribe struct {
	name         string
	model        api.Model
	instructions string
}

var (
	Name         = opts.ForName[scribe, string]("name")
	Model        = opts.ForName[scribe, api.Model]("model")
	Instructions = opts.ForName[scribe, string]("instructions")
)

func newScribe(defaultName string, options []opts.Option[scribe]) scribe {
	s := scribe{
		name:  defaultName,
		model: openai.GPT4oMini(),
	}
	if err := opts.Apply(&s, options); err != nil {
		panic(err)
	}
	return s
}

// RenderInstructions renders the instruction template with the provided
// context variables. Templates referencing variables that are absent fail
// rather than rendering "<no value>".
func (s *scribe) RenderInstructions(cv types.ContextVars) (string, error) {
	if !strings.Contains(s.instructions, "{{") {
		return s.instructions, nil
	}
	return renderTemplate(s.name, s.instructions, cv)
}

func renderTemplate(name, templateStr string, cv types.ContextVars) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, cv); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *scribe) complete(ctx context.Context, cv types.ContextVars) (string, error) {
	instructions, err := s.RenderInstructions(cv)
	if err != nil {
		return "", fmt.Errorf("failed to render instructions: %w", err)
	}

	resp, err := s.model.Provider().Complete(ctx, provider.CompletionParams{
		RunID:        uuidx.New(),
		Instructions: instructions,
		Sender:       s.name,
		Model:        s.model,
	})
	if err != nil {
		return "", err
	}

	// Trailing whitespace and fencing newlines are completion artifacts, not
	// content. Normalizing here keeps the sentinel comparison downstream an
	// exact match on what the capability actually said.
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", fmt.Errorf("%s returned an empty completion", s.name)
	}
	return content, nil
}
