package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill/api"
	"github.com/quillworks/quill/pkg/uuidx"
)

type captureHook struct {
	seen []Event
}

func (c *captureHook) OnProduced(_ context.Context, e Produced)     { c.seen = append(c.seen, e) }
func (c *captureHook) OnCritiqued(_ context.Context, e Critiqued)   { c.seen = append(c.seen, e) }
func (c *captureHook) OnRefined(_ context.Context, e Refined)       { c.seen = append(c.seen, e) }
func (c *captureHook) OnChecked(_ context.Context, e Checked)       { c.seen = append(c.seen, e) }
func (c *captureHook) OnTerminated(_ context.Context, e Terminated) { c.seen = append(c.seen, e) }
func (c *captureHook) OnError(_ context.Context, e Error)           { c.seen = append(c.seen, e) }

func TestCompositeHookFansOut(t *testing.T) {
	first := &captureHook{}
	second := &captureHook{}
	hook := NewCompositeHook(first, second)

	ctx := context.Background()
	runID := uuidx.New()

	hook.OnProduced(ctx, Produced{RunID: runID, Artifact: "v0"})
	hook.OnCritiqued(ctx, Critiqued{RunID: runID, Iteration: 1, Feedback: "fix X"})
	hook.OnRefined(ctx, Refined{RunID: runID, Iteration: 1, Artifact: "v1"})
	hook.OnChecked(ctx, Checked{RunID: runID, Sender: "grammar", Output: "ok"})
	hook.OnTerminated(ctx, Terminated{RunID: runID, Iterations: 1, Reason: api.TerminationBound, Artifact: "v1"})
	hook.OnError(ctx, Error{RunID: runID, Step: api.StepCritique, Err: errors.New("boom")})

	require.Len(t, first.seen, 6)
	assert.Equal(t, first.seen, second.seen)

	_, ok := first.seen[0].(Produced)
	assert.True(t, ok)
	_, ok = first.seen[5].(Error)
	assert.True(t, ok)
}

func TestCompositeHookEmpty(t *testing.T) {
	hook := NewCompositeHook()
	assert.NotPanics(t, func() {
		hook.OnProduced(context.Background(), Produced{RunID: uuidx.New(), Artifact: "v0"})
	})
}
