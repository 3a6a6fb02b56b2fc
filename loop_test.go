package quill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill/api"
	"github.com/quillworks/quill/events"
)

func TestRunTerminatesOnSentinel(t *testing.T) {
	caps := &countingCapabilities{
		critique: func(_, _ string, _ int) (string, error) {
			return DefaultSentinel, nil
		},
	}
	loop := New(Capabilities(caps))

	result, err := loop.Run(context.Background(), "cat story")
	require.NoError(t, err)

	assert.Equal(t, "v0", result.Artifact)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, api.TerminationSentinel, result.Reason)

	generate, critique, refine := caps.counts()
	assert.Equal(t, 1, generate)
	assert.Equal(t, 1, critique)
	assert.Zero(t, refine, "sentinel must stop the loop before any refine call")
	assert.Equal(t, "cat story", caps.lastTopic)
}

func TestRunTerminatesOnIterationBound(t *testing.T) {
	caps := &countingCapabilities{}
	loop := New(Capabilities(caps), WithMaxIterations(2))

	result, err := loop.Run(context.Background(), "cat story")
	require.NoError(t, err)

	assert.Equal(t, "v2", result.Artifact, "artifact must be the output of the last refine call")
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, api.TerminationBound, result.Reason)

	_, critique, refine := caps.counts()
	assert.Equal(t, 2, critique)
	assert.Equal(t, 2, refine)
}

func TestRunSentinelMidway(t *testing.T) {
	caps := &countingCapabilities{
		critique: func(_, _ string, call int) (string, error) {
			if call == 2 {
				return DefaultSentinel, nil
			}
			return "needs work", nil
		},
	}
	loop := New(Capabilities(caps), WithMaxIterations(5))

	result, err := loop.Run(context.Background(), "cat story")
	require.NoError(t, err)

	// The sentinel arrived on iteration 2, so the artifact is frozen as it
	// was at the start of that iteration: the first refine's output.
	assert.Equal(t, "v1", result.Artifact)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, api.TerminationSentinel, result.Reason)

	_, critique, refine := caps.counts()
	assert.Equal(t, 2, critique)
	assert.Equal(t, 1, refine)
}

func TestRunSentinelMatchIsExact(t *testing.T) {
	nearMisses := []string{
		"no major issues found.",
		"No major issues found. ",
		" No major issues found.",
		"No major issues found",
		"Looks good. No major issues found.",
	}

	for _, feedback := range nearMisses {
		t.Run(fmt.Sprintf("%q", feedback), func(t *testing.T) {
			caps := &countingCapabilities{
				critique: func(_, _ string, _ int) (string, error) {
					return feedback, nil
				},
			}
			loop := New(Capabilities(caps), WithMaxIterations(2))

			result, err := loop.Run(context.Background(), "cat story")
			require.NoError(t, err)

			assert.Equal(t, api.TerminationBound, result.Reason, "a near-miss must not terminate the loop")
			_, _, refine := caps.counts()
			assert.Equal(t, 2, refine)
		})
	}
}

func TestRunRespectsCustomSentinel(t *testing.T) {
	caps := &countingCapabilities{
		critique: func(_, _ string, _ int) (string, error) {
			return "SHIP IT", nil
		},
	}
	loop := New(Capabilities(caps), WithSentinel("SHIP IT"))

	result, err := loop.Run(context.Background(), "cat story")
	require.NoError(t, err)
	assert.Equal(t, api.TerminationSentinel, result.Reason)
}

func TestRunGenerationFailure(t *testing.T) {
	t.Run("generator error", func(t *testing.T) {
		boom := errors.New("boom")
		caps := &countingCapabilities{
			generate: func(string) (string, error) { return "", boom },
		}
		loop := New(Capabilities(caps))

		result, err := loop.Run(context.Background(), "cat story")
		require.Error(t, err)

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, result.Artifact)

		_, critique, refine := caps.counts()
		assert.Zero(t, critique)
		assert.Zero(t, refine)
	})

	t.Run("empty artifact", func(t *testing.T) {
		caps := &countingCapabilities{
			generate: func(string) (string, error) { return "", nil },
		}
		loop := New(Capabilities(caps))

		_, err := loop.Run(context.Background(), "cat story")
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
	})
}

func TestRunCritiqueFailure(t *testing.T) {
	boom := errors.New("critic exploded")
	caps := &countingCapabilities{
		critique: func(_, _ string, _ int) (string, error) { return "", boom },
	}
	loop := New(Capabilities(caps))

	result, err := loop.Run(context.Background(), "cat story")
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, api.StepCritique, stepErr.Step)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, result.Artifact, "no artifact is returned on failure")

	_, _, refine := caps.counts()
	assert.Zero(t, refine, "no refine call after a failed critique")
}

func TestRunRefineFailure(t *testing.T) {
	t.Run("refiner error", func(t *testing.T) {
		boom := errors.New("refiner exploded")
		caps := &countingCapabilities{
			refine: func(_, _ string, _ int) (string, error) { return "", boom },
		}
		loop := New(Capabilities(caps))

		_, err := loop.Run(context.Background(), "cat story")
		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, api.StepRefine, stepErr.Step)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty refined artifact", func(t *testing.T) {
		caps := &countingCapabilities{
			refine: func(_, _ string, _ int) (string, error) { return "", nil },
		}
		loop := New(Capabilities(caps))

		_, err := loop.Run(context.Background(), "cat story")
		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, api.StepRefine, stepErr.Step)
	})
}

func TestRunRejectsRefinerTermination(t *testing.T) {
	caps := &countingCapabilities{
		refine: func(_, _ string, _ int) (string, error) {
			return DefaultSentinel, nil
		},
	}
	loop := New(Capabilities(caps))

	result, err := loop.Run(context.Background(), "cat story")
	require.Error(t, err)

	var violation *ContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 1, violation.Iteration)
	assert.Empty(t, result.Artifact)
}

func TestRunValidation(t *testing.T) {
	caps := &countingCapabilities{}

	t.Run("empty topic", func(t *testing.T) {
		loop := New(Capabilities(caps))
		_, err := loop.Run(context.Background(), "")
		require.Error(t, err)
		generate, _, _ := caps.counts()
		assert.Zero(t, generate, "no capability is invoked when validation fails")
	})

	t.Run("maxIterations below one", func(t *testing.T) {
		loop := New(Capabilities(caps), WithMaxIterations(0))
		_, err := loop.Run(context.Background(), "cat story")
		require.Error(t, err)
	})

	t.Run("missing capabilities", func(t *testing.T) {
		loop := New(WithGenerator(api.GeneratorFunc(func(context.Context, string) (string, error) {
			return "v0", nil
		})))
		_, err := loop.Run(context.Background(), "cat story")
		require.Error(t, err)
	})

	t.Run("empty sentinel", func(t *testing.T) {
		loop := New(Capabilities(caps), WithSentinel(""))
		_, err := loop.Run(context.Background(), "cat story")
		require.Error(t, err)
	})
}

func TestRunIterationBoundHolds(t *testing.T) {
	for _, maxIterations := range []int{1, 3, 7} {
		t.Run(fmt.Sprintf("max=%d", maxIterations), func(t *testing.T) {
			caps := &countingCapabilities{}
			loop := New(Capabilities(caps), WithMaxIterations(maxIterations))

			result, err := loop.Run(context.Background(), "cat story")
			require.NoError(t, err)

			assert.Equal(t, maxIterations, result.Iterations)
			_, critique, refine := caps.counts()
			assert.Equal(t, maxIterations, critique)
			assert.Equal(t, maxIterations, refine)
		})
	}
}

func TestRunEmitsEvents(t *testing.T) {
	t.Run("successful run", func(t *testing.T) {
		hook := &recordingHook{}
		caps := &countingCapabilities{
			critique: func(_, _ string, call int) (string, error) {
				if call == 2 {
					return DefaultSentinel, nil
				}
				return "fix X", nil
			},
		}
		loop := New(Capabilities(caps), WithHook(hook), WithName("test-loop"))

		result, err := loop.Run(context.Background(), "cat story")
		require.NoError(t, err)

		got := hook.all()
		require.Len(t, got, 5)

		produced, ok := got[0].(events.Produced)
		require.True(t, ok)
		assert.Equal(t, result.RunID, produced.RunID)
		assert.Equal(t, "test-loop", produced.Sender)
		assert.Equal(t, "v0", produced.Artifact)

		critiqued, ok := got[1].(events.Critiqued)
		require.True(t, ok)
		assert.Equal(t, 1, critiqued.Iteration)
		assert.Equal(t, "fix X", critiqued.Feedback)

		refined, ok := got[2].(events.Refined)
		require.True(t, ok)
		assert.Equal(t, "v1", refined.Artifact)

		_, ok = got[3].(events.Critiqued)
		require.True(t, ok)

		terminated, ok := got[4].(events.Terminated)
		require.True(t, ok)
		assert.Equal(t, api.TerminationSentinel, terminated.Reason)
		assert.Equal(t, 2, terminated.Iterations)
		assert.Equal(t, "v1", terminated.Artifact)
	})

	t.Run("failed run", func(t *testing.T) {
		hook := &recordingHook{}
		caps := &countingCapabilities{
			critique: func(_, _ string, _ int) (string, error) {
				return "", errors.New("boom")
			},
		}
		loop := New(Capabilities(caps), WithHook(hook))

		_, err := loop.Run(context.Background(), "cat story")
		require.Error(t, err)

		got := hook.all()
		require.Len(t, got, 2)
		errEvent, ok := got[1].(events.Error)
		require.True(t, ok)
		assert.Equal(t, api.StepCritique, errEvent.Step)
		assert.ErrorIs(t, errEvent, err)
	})
}

func TestRunIsolatedAcrossConcurrentRuns(t *testing.T) {
	loop := New(
		WithGenerator(api.GeneratorFunc(func(_ context.Context, topic string) (string, error) {
			return "draft of " + topic, nil
		})),
		WithCritic(api.CriticFunc(func(_ context.Context, _, _ string) (string, error) {
			return DefaultSentinel, nil
		})),
		WithRefiner(api.RefinerFunc(func(_ context.Context, artifact, _ string) (string, error) {
			return artifact, nil
		})),
	)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			topic := fmt.Sprintf("topic-%d", i)
			result, err := loop.Run(context.Background(), topic)
			assert.NoError(t, err)
			assert.Equal(t, "draft of "+topic, result.Artifact)
		}(i)
	}
	wg.Wait()
}

func TestFuncAdapters(t *testing.T) {
	gen := api.GeneratorFunc(func(_ context.Context, topic string) (string, error) {
		return "g:" + topic, nil
	})
	crit := api.CriticFunc(func(_ context.Context, artifact, topic string) (string, error) {
		return "c:" + artifact + ":" + topic, nil
	})
	ref := api.RefinerFunc(func(_ context.Context, artifact, feedback string) (string, error) {
		return "r:" + artifact + ":" + feedback, nil
	})

	out, err := gen.Generate(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "g:t", out)

	out, err = crit.Critique(context.Background(), "a", "t")
	require.NoError(t, err)
	assert.Equal(t, "c:a:t", out)

	out, err = ref.Refine(context.Background(), "a", "f")
	require.NoError(t, err)
	assert.Equal(t, "r:a:f", out)
}
