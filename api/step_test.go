package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepText(t *testing.T) {
	names := map[Step]string{
		StepGenerate: "generate",
		StepCritique: "critique",
		StepRefine:   "refine",
		StepCheck:    "check",
	}

	for step, name := range names {
		assert.Equal(t, name, step.String())

		var parsed Step
		require.NoError(t, parsed.UnmarshalText([]byte(name)))
		assert.Equal(t, step, parsed)
	}

	var parsed Step
	require.Error(t, parsed.UnmarshalText([]byte("compile")))
	assert.Contains(t, Step(0).String(), "unknown")
}

func TestTerminationReasonText(t *testing.T) {
	assert.Equal(t, "sentinel", TerminationSentinel.String())
	assert.Equal(t, "bound", TerminationBound.String())

	var parsed TerminationReason
	require.NoError(t, parsed.UnmarshalText([]byte("bound")))
	assert.Equal(t, TerminationBound, parsed)

	require.Error(t, parsed.UnmarshalText([]byte("timeout")))
	assert.Contains(t, TerminationReason(0).String(), "unknown")
}
