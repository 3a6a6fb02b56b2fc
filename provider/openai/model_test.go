package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill/pkg/uuidx"
	"github.com/quillworks/quill/provider"
)

func TestModelRegistryCaches(t *testing.T) {
	first := Model("my-fine-tune")
	second := Model("my-fine-tune")
	assert.Same(t, first, second)

	other := Model("my-other-fine-tune")
	assert.NotSame(t, first, other)
	assert.Equal(t, "my-other-fine-tune", other.Name())
}

func TestWellKnownModels(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", GPT4oMini().Name())
	assert.Same(t, GPT4oMini(), GPT4oMini())
}

func TestModelProviderIsLazyAndStable(t *testing.T) {
	m := Model("lazy-init-model")
	prov := m.Provider()
	require.NotNil(t, prov)
	assert.Same(t, prov, m.Provider())
}

func TestBuildRequest(t *testing.T) {
	p := New()

	t.Run("nil model rejected", func(t *testing.T) {
		params := provider.CompletionParams{
			RunID:        uuidx.New(),
			Instructions: "review the draft",
		}
		_, err := p.buildRequest(&params)
		require.Error(t, err)
	})

	t.Run("sender maps to user", func(t *testing.T) {
		params := provider.CompletionParams{
			RunID:        uuidx.New(),
			Instructions: "review the draft",
			Sender:       "critic",
			Model:        Model("gpt-4o-mini"),
		}
		req, err := p.buildRequest(&params)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", req.Model.Value)
		assert.Equal(t, "critic", req.User.Value)
		assert.Equal(t, int64(1), req.N.Value)
	})

	t.Run("empty sender leaves user unset", func(t *testing.T) {
		params := provider.CompletionParams{
			RunID:        uuidx.New(),
			Instructions: "review the draft",
			Model:        Model("gpt-4o-mini"),
		}
		req, err := p.buildRequest(&params)
		require.NoError(t, err)
		assert.False(t, req.User.Present)
	})
}
