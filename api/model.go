package api

import "github.com/quillworks/quill/provider"

// Model binds a model name to the provider that can execute completions for
// it. Implementations may initialize their provider lazily.
type Model interface {
	Name() string
	Provider() provider.Provider
}
