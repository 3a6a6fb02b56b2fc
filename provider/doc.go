// Package provider defines the boundary between quill and the language model
// runtimes it calls into. A Provider executes a single-shot completion; the
// rest of the system treats it as an opaque, possibly latent capability.
//
// Concrete implementations live in subpackages (see provider/openai). Tests
// substitute deterministic providers without touching any network.
package provider
