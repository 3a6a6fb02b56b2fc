// Package openai implements the provider.Provider interface for OpenAI's
// chat models.
//
// Each completion is a single request/response pair: the rendered capability
// instructions go out as a system message and the first choice comes back as
// the response content. Models are created through Model (or the GPT4oMini /
// GPT4o shortcuts) and bind their provider lazily on first use, so model
// values can be declared as package variables without requiring credentials
// at init time.
//
//	model := openai.Model("gpt-4o-mini",
//		option.WithAPIKey("your-key"),
//	)
//
// The provider is safe for concurrent use across goroutines.
package openai
