// Package scribe provides prompt-bound implementations of the capability
// interfaces in api: each scribe is a named instruction template tied to a
// model, rendered per invocation with the call's inputs and executed as a
// single completion.
//
//	writer := scribe.Generator(
//		scribe.Name("initial-writer"),
//		scribe.Model(openai.GPT4oMini()),
//		scribe.Instructions("Write a short story about: {{.Topic}}"),
//	)
//
// Templates use text/template with missingkey=error, so referencing an input
// the capability does not receive is a render error, not silent bad output.
package scribe
