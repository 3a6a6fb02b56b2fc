// Package types provides core type definitions shared across the quill packages.
package types

import json "github.com/goccy/go-json"

// ContextVars is the key-value store handed to instruction templates when a
// prompt-bound capability renders its instructions. Keys are template
// variable names (e.g. "Topic", "Artifact", "Feedback").
//
// ContextVars is a plain map and is not safe for concurrent modification;
// each capability invocation builds its own instance so no synchronization
// is needed in practice.
type ContextVars map[string]any

// String returns a JSON representation of the context variables, or the
// empty string if marshaling fails. Useful for logging and debugging.
func (cv ContextVars) String() string {
	jsonData, err := json.Marshal(cv)
	if err != nil {
		return ""
	}
	return string(jsonData)
}
