// Package events defines the typed events a refinement run emits and the
// Hook interface that receives them.
//
// Event hierarchy:
//   - Event: base interface for all run events
//     ├── Produced: initial artifact from the generator
//     ├── Critiqued: feedback from one loop iteration
//     ├── Refined: replacement artifact from one loop iteration
//     ├── Checked: output of a post-refinement check
//     ├── Terminated: terminal state with iteration count and reason
//     └── Error: capability failure with the failing step preserved
//
// Every event carries the run ID and a timestamp, plus optional sender and
// structured metadata. Events serialize to type-tagged JSON via ToJSON and
// round-trip back through FromJSON, which is how they travel over a pubsub
// topic to external consumers.
package events
