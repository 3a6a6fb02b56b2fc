package quill

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillworks/quill/events"
)

// countingCapabilities is a deterministic stand-in for the three loop
// capabilities. It tracks invocation counts and inputs so tests can assert
// on call order and arguments.
type countingCapabilities struct {
	mu sync.Mutex

	generateCalls int
	critiqueCalls int
	refineCalls   int

	lastTopic    string
	lastFeedback string

	generate func(topic string) (string, error)
	critique func(artifact, topic string, call int) (string, error)
	refine   func(artifact, feedback string, call int) (string, error)
}

func (c *countingCapabilities) Generate(_ context.Context, topic string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generateCalls++
	c.lastTopic = topic
	if c.generate != nil {
		return c.generate(topic)
	}
	return "v0", nil
}

func (c *countingCapabilities) Critique(_ context.Context, artifact, topic string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.critiqueCalls++
	if c.critique != nil {
		return c.critique(artifact, topic, c.critiqueCalls)
	}
	return "fix X", nil
}

func (c *countingCapabilities) Refine(_ context.Context, artifact, feedback string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refineCalls++
	c.lastFeedback = feedback
	if c.refine != nil {
		return c.refine(artifact, feedback, c.refineCalls)
	}
	return fmt.Sprintf("v%d", c.refineCalls), nil
}

func (c *countingCapabilities) counts() (generate, critique, refine int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generateCalls, c.critiqueCalls, c.refineCalls
}

// recordingHook captures every event it receives, in order.
type recordingHook struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingHook) add(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingHook) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

func (r *recordingHook) OnProduced(_ context.Context, e events.Produced)     { r.add(e) }
func (r *recordingHook) OnCritiqued(_ context.Context, e events.Critiqued)   { r.add(e) }
func (r *recordingHook) OnRefined(_ context.Context, e events.Refined)       { r.add(e) }
func (r *recordingHook) OnChecked(_ context.Context, e events.Checked)       { r.add(e) }
func (r *recordingHook) OnTerminated(_ context.Context, e events.Terminated) { r.add(e) }
func (r *recordingHook) OnError(_ context.Context, e events.Error)           { r.add(e) }

// namedCheck is a deterministic api.Check for pipeline tests.
type namedCheck struct {
	name  string
	check func(artifact string) (string, error)
}

func (n *namedCheck) Name() string { return n.name }

func (n *namedCheck) Check(_ context.Context, artifact string) (string, error) {
	return n.check(artifact)
}
