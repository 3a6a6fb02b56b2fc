package pubsub

import (
	"context"
	"log/slog"

	"github.com/quillworks/quill/events"
	"github.com/quillworks/quill/pkg/slogx"
)

// PublishHook returns a Hook that forwards every run event to the given
// topic. Combine it with other hooks via events.NewCompositeHook to both
// observe a run locally and stream it to external subscribers.
func PublishHook(topic Topic) events.Hook {
	return &publishHook{topic: topic}
}

type publishHook struct {
	topic Topic
}

func (p *publishHook) publish(ctx context.Context, event events.Event) {
	if err := p.topic.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", slogx.Error(err))
	}
}

func (p *publishHook) OnProduced(ctx context.Context, e events.Produced) {
	p.publish(ctx, e)
}

func (p *publishHook) OnCritiqued(ctx context.Context, e events.Critiqued) {
	p.publish(ctx, e)
}

func (p *publishHook) OnRefined(ctx context.Context, e events.Refined) {
	p.publish(ctx, e)
}

func (p *publishHook) OnChecked(ctx context.Context, e events.Checked) {
	p.publish(ctx, e)
}

func (p *publishHook) OnTerminated(ctx context.Context, e events.Terminated) {
	p.publish(ctx, e)
}

func (p *publishHook) OnError(ctx context.Context, e events.Error) {
	p.publish(ctx, e)
}
