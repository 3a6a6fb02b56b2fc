// Package pubsub implements topic-based distribution of run events to
// subscribers, with an in-process broker for local consumers and a NATS
// broker for external ones.
//
// Key concepts:
//   - Topics provide isolated channels for specific event streams,
//     typically one per run ID
//   - Subscriptions are managed explicitly with unique IDs
//   - Hooks define how events are processed by subscribers
//   - Context support enables proper cleanup and cancellation
//
// Example usage:
//
//	broker := pubsub.Local()
//	topic := broker.Topic(ctx, runID.String())
//
//	sub, err := topic.Subscribe(ctx, myHook)
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
//	loop := quill.New(
//	    quill.Capabilities(caps),
//	    quill.WithHook(pubsub.PublishHook(topic)),
//	)
package pubsub
