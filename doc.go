/*
Package quill implements a bounded iterative refinement pipeline for
AI-generated artifacts: a generator produces an initial work product from a
topic, then a critic and a refiner alternate until the critic declares the
artifact done or the iteration cap is reached.

# Basic Usage

A typical setup binds prompt-bound capabilities to a loop and runs it:

	writer := scribe.Generator(
		scribe.Name("initial-writer"),
		scribe.Model(openai.GPT4oMini()),
		scribe.Instructions(writerPrompt),
	)

	loop := quill.New(
		quill.WithGenerator(writer),
		quill.WithCritic(critic),
		quill.WithRefiner(refiner),
		quill.WithMaxIterations(5),
	)

	result, err := loop.Run(ctx, "a payment service with a queue and two workers")
	if err != nil {
		// Handle error
	}
	fmt.Println(result.Artifact)

# Termination

The loop has exactly two exit conditions, both checked every iteration:

  - Sentinel: the critic answers with the exact completion phrase
    (DefaultSentinel unless overridden). The artifact is returned as it was
    at the start of that iteration; no further refine call runs.
  - Bound: the configured maximum number of critique/refine iterations is
    reached. The artifact is the output of the last refine call.

The result reports which condition fired and how many iterations ran.
Sentinel matching is exact and case-sensitive: termination authority belongs
to the critic, and a refiner that tries to claim it is rejected with a
ContractViolationError.

# Failure Semantics

Capability failures are fatal to the run. A failed generate surfaces a
GenerationError; a failed critique, refine, or check surfaces a StepError
naming the step. No partial artifact is returned on error, and the loop never
retries — retry policy belongs to the capability layer.

# Observability

Every step emits a typed event (see the events package) to the loop's hook.
Hooks compose, and pubsub.PublishHook forwards events to a local or NATS
topic so external consumers can follow a run.

# Concurrency

A single run executes its steps strictly sequentially. Independent runs of
the same Loop are fully isolated and may execute in parallel; the Loop value
is immutable after construction.
*/
package quill
