// Package combined holds end-to-end benchmarks of producer to consumer
// pipelines built from the handoff buffer, the fan-in collector and
// plain channels.
//
// Isolated micro-benchmarks miss the cost of waking the consumer and of
// the consumer racing the producer for the lock. These benchmarks run
// both sides concurrently.
package combined
