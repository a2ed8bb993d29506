// Package worker implements the channel consumer that persists submissions.
//
// For each delivery the worker re-runs the business checks against current
// state, applies the versioned upsert, and resolves the request's lifecycle
// status. The whole sequence is safe to rerun from the top, so duplicate
// delivery converges on the same end state. Acknowledgment happens only after
// the terminal status write, preserving at-least-once semantics under a crash.
//
// Trade store failures are retried with bounded exponential backoff; when the
// budget is exhausted the request resolves FAILED rather than staying PENDING
// forever. A lifecycle write after a durable upsert is retried until it lands
// or shutdown, because the canonical fact already exists.
package worker
