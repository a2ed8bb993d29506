// Package channel implements the durable message channel between the
// acceptance path and the persistence worker.
//
// Contract: at-least-once delivery, with publish order preserved among
// messages sharing a trade_id. The Kafka implementation gets this from
// hash-partitioning on the message key (trade_id) plus consumer-group
// partition ownership; the in-memory implementation mirrors the same
// semantics for tests and local development.
//
// Consumers acknowledge only after the terminal lifecycle status is written,
// so a crash mid-processing redelivers the message.
package channel
