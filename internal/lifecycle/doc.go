// Package lifecycle implements the request status store.
//
// Each accepted submission gets one record keyed by request_id, moving
// PENDING -> SUCCESS or PENDING -> FAILED and never out of a terminal state.
// The acceptance path creates the record and may fail it synchronously on a
// publish error; only the worker advances it otherwise.
//
// The production implementation is Redis: create and transition are Lua
// scripts so each is a single-round-trip conditional write. Records expire
// after a configurable TTL since a resolved request only needs to stay
// pollable for a bounded time.
package lifecycle
