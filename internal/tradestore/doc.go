// Package tradestore implements the canonical versioned trade store.
//
// Rows are keyed by (trade_id, version). Exactly one row per trade_id is
// current; strictly older accepted versions remain as immutable history.
// Upsert applies the version comparison and the write in one transaction
// holding a row lock on the trade's newest version, which makes writes
// per-trade linearizable without any process-level lock. The expired flag is
// recomputed from maturity_date at read and write time and never trusted from
// the input.
package tradestore
