// Package validate implements the business rules applied to incoming trades.
//
// Rules are pure functions over the candidate submission and the currently
// stored version; they perform no I/O and are safe to re-run. The same checks
// run twice: synchronously at acceptance (reject fast with a 400) and again
// inside the worker's upsert transaction (defense against races introduced by
// out-of-order or duplicate delivery).
package validate
