// Package ingest implements the synchronous acceptance path.
//
// A submission is validated against the stored state, recorded PENDING in the
// lifecycle store, and published to the channel; the caller gets a request_id
// to poll. The path performs exactly two I/O writes, each bounded by the
// accept timeout. A publish failure fails the PENDING record synchronously so
// no request is ever left pending without a message in flight.
package ingest
