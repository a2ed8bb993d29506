// Package api implements the request-facing HTTP surface.
//
// Endpoints:
//   - POST /api/v1/trades            submit a trade (202 accepted, 400 rejected, 503 transient)
//   - GET  /api/v1/requests/{id}     poll a submission's lifecycle status
//   - GET  /api/v1/trades            list all stored rows, history included
//   - GET  /api/v1/trades/{trade_id} list all versions of one trade
//   - GET  /api/v1/health            aggregate trade store and channel health
//
// Handlers are a pass-through over the ingest service and the stores; the
// pipeline's correctness lives below this layer.
package api
