// Package model defines shared data types used across the trade store.
//
// Conventions:
//   - Dates (maturity_date, created_date): calendar dates without a time
//     component, serialized as "2006-01-02"
//   - Timestamps (created_at, updated_at): time.Time in UTC
//   - IDs: string for trade IDs, uuid-formatted string for request IDs
package model
