// Package database provides connection pool management for PostgreSQL.
//
// The trade store keeps a single pool; the lifecycle store lives in Redis and
// is managed by package lifecycle.
package database
