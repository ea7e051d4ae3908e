// Package cache provides a Redis-backed response cache for PokeAPI
// requests with ETag support for conditional revalidation.
//
// PokeAPI data is effectively immutable (a record's id, name, and types
// never change once published), so cached responses are served directly
// while fresh. A stale entry that still carries an ETag is revalidated
// with If-None-Match instead of being refetched; a 304 renews its
// freshness window without transferring the body again.
//
// Entries are stored in Redis with a TTL of freshness window plus a grace
// period (RevalidateWindow) so that stale-but-revalidatable entries stick
// around long enough to save bandwidth.
//
// The cache is transport-level only. The catalog's canonical collection is
// owned by pkg/catalog and lives purely in memory; nothing here persists
// catalog state.
package cache
