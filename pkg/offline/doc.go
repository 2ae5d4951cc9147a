// Package offline is the client SDK for working against the back-office API
// without reliable connectivity.
//
// Reads go network-first and every successful response is cached as a
// snapshot in a local SQLite database, keyed by the request target. When the
// network is unavailable the snapshot answers instead.
//
// Writes that cannot be delivered are applied optimistically to the cached
// collection (creates get a temporary local identifier) and appended to a
// durable queue in the same database. A single background goroutine replays
// the queue strictly in FIFO order whenever connectivity returns or the poll
// interval elapses:
//
//   - a 2xx response clears the mutation and invalidates the affected
//     snapshots, so the next read fetches live data
//   - a 4xx response is terminal; the mutation is dropped after one attempt
//   - anything else (network errors, 5xx) keeps the mutation queued, up to a
//     retry ceiling, with exponential backoff between passes
//
// Because both the snapshots and the queue live in SQLite, a mutation
// recorded before a crash is still queued when the process restarts.
// Replay failures never surface to the caller; the queue length, via
// Client.PendingCount, is the only observability.
package offline
