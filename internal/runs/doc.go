// Package runs persists a ledger of engine invocations in SQLite.
//
// Each comparison run opens one row when it starts and stamps it with
// terminal counters (receptors, pairs, cache hits, scorer invocations,
// failures) and a status when it ends. The ledger is bookkeeping for
// operators, not run state: the engine never reads it back, and clearing it
// is always safe.
//
// Schema changes bump the version in schema.go; users clear the ledger to
// adopt the new schema.
package runs
