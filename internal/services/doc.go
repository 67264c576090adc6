// Package services defines shared utilities consumed by the engine stages and
// external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ledger statuses (failed vs canceled).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the engine.
package services
