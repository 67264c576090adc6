// Package scorer mediates access to the external comparison binary that
// produces pairwise pocket similarity scores.
//
// It renders the four artifact paths of a pair into the binary's flag
// vocabulary, captures stdout for the cache, and applies a fixed budget of
// three immediate attempts per pair. Output without a parseable score marker
// is a failed attempt just like a non-zero exit, so transient tool crashes
// and truncated output get the same second chance. When the budget is gone
// the pair is reported with the sentinel score rather than aborting the run.
//
// Prefer this package over ad-hoc exec.Command usage so retry accounting,
// per-attempt timeouts, and observer callbacks stay consistent.
package scorer
