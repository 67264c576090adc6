// Package prepare materializes the per-receptor artifacts the scorer reads.
//
// Each receptor needs two files in the working directory before it can be
// compared: the pocket structure, written verbatim from its database record,
// and the chemical feature file, produced by invoking the external generator
// on that structure. Both steps are skipped when the artifact already exists,
// so re-running against a warm working directory costs nothing.
//
// PrepareAll reports every receptor's outcome before failing the run as a
// whole: one broken record never hides the state of the rest, and no
// comparison runs against a partial artifact set.
package prepare
