// Package preflight provides readiness checks for the filesystem paths and
// external tools a comparison run depends on.
//
// The "sredun status" command runs RunAll to display engine health before
// any database is touched. Comparison runs do not gate on these checks; a
// missing tool surfaces through the preparation gate or as per-pair scoring
// failures instead.
package preflight
