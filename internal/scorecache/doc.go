// Package scorecache memoizes external scorer invocations on disk.
//
// Each compared pair owns one file under the working directory, named
// <first>_<second>.out from the receptor names in whichever order the pair
// was first computed. The file holds the scorer's raw stdout verbatim; the
// numeric score is re-extracted from the marker line on every read, so the
// cache stays inspectable with nothing more than cat.
//
// Lookups try both orderings of a pair, which is what makes the similarity
// matrix symmetric across runs without storing each pair twice. Output from
// failed invocations is cached like any other result: a pair that exhausted
// its retries keeps its sentinel score and is never handed back to the
// scorer.
//
// The cache deliberately carries no locking. Concurrent workers racing on
// the same uncached pair each compute and store independently; whole-file
// temp-and-rename writes keep every stored record internally consistent, so
// the race costs duplicate work rather than corruption.
package scorecache
