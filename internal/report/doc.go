// Package report renders run output for people and machines.
//
// The text surface is three tab-separated sections with banner headers:
// receptor mapping, ranked similarities for a selected receptor, and the
// thresholded score matrix. A Writer mirrors identical bytes to stdout and
// an optional output file, truncating the file exactly once per run, so the
// file always ends up a faithful copy of what the terminal showed.
//
// The JSON document bundles the same data plus what tab-separated text
// cannot carry cleanly: per-pair failure markers and run statistics.
package report
