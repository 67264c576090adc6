// Package simmatrix post-processes raw similarity matrices for presentation:
// threshold zeroing with uniform 4-decimal rounding, stable descending
// ranking of a row, and zero-row padding that squares up single-row query
// results. All transforms copy their input; the raw matrix survives so
// ranking can keep using unthresholded scores.
package simmatrix
