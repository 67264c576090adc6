// Package receptor models the comparable entities of the engine: binding
// pockets parsed from a merged PDB database.
//
// A Registry assigns each well-formed record a stable zero-based index in
// encounter order and exposes lookup by index. Records whose first line lacks
// an identifier token are reported as malformed and consume no index, so a
// registry loaded twice from the same content always assigns the same
// indices. Receptor names are lowercased with any _pocket suffix removed and
// drive deterministic artifact and cache file naming.
package receptor
