// Package workdir manages the directory where receptor artifacts and cached
// scores live: creation at run start and an optional flock-based advisory
// lock for operators who want one run at a time against a shared directory.
package workdir
