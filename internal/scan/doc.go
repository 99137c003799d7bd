// Package scan walks directory trees and tallies the entries that pass a
// composable filter.
//
// The filter is the conjunction of a file-type skip mask, an optional
// shell-glob on the entry name and up to three permission-bit tests.
// Directories are counted on the type mask alone. Traversal is sequential
// and depth-first; every recursive call receives an absolute path and the
// process working directory is never changed.
package scan
