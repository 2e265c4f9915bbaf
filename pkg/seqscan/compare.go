// Package seqscan finds the files that are new since a previous run in a
// directory tree whose entries follow a sequential naming scheme, such as the
// DCIM folders written by cameras.
//
// Each directory level is sorted by name and the position of the last file
// handled in the previous run (the cursor) is located by binary search, so a
// run only lists the directories on the path of the cursor and those after
// it. The directory named by the cursor at each level is always re-entered to
// catch files added to it since the previous run.
//
// Trees are assumed to be append-only: a file whose name was already produced
// never needs to be produced again.
package seqscan

import "strings"

// Compare orders path-element names by byte value: it is case-sensitive and
// not locale-aware, so every capital letter sorts before every lowercase one.
// It returns -1, 0 or 1.
func Compare(a, b string) int {
	return strings.Compare(a, b)
}
