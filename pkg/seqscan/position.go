package seqscan

import (
	"strings"
)

// Position locates the last file handled by a previous scan as a sequence of
// path elements read top-down: the first element names an entry of the scan
// root, the second an entry inside that one, and so on. An empty Position
// means there is no previous progress.
type Position []string

// ParsePosition splits a delimited path into a Position. Both '/' and '\' are
// separators, whatever the platform. The empty string yields an empty
// Position.
func ParsePosition(s string) Position {
	if s == "" {
		return nil
	}

	return strings.FieldsFunc(s, isSeparator)
}

// PositionOf builds a Position from elements that are already split.
func PositionOf(elements ...string) Position {
	if len(elements) == 0 {
		return nil
	}

	return Position(append([]string(nil), elements...))
}

// RelativePosition turns a path produced by a scan of root back into a
// Position relative to root.
func RelativePosition(root, path string) Position {
	root = strings.TrimRightFunc(root, isSeparator)

	rest, found := strings.CutPrefix(path, root)
	if found && (rest == "" || isSeparator(rune(rest[0]))) {
		path = rest
	}

	return ParsePosition(path)
}

// Head returns the first element and whether there is one.
func (p Position) Head() (string, bool) {
	if len(p) == 0 {
		return "", false
	}

	return p[0], true
}

// IsEmpty reports whether the position carries no progress.
func (p Position) IsEmpty() bool {
	return len(p) == 0
}

// String joins the elements with '/'.
func (p Position) String() string {
	return strings.Join(p, "/")
}

// Tail drops the first element.
func (p Position) Tail() Position {
	if len(p) <= 1 {
		return nil
	}

	return p[1:]
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
