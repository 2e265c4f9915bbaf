package seqscan

import "fmt"

// NotFound is returned by IndexOfNext when no element is greater than the probe.
const NotFound = -1

// Probe compares itself against candidates of a sorted sequence.
type Probe[E any] interface {
	// CompareTo returns a negative number when candidate is greater than the
	// probe, zero when they are equal and a positive number otherwise.
	CompareTo(candidate E) int
}

// ProbeFunc adapts a plain function to Probe.
type ProbeFunc[E any] func(candidate E) int

// CompareTo implements Probe.
func (f ProbeFunc[E]) CompareTo(candidate E) int {
	return f(candidate)
}

// IndexOfNext returns the index of the first element of seq that probe
// reports as greater than itself, or NotFound. seq must be sorted in the
// order probe compares in and must not be empty.
func IndexOfNext[E any](seq []E, probe Probe[E]) int {
	return IndexOfNextInRange(seq, probe, 0, len(seq))
}

// IndexOfNextInRange is IndexOfNext restricted to the window [start, end).
// It panics when the window is empty, inverted or out of bounds.
func IndexOfNextInRange[E any](seq []E, probe Probe[E], start, end int) int {
	if start < 0 || start >= end || end > len(seq) {
		panic(fmt.Sprintf("seqscan: [%d, %d) is not a valid interval within a sequence of length %d",
			start, end, len(seq)))
	}

	found := NotFound

	for start < end {
		middle := start + (end-start)/2

		if probe.CompareTo(seq[middle]) >= 0 {
			start = middle + 1
			continue
		}

		// a match, but there may be a smaller one on the left
		found = middle
		end = middle
	}

	return found
}
