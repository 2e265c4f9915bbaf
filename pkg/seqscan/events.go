package seqscan

import "strings"

// LevelMode tells how a directory level relates to the previous scan.
type LevelMode int

const (
	// ModeFull means nothing at this level was processed before.
	ModeFull LevelMode = iota
	// ModeResume means the level was partially processed before.
	ModeResume
	// ModeConsumed means everything at this level was processed before.
	ModeConsumed
)

// String returns the string representation of LevelMode
func (m LevelMode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeResume:
		return "resume"
	case ModeConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Event is the interface implemented by all scanner events.
type Event interface {
	isEvent()
}

// EventEmitter receives scanner events. Emitters only observe: they cannot
// influence the traversal.
type EventEmitter interface {
	Emit(event Event)
}

// LevelPlanned is emitted once for every directory level that gets listed.
type LevelPlanned struct {
	Dir         string
	Mode        LevelMode
	Skipped     []string // names already processed by a previous scan
	Unprocessed []string // names that will be traversed, in order
}

func (LevelPlanned) isEvent() {}

// SummarizeNames renders at most maxNames names, eliding the middle of longer lists.
func SummarizeNames(names []string, maxNames int) string {
	if maxNames <= 0 || len(names) <= maxNames {
		return strings.Join(names, ", ")
	}

	head := maxNames / 2 //nolint:mnd // half before the ellipsis
	tail := maxNames - head

	parts := make([]string, 0, maxNames+1)
	parts = append(parts, names[:head]...)
	parts = append(parts, "...")
	parts = append(parts, names[len(names)-tail:]...)

	return strings.Join(parts, ", ")
}
