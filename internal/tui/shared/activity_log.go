package shared

import (
	"strings"
)

// ActivityLog keeps the most recent lines of activity.
type ActivityLog struct {
	entries  []string
	capacity int
}

// NewActivityLog creates a log holding at most capacity lines.
func NewActivityLog(capacity int) *ActivityLog {
	return &ActivityLog{capacity: max(capacity, 1)}
}

// Add appends a line, dropping the oldest one when full.
func (l *ActivityLog) Add(line string) {
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}

	l.entries = append(l.entries, line)
}

// Entries returns the lines, oldest first.
func (l *ActivityLog) Entries() []string {
	return l.entries
}

// RenderActivityLog renders a chronological activity log with optional title.
// Entries are displayed oldest to newest.
// If maxEntries > 0, limits display to the most recent N entries.
func RenderActivityLog(title string, entries []string, maxEntries int) string {
	var builder strings.Builder

	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle != "" {
		builder.WriteString(RenderLabel(trimmedTitle))
		builder.WriteString("\n")

		if len(entries) > 0 {
			builder.WriteString("\n")
		}
	}

	if len(entries) == 0 {
		return builder.String()
	}

	startIdx := 0
	if maxEntries > 0 && maxEntries < len(entries) {
		startIdx = len(entries) - maxEntries
	}

	for i := startIdx; i < len(entries); i++ {
		builder.WriteString("  ")
		builder.WriteString(entries[i])

		if i < len(entries)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
