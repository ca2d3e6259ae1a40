package battle

import "fmt"

// DefaultLogCapacity is the number of battle log lines retained.
const DefaultLogCapacity = 50

// Log is a bounded battle log; once full, the oldest line is dropped for
// each new one.
//
// Invariant: Len() <= capacity.
type Log struct {
	capacity int
	entries  []string
}

// NewLog creates a Log holding at most capacity lines.
// A non-positive capacity selects DefaultLogCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &Log{capacity: capacity, entries: make([]string, 0, capacity)}
}

// Add appends line, evicting the oldest entry when at capacity.
func (l *Log) Add(line string) {
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, line)
}

// Addf formats and appends a line.
func (l *Log) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...))
}

// AddAll appends lines in order.
func (l *Log) AddAll(lines []string) {
	for _, line := range lines {
		l.Add(line)
	}
}

// Entries returns a copy of the retained lines, oldest first.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained lines.
func (l *Log) Len() int { return len(l.entries) }
