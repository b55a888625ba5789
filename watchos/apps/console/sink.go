package console

import (
	"sync"

	"fancywatch/hal"
)

// DefaultLimit is the number of pending lines a Sink keeps before dropping the oldest.
const DefaultLimit = 64

// Line is one buffered log line.
type Line struct {
	Level hal.Level
	Msg   string
}

// Sink is a hal.Logger that buffers lines for the console to display. It is safe for
// concurrent use.
type Sink struct {
	mu      sync.Mutex
	lines   []Line
	limit   int
	min     hal.Level
	dropped int
}

var _ hal.Logger = (*Sink)(nil)

// NewSink returns a sink keeping up to limit lines at or above min. A limit of zero or
// less selects DefaultLimit.
func NewSink(limit int, min hal.Level) *Sink {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Sink{limit: limit, min: min}
}

func (s *Sink) Log(level hal.Level, msg string) {
	if level < s.min {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) >= s.limit {
		n := copy(s.lines, s.lines[1:])
		s.lines = s.lines[:n]
		s.dropped++
	}
	s.lines = append(s.lines, Line{Level: level, Msg: msg})
}

// Drain returns and clears the pending lines, plus the number dropped since the last
// drain.
func (s *Sink) Drain() (lines []Line, dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, dropped = s.lines, s.dropped
	s.lines, s.dropped = nil, 0
	return lines, dropped
}

// Len returns the number of pending lines.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}
