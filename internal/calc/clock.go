package calc

import (
	"sync/atomic"
	"time"
)

// Clock supplies the wall time used to open and expire error windows.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sequence is a monotonic logical counter for event ordering.
//
// Every applied event is stamped with Next(). Journal rows and transcripts
// are ordered by this value, never by wall time.
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0. The first Next returns 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next increments and returns the sequence number.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}
