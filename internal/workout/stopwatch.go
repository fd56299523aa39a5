package workout

import (
	"fmt"
	"time"
)

// Stopwatch accumulates active time across pause/resume boundaries. It is
// not safe for concurrent use; the registry serializes access.
type Stopwatch struct {
	now         func() time.Time
	accumulated time.Duration
	startedAt   time.Time
	running     bool
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{now: time.Now}
}

func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.startedAt = s.now()
	s.running = true
}

func (s *Stopwatch) Pause() {
	if !s.running {
		return
	}
	s.accumulated += s.now().Sub(s.startedAt)
	s.running = false
}

func (s *Stopwatch) Reset() {
	s.accumulated = 0
	s.startedAt = time.Time{}
	s.running = false
}

// Elapsed returns active time only: paused stretches are excluded.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.accumulated + s.now().Sub(s.startedAt)
	}
	return s.accumulated
}

func (s *Stopwatch) Running() bool {
	return s.running
}

// FormatElapsed renders a duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	total := int64(d.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
