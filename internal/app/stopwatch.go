package app

import "time"

// Stopwatch accumulates running time between Start/Resume and Pause using an
// injected clock. It is not safe for concurrent use; Game guards it.
type Stopwatch struct {
	now       func() time.Time
	running   bool
	startedAt time.Time
	total     time.Duration
}

func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

// Start resets and starts the stopwatch.
func (s *Stopwatch) Start() {
	s.total = 0
	s.startedAt = s.now()
	s.running = true
}

func (s *Stopwatch) Pause() {
	if !s.running {
		return
	}
	s.total += s.now().Sub(s.startedAt)
	s.running = false
}

func (s *Stopwatch) Resume() {
	if s.running {
		return
	}
	s.startedAt = s.now()
	s.running = true
}

func (s *Stopwatch) Running() bool {
	return s.running
}

// Elapsed is the accumulated running time.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.total + s.now().Sub(s.startedAt)
	}
	return s.total
}

// ElapsedMs is Elapsed in whole milliseconds, the unit scoring consumes.
func (s *Stopwatch) ElapsedMs() int64 {
	return s.Elapsed().Milliseconds()
}
