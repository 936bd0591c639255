package particles

// Scheduler hands out tokens for a self-rescheduling frame chain. Each frame
// callback carries the token it was requested with; once the scheduler is
// cancelled, or a newer frame has been requested, older tokens are refused
// and the chain stops.
type Scheduler struct {
	current  uint64
	active   bool
	requests int
}

// Start activates the scheduler and returns the token for the first frame.
// Any chain started earlier is orphaned.
func (s *Scheduler) Start() uint64 {
	s.active = true
	return s.next()
}

// Request returns the token for the next frame. It reports false once the
// scheduler has been cancelled.
func (s *Scheduler) Request() (uint64, bool) {
	if !s.active {
		return 0, false
	}
	return s.next(), true
}

func (s *Scheduler) next() uint64 {
	s.current++
	s.requests++
	return s.current
}

// Accept reports whether a frame carrying token should run.
func (s *Scheduler) Accept(token uint64) bool {
	return s.active && token == s.current
}

// Cancel revokes the outstanding token. Pending frames are refused.
func (s *Scheduler) Cancel() {
	s.active = false
	s.current++
}

// Active reports whether the chain is running.
func (s *Scheduler) Active() bool { return s.active }

// Requests counts frames requested over the scheduler's lifetime.
func (s *Scheduler) Requests() int { return s.requests }
