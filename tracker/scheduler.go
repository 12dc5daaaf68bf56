package tracker

import "time"

type (
	// Scheduler advances a cursor through a looping sequence, calling Step
	// once per tick and re-arming itself with the delay Step returns. It is
	// driven from a single goroutine: timer firings are posted as tickMsg and
	// handed back to Tick, which ignores any tick from a previous run.
	Scheduler struct {
		clock Clock
		post  func(msg any)

		// Len returns the number of steps in the loop; Start refuses to run
		// an empty loop.
		Len func() int
		// Step performs the step at cursor and returns the next cursor and
		// the delay until the next step.
		Step func(cursor int) (next int, wait time.Duration)

		running bool
		cursor  int
		gen     uint64
		timer   Timer
	}

	tickMsg struct {
		gen uint64
	}
)

func NewScheduler(clock Clock, post func(msg any)) *Scheduler {
	return &Scheduler{clock: clock, post: post}
}

func (s *Scheduler) Running() bool { return s.running }
func (s *Scheduler) Cursor() int   { return s.cursor }

// Start fires the first step immediately. It returns false if the scheduler
// was already running or the loop is empty.
func (s *Scheduler) Start() bool {
	if s.running || s.Len == nil || s.Len() == 0 {
		return false
	}
	s.running = true
	s.gen++
	s.fire(s.gen)
	return true
}

// Stop cancels the pending tick and rewinds the cursor. Ticks already in
// flight are invalidated by the generation bump.
func (s *Scheduler) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.running = false
	s.gen++
	s.cursor = 0
}

// Tick handles a posted timer firing.
func (s *Scheduler) Tick(gen uint64) {
	s.fire(gen)
}

func (s *Scheduler) fire(gen uint64) {
	if !s.running || gen != s.gen {
		return
	}
	s.timer = nil
	n := s.Len()
	if n == 0 {
		s.Stop()
		return
	}
	if s.cursor >= n {
		s.cursor = 0
	}
	next, wait := s.Step(s.cursor)
	if !s.running || gen != s.gen { // the step stopped or restarted us
		return
	}
	s.cursor = next % n
	s.timer = s.clock.AfterFunc(wait, func() { s.post(tickMsg{gen: gen}) })
}
