package tracker

import (
	"container/heap"
	"time"
)

type (
	// Clock schedules a function to run after a delay. The function may run on
	// any goroutine; the scheduler only uses it to post messages.
	Clock interface {
		AfterFunc(d time.Duration, f func()) Timer
	}

	// Timer is a pending AfterFunc call. Stop returns false if the call has
	// already fired or been stopped.
	Timer interface {
		Stop() bool
	}

	// RealClock is the wall clock.
	RealClock struct{}

	// VirtualClock is a manually advanced clock. Callbacks run synchronously
	// inside Advance, in time order (ties in scheduling order), and may
	// schedule further callbacks. It is not safe for concurrent use.
	VirtualClock struct {
		now    time.Duration
		seq    uint64
		timers timerHeap
	}

	virtualTimer struct {
		at      time.Duration
		seq     uint64
		f       func()
		stopped bool
		fired   bool
	}

	timerHeap []*virtualTimer
)

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (c *VirtualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	t := &virtualTimer{at: c.now + d, seq: c.seq, f: f}
	c.seq++
	heap.Push(&c.timers, t)
	return t
}

// Now returns the time elapsed since the clock was created.
func (c *VirtualClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (c *VirtualClock) Advance(d time.Duration) {
	target := c.now + d
	for len(c.timers) > 0 && c.timers[0].at <= target {
		t := heap.Pop(&c.timers).(*virtualTimer)
		if t.stopped {
			continue
		}
		c.now = t.at
		t.fired = true
		t.f()
	}
	c.now = target
}

// Pending returns the number of callbacks that have not fired or been stopped.
func (c *VirtualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *virtualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*virtualTimer)) }
func (h *timerHeap) Pop() any {
	old := *h
	t := old[len(old)-1]
	*h = old[:len(old)-1]
	return t
}
