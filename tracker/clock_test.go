package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vsariola/hailstone/tracker"
)

func TestVirtualClockOrder(t *testing.T) {
	var c tracker.VirtualClock
	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "c") })
	c.Advance(1500 * time.Millisecond)
	require.Equal(t, []string{"a"}, fired)
	require.Equal(t, 1500*time.Millisecond, c.Now())
	c.Advance(time.Second)
	require.Equal(t, []string{"a", "b", "c"}, fired)
	require.Zero(t, c.Pending())
}

func TestVirtualClockNested(t *testing.T) {
	var c tracker.VirtualClock
	var at []time.Duration
	var tick func()
	tick = func() {
		at = append(at, c.Now())
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(0, tick)
	c.Advance(3 * time.Second)
	require.Equal(t, []time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second}, at)
	require.Equal(t, 1, c.Pending())
}

func TestVirtualClockStop(t *testing.T) {
	var c tracker.VirtualClock
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())
	c.Advance(time.Minute)
	require.False(t, fired)

	timer = c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	require.False(t, timer.Stop(), "a fired timer cannot be stopped")
}
