package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	c := NewManual(epoch)
	var order []string

	c.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, c.Pending())

	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, epoch.Add(30*time.Millisecond), c.Now())
}

func TestManualStop(t *testing.T) {
	c := NewManual(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManualChainsCallbacksScheduledDuringAdvance(t *testing.T) {
	c := NewManual(epoch)
	var at []time.Duration

	c.AfterFunc(100*time.Millisecond, func() {
		at = append(at, c.Now().Sub(epoch))
		c.AfterFunc(50*time.Millisecond, func() {
			at = append(at, c.Now().Sub(epoch))
		})
	})

	c.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 150 * time.Millisecond}, at)
}

func TestExecutorClockSuppressesTimersStoppedAfterFiring(t *testing.T) {
	c := NewManual(epoch)
	var queued []func()
	ec := WithExecutor(c, func(f func()) { queued = append(queued, f) })

	ran := 0
	timer := ec.AfterFunc(10*time.Millisecond, func() { ran++ })
	c.Advance(10 * time.Millisecond)
	require.Len(t, queued, 1)

	assert.True(t, timer.Stop(), "callback had not run on the loop yet")
	queued[0]()
	assert.Equal(t, 0, ran)

	ec.AfterFunc(10*time.Millisecond, func() { ran++ })
	c.Advance(10 * time.Millisecond)
	queued[1]()
	assert.Equal(t, 1, ran)
}

func TestLatestWinsAppliesOnlyNewestValuePerFrame(t *testing.T) {
	c := NewManual(epoch)
	frames := NewFrames(c, 16*time.Millisecond)
	var applied []int
	lw := NewLatestWins(frames, func(v int) { applied = append(applied, v) })

	lw.Submit(1)
	c.Advance(5 * time.Millisecond)
	lw.Submit(2)
	lw.Submit(3)
	assert.True(t, lw.Pending())

	// the frame keeps its original deadline
	c.Advance(11 * time.Millisecond)
	assert.Equal(t, []int{3}, applied)
	assert.False(t, lw.Pending())

	lw.Submit(4)
	lw.Cancel()
	c.Advance(time.Second)
	assert.Equal(t, []int{3}, applied)
}

func TestLatestWinsAppliesDuringSteadyStream(t *testing.T) {
	c := NewManual(epoch)
	frames := NewFrames(c, 16*time.Millisecond)
	var applied []int
	lw := NewLatestWins(frames, func(v int) { applied = append(applied, v) })

	for i := 1; i <= 30; i++ {
		lw.Submit(i)
		c.Advance(10 * time.Millisecond)
	}

	require.NotEmpty(t, applied)
	assert.GreaterOrEqual(t, len(applied), 15)
	assert.LessOrEqual(t, len(applied), 19)
	for i := 1; i < len(applied); i++ {
		assert.Greater(t, applied[i], applied[i-1])
	}
}
