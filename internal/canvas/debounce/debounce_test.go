package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tessera/internal/canvas/clock"
)

type fired struct {
	key   string
	value string
}

func newTestDebouncer() (*clock.Manual, *Keyed[string, string], *[]fired) {
	c := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	var got []fired
	d := NewKeyed(c, 500*time.Millisecond, func(k, v string) {
		got = append(got, fired{k, v})
	})
	return c, d, &got
}

func TestPushResetsQuietPeriod(t *testing.T) {
	c, d, got := newTestDebouncer()

	d.Push("a", "<p>h</p>")
	c.Advance(400 * time.Millisecond)
	d.Push("a", "<p>he</p>")
	c.Advance(400 * time.Millisecond)
	assert.Empty(t, *got)
	assert.True(t, d.Pending("a"))

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, []fired{{"a", "<p>he</p>"}}, *got)
	assert.False(t, d.Pending("a"))
}

func TestKeysDebounceIndependently(t *testing.T) {
	c, d, got := newTestDebouncer()

	d.Push("a", "1")
	c.Advance(300 * time.Millisecond)
	d.Push("b", "2")
	c.Advance(200 * time.Millisecond)
	assert.Equal(t, []fired{{"a", "1"}}, *got)

	c.Advance(300 * time.Millisecond)
	assert.Equal(t, []fired{{"a", "1"}, {"b", "2"}}, *got)
}

func TestUnchangedValueSkipped(t *testing.T) {
	c, d, got := newTestDebouncer()

	d.Confirm("a", "<p>saved</p>")
	d.Push("a", "<p>saved!</p>")
	d.Push("a", "<p>saved</p>")
	c.Advance(time.Second)

	assert.Empty(t, *got)
}

func TestCancelAndStop(t *testing.T) {
	c, d, got := newTestDebouncer()

	d.Push("a", "1")
	d.Push("b", "2")
	d.Cancel("a")
	d.Stop()
	c.Advance(time.Second)

	assert.Empty(t, *got)
	assert.Equal(t, 0, c.Pending())
}
