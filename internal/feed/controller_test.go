package feed

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newController(t *testing.T, count int) (*Controller, *fakeClock, *[]int) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	snaps := &[]int{}
	c := New(count, Options{
		Cooldown: 500 * time.Millisecond,
		Now:      clock.Now,
		Snapper:  SnapFunc(func(i int) { *snaps = append(*snaps, i) }),
	})
	return c, clock, snaps
}

func TestController_SwipeScenario(t *testing.T) {
	c, _, snaps := newController(t, 3)
	require.Equal(t, 0, c.Active())

	require.True(t, c.Swipe(60))
	assert.Equal(t, 1, c.Active())
	assert.Equal(t, []int{1}, *snaps)

	flags := c.Flags()
	assert.True(t, flags[0].Muted, "item 0 should be muted")
	assert.False(t, flags[0].Active)
	assert.False(t, flags[1].Muted, "item 1 should play with sound")
	assert.True(t, flags[1].AutoPlay)
	assert.True(t, flags[1].Active)
}

func TestController_ExactlyOneActiveUnmuted(t *testing.T) {
	c, clock, _ := newController(t, 5)
	gestures := []func() bool{
		func() bool { return c.Wheel(80) },
		func() bool { return c.Swipe(-70) },
		func() bool { return c.Next() },
		func() bool { return c.Scroll(1200, 400) },
		func() bool { return c.TogglePause() },
		func() bool { return c.Prev() },
	}
	for round := 0; round < 4; round++ {
		for _, g := range gestures {
			g()
			clock.Advance(time.Second)

			unmuted := 0
			for i, f := range c.Flags() {
				if !f.Muted {
					unmuted++
					assert.Equal(t, c.Active(), i, "only the active item may be unmuted")
					assert.True(t, f.AutoPlay)
				}
			}
			assert.Equal(t, 1, unmuted)
		}
	}
}

func TestController_ClampsToValidRange(t *testing.T) {
	c, clock, snaps := newController(t, 2)

	assert.False(t, c.Prev(), "moving before the first item is a no-op")
	assert.False(t, c.Swipe(-100))
	assert.Equal(t, 0, c.Active())
	assert.Empty(t, *snaps)
	assert.Equal(t, PhaseIdle, c.Phase(), "no-op requests must not start a cooldown")

	require.True(t, c.Next())
	clock.Advance(time.Second)
	assert.False(t, c.Next(), "moving past the last item is a no-op")
	assert.False(t, c.Wheel(500))
	assert.Equal(t, 1, c.Active())
}

func TestController_BelowThresholdIgnored(t *testing.T) {
	c, _, _ := newController(t, 3)
	assert.False(t, c.Wheel(DefaultWheelThreshold-1))
	assert.False(t, c.Swipe(DefaultSwipeThreshold-1))
	assert.False(t, c.Touch(300, 290))
	assert.Equal(t, 0, c.Active())
}

func TestController_CooldownAllowsAtMostOneChange(t *testing.T) {
	c, clock, _ := newController(t, 10)

	require.True(t, c.Wheel(100))
	assert.Equal(t, PhaseTransitioning, c.Phase())
	for i := 0; i < 20; i++ {
		clock.Advance(10 * time.Millisecond)
		c.Wheel(100)
		c.Swipe(200)
	}
	assert.LessOrEqual(t, c.Active(), 2, "rapid gestures produce at most one more change")

	clock.Advance(time.Second)
	assert.Equal(t, PhaseIdle, c.Phase())
	before := c.Active()
	require.True(t, c.Next())
	assert.Equal(t, before+1, c.Active())
}

func TestController_TogglePauseKeepsIndex(t *testing.T) {
	c, clock, _ := newController(t, 3)
	require.True(t, c.Next())

	assert.True(t, c.TogglePause())
	assert.True(t, c.Paused())
	assert.Equal(t, 1, c.Active())
	assert.True(t, c.FlagsFor(1).Paused)

	clock.Advance(time.Second)
	require.True(t, c.Next())
	assert.False(t, c.Paused(), "switching items always resets paused")
}

func TestController_TouchUsesFingerTravel(t *testing.T) {
	c, _, _ := newController(t, 3)
	require.True(t, c.Touch(400, 340))
	assert.Equal(t, 1, c.Active())
}

func TestController_ScrollStepsTowardSampledItem(t *testing.T) {
	c, clock, snaps := newController(t, 5)

	require.True(t, c.Scroll(1900, 400), "sampled item 5 is beyond active")
	assert.Equal(t, 1, c.Active(), "scroll moves one item at a time")
	assert.Equal(t, []int{1}, *snaps)

	clock.Advance(time.Second)
	assert.False(t, c.Scroll(410, 400), "sample on the active item is a no-op")
	assert.False(t, c.Scroll(100, 0))
}

func TestController_ScrollFarOffsetsStillStepForward(t *testing.T) {
	c, clock, _ := newController(t, 5)
	require.True(t, c.Next())
	clock.Advance(time.Second)
	require.True(t, c.Next())
	clock.Advance(time.Second)

	require.True(t, c.Scroll(1e300, 400))
	assert.Equal(t, 3, c.Active(), "a huge forward sample moves forward")

	clock.Advance(time.Second)
	require.True(t, c.Scroll(math.Inf(1), 400))
	assert.Equal(t, 4, c.Active())

	clock.Advance(time.Second)
	assert.False(t, c.Scroll(math.Inf(1), 400), "last item stays put")
	assert.False(t, c.Scroll(math.NaN(), 400))

	require.True(t, c.Scroll(-1e300, 400))
	assert.Equal(t, 3, c.Active())
}

func TestController_EmptyFeed(t *testing.T) {
	c, _, _ := newController(t, 0)
	assert.Equal(t, -1, c.Active())
	assert.False(t, c.Next())
	assert.False(t, c.TogglePause())
	assert.Empty(t, c.Flags())
}

func TestController_ResetOnRemount(t *testing.T) {
	c, _, _ := newController(t, 3)
	require.True(t, c.Next())
	c.TogglePause()

	c.Reset(4)
	st := c.State()
	assert.Equal(t, State{ActiveIndex: 0, Paused: false, Count: 4, Phase: "idle"}, st)
}

func TestController_NegativeCooldownDisablesRateLimit(t *testing.T) {
	c := New(3, Options{Cooldown: -1})
	require.True(t, c.Next())
	require.True(t, c.Next())
	assert.Equal(t, 2, c.Active())
}
