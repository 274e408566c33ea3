// Package feed owns the short-video feed's playback state: which item is
// active, whether it is paused, and how gestures move between items.
package feed

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/metrics"
	"github.com/gauthierbraillon/winelocals/internal/player"
)

// Defaults for gesture recognition.
const (
	DefaultWheelThreshold = 30.0
	DefaultSwipeThreshold = 50.0
	DefaultCooldown       = 600 * time.Millisecond
)

// Trigger names the input that caused a transition.
type Trigger string

const (
	TriggerWheel  Trigger = "wheel"
	TriggerSwipe  Trigger = "swipe"
	TriggerScroll Trigger = "scroll"
	TriggerKey    Trigger = "key"
)

// Snapper aligns the viewport to one item after every index change.
type Snapper interface {
	SnapTo(index int)
}

// SnapFunc adapts a function to Snapper.
type SnapFunc func(index int)

// SnapTo calls f(index).
func (f SnapFunc) SnapTo(index int) { f(index) }

// State is the observable playback state.
type State struct {
	ActiveIndex int    `json:"activeIndex"`
	Paused      bool   `json:"paused"`
	Count       int    `json:"count"`
	Phase       string `json:"phase"`
}

// Options tune gesture recognition. Zero values select the defaults; a
// negative Cooldown disables rate limiting.
type Options struct {
	WheelThreshold float64
	SwipeThreshold float64
	Cooldown       time.Duration
	Snapper        Snapper
	Now            func() time.Time
}

// Controller is the single owner of the feed's active index and paused flag.
// The index it holds is authoritative: native scroll offsets are only gesture
// input and never assign the index directly.
type Controller struct {
	count  int
	active int
	paused bool

	wheelThreshold float64
	swipeThreshold float64
	cool           cooldown
	snapper        Snapper
	now            func() time.Time
	logger         zerolog.Logger
}

// New creates a controller over count items starting at index 0.
func New(count int, opts Options) *Controller {
	if count < 0 {
		count = 0
	}
	c := &Controller{
		count:          count,
		wheelThreshold: opts.WheelThreshold,
		swipeThreshold: opts.SwipeThreshold,
		cool:           cooldown{window: opts.Cooldown},
		snapper:        opts.Snapper,
		now:            opts.Now,
		logger:         log.WithComponent("feed"),
	}
	if c.wheelThreshold <= 0 {
		c.wheelThreshold = DefaultWheelThreshold
	}
	if c.swipeThreshold <= 0 {
		c.swipeThreshold = DefaultSwipeThreshold
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Cooldown == 0 {
		c.cool.window = DefaultCooldown
	}
	return c
}

// Count returns the number of items.
func (c *Controller) Count() int { return c.count }

// Active returns the active index, or -1 for an empty feed.
func (c *Controller) Active() int {
	if c.count == 0 {
		return -1
	}
	return c.active
}

// Paused reports whether the active item is paused.
func (c *Controller) Paused() bool { return c.paused }

// Phase returns the cooldown phase, settling it first.
func (c *Controller) Phase() Phase {
	c.cool.ready(c.now())
	return c.cool.phase
}

// State returns a snapshot of the playback state.
func (c *Controller) State() State {
	return State{
		ActiveIndex: c.Active(),
		Paused:      c.paused,
		Count:       c.count,
		Phase:       c.Phase().String(),
	}
}

// Wheel handles a mouse-wheel delta. Positive deltas advance.
func (c *Controller) Wheel(deltaY float64) bool {
	if math.Abs(deltaY) < c.wheelThreshold {
		return false
	}
	return c.step(direction(deltaY), TriggerWheel)
}

// Swipe handles a vertical swipe distance. Positive distances advance
// (finger travels up, content scrolls down).
func (c *Controller) Swipe(distance float64) bool {
	if math.Abs(distance) < c.swipeThreshold {
		return false
	}
	return c.step(direction(distance), TriggerSwipe)
}

// Touch handles a touch sequence from its start and end Y coordinates.
func (c *Controller) Touch(startY, endY float64) bool {
	return c.Swipe(startY - endY)
}

// Scroll samples a native scroll position. The sampled item only decides the
// direction of a single step; the controller's index stays authoritative.
func (c *Controller) Scroll(offset, viewport float64) bool {
	if viewport <= 0 || c.count == 0 {
		return false
	}
	pos := math.Round(offset / viewport)
	if math.IsNaN(pos) {
		return false
	}
	target := int(math.Max(0, math.Min(pos, float64(c.count-1))))
	switch {
	case target > c.active:
		return c.step(1, TriggerScroll)
	case target < c.active:
		return c.step(-1, TriggerScroll)
	default:
		return false
	}
}

// Next moves to the following item.
func (c *Controller) Next() bool { return c.step(1, TriggerKey) }

// Prev moves to the previous item.
func (c *Controller) Prev() bool { return c.step(-1, TriggerKey) }

// TogglePause flips the paused flag of the active item. It never changes the
// index and is not rate limited.
func (c *Controller) TogglePause() bool {
	if c.count == 0 {
		return false
	}
	c.paused = !c.paused
	return c.paused
}

// Reset returns to the first item, unpaused, as on a remount.
func (c *Controller) Reset(count int) {
	if count < 0 {
		count = 0
	}
	c.count = count
	c.active = 0
	c.paused = false
	c.cool.reset()
}

// Flags returns the player flags for every item. Only the active item may
// autoplay with sound.
func (c *Controller) Flags() []player.Flags {
	out := make([]player.Flags, c.count)
	for i := range out {
		out[i] = c.FlagsFor(i)
	}
	return out
}

// FlagsFor returns the player flags for item i.
func (c *Controller) FlagsFor(i int) player.Flags {
	if i != c.active || c.count == 0 {
		return player.Flags{Muted: true}
	}
	return player.Flags{AutoPlay: true, Active: true, Paused: c.paused}
}

func (c *Controller) step(delta int, trigger Trigger) bool {
	target := c.active + delta
	if target < 0 || target >= c.count {
		return false
	}
	now := c.now()
	if !c.cool.ready(now) {
		metrics.RecordSuppressedGesture()
		c.logger.Debug().Str("trigger", string(trigger)).Msg("gesture ignored during cooldown")
		return false
	}

	c.active = target
	c.paused = false
	c.cool.begin(now)
	metrics.RecordTransition(string(trigger))
	c.logger.Debug().Int(log.FieldIndex, target).Str("trigger", string(trigger)).Msg("active item changed")

	if c.snapper != nil {
		c.snapper.SnapTo(target)
	}
	return true
}

func direction(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}
