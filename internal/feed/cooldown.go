package feed

import "time"

// Phase is the rate-limit state of the controller.
type Phase int

const (
	// PhaseIdle accepts index-changing gestures.
	PhaseIdle Phase = iota
	// PhaseTransitioning ignores index-changing gestures until the window ends.
	PhaseTransitioning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTransitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// cooldown is the idle -> transitioning -> idle machine that keeps one fast
// gesture from skipping several items.
type cooldown struct {
	window time.Duration
	phase  Phase
	until  time.Time
}

// ready settles an expired window and reports whether a transition may start.
func (c *cooldown) ready(now time.Time) bool {
	if c.phase == PhaseTransitioning && !now.Before(c.until) {
		c.phase = PhaseIdle
	}
	return c.phase == PhaseIdle
}

// begin enters the transitioning phase.
func (c *cooldown) begin(now time.Time) {
	if c.window <= 0 {
		return
	}
	c.phase = PhaseTransitioning
	c.until = now.Add(c.window)
}

func (c *cooldown) reset() {
	c.phase = PhaseIdle
	c.until = time.Time{}
}
