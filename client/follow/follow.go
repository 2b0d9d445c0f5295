// Package follow decides when the chat viewport should chase the newest
// entry. The policy is threshold-gated: while the reader sits within a few
// lines of the bottom the view follows new content; once they scroll away
// the view holds still and a jump-to-latest affordance is offered instead.
// Near-bottom is re-derived on every manual scroll, so a reader who comes
// back down regains auto-follow.
package follow

import "time"

const (
	// DefaultThreshold is how many lines from the bottom still count as
	// reading the tail.
	DefaultThreshold = 3

	// SettleDelay is how long to wait after an append before scrolling, so
	// the render pass sees the new content height first.
	SettleDelay = 100 * time.Millisecond
)

// Controller is a pure state machine over scroll metrics; it never touches
// the viewport itself. All methods run on the UI event loop.
type Controller struct {
	threshold  int
	delay      time.Duration
	nearBottom bool
	unseen     int
	armed      bool
	deadline   time.Time
}

// New returns a controller with the given near-bottom threshold and settle
// delay. A fresh view starts at the bottom.
func New(threshold int, delay time.Duration) *Controller {
	return &Controller{threshold: threshold, delay: delay, nearBottom: true}
}

func Default() *Controller {
	return New(DefaultThreshold, SettleDelay)
}

// Observe recomputes the near-bottom state from the current scroll
// position. offset is the first visible line, contentLen the total content
// height, viewLen the viewport height, all in lines.
func (c *Controller) Observe(offset, contentLen, viewLen int) {
	dist := contentLen - viewLen - offset
	if dist < 0 {
		dist = 0
	}
	c.nearBottom = dist < c.threshold
	if c.nearBottom {
		c.unseen = 0
	}
}

// NearBottom reports whether the reader is within the follow threshold.
func (c *Controller) NearBottom() bool { return c.nearBottom }

// JumpVisible reports whether the jump-to-latest affordance should show.
func (c *Controller) JumpVisible() bool { return !c.nearBottom }

// Unseen is the number of entries appended since the reader scrolled away.
func (c *Controller) Unseen() int { return c.unseen }

// OnAppend arms the settle-delay deadline for a new timeline entry. An
// already-armed deadline is superseded, debounce style.
func (c *Controller) OnAppend(now time.Time) {
	c.armed = true
	c.deadline = now.Add(c.delay)
	if !c.nearBottom {
		c.unseen++
	}
}

// Delay is the settle delay the caller should sleep before calling Fire.
func (c *Controller) Delay() time.Duration { return c.delay }

// Fire consumes a due deadline and reports whether the view should scroll
// to the latest entry. Early or unarmed calls report false and consume
// nothing; a due deadline is consumed even when the gate holds the scroll
// back.
func (c *Controller) Fire(now time.Time) bool {
	if !c.armed || now.Before(c.deadline) {
		return false
	}
	c.armed = false
	return c.nearBottom
}

// Cancel drops any pending deadline. Called on view teardown.
func (c *Controller) Cancel() {
	c.armed = false
}

// ScrollToLatest records a jump to the newest entry. Idempotent; safe to
// call when already at the bottom.
func (c *Controller) ScrollToLatest() {
	c.nearBottom = true
	c.unseen = 0
}
