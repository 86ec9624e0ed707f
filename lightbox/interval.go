// Package lightbox implements the navigation and display-state engine of the
// modal media viewer: which item is shown, how transitions are driven, and
// which neighbouring items stay mounted.
//
// Nothing here blocks. Timers are polled from the host frame loop through
// Update, so every state change happens on the caller's goroutine.
package lightbox

import "time"

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now
func SystemClock() Clock {
	return systemClock{}
}

// Interval fires a callback every delay. A zero delay is the disabled state.
type Interval struct {
	clock  Clock
	delay  time.Duration
	onTick func()
	next   time.Time
}

// NewInterval creates a new stopped Interval
func NewInterval(clock Clock) *Interval {
	if clock == nil {
		clock = SystemClock()
	}
	return &Interval{clock: clock}
}

// Start arms the interval. Any previous timer is replaced.
func (iv *Interval) Start(delay time.Duration, onTick func()) (clear, reset func()) {
	iv.delay = 0
	iv.onTick = nil
	if delay > 0 && onTick != nil {
		iv.delay = delay
		iv.onTick = onTick
		iv.next = iv.clock.Now().Add(delay)
	}
	return iv.Clear, iv.Reset
}

// Clear stops firing until Start is called again
func (iv *Interval) Clear() {
	iv.delay = 0
	iv.onTick = nil
}

// Reset restarts the countdown without changing the delay
func (iv *Interval) Reset() {
	if iv.Active() {
		iv.next = iv.clock.Now().Add(iv.delay)
	}
}

// Active reports whether a timer is armed
func (iv *Interval) Active() bool {
	return iv.delay > 0 && iv.onTick != nil
}

// Delay returns the configured delay, zero when disabled
func (iv *Interval) Delay() time.Duration {
	return iv.delay
}

// Update fires the callback if the countdown elapsed.
// Missed ticks are not replayed; the next one is a full delay away.
func (iv *Interval) Update() bool {
	if !iv.Active() {
		return false
	}
	now := iv.clock.Now()
	if now.Before(iv.next) {
		return false
	}
	iv.next = now.Add(iv.delay)
	iv.onTick()
	return true
}

// Debouncer runs an action once its wait has passed since the last Trigger
type Debouncer struct {
	clock    Clock
	wait     time.Duration
	action   func()
	deadline time.Time
	armed    bool
}

// NewDebouncer creates a Debouncer
func NewDebouncer(clock Clock, wait time.Duration, action func()) *Debouncer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Debouncer{clock: clock, wait: wait, action: action}
}

// Trigger (re)arms the delayed action
func (d *Debouncer) Trigger() {
	d.deadline = d.clock.Now().Add(d.wait)
	d.armed = true
}

// Cancel drops a pending action
func (d *Debouncer) Cancel() {
	d.armed = false
}

// Pending reports whether the action is waiting to run
func (d *Debouncer) Pending() bool {
	return d.armed
}

// Update runs the action if it is due
func (d *Debouncer) Update() bool {
	if !d.armed || d.clock.Now().Before(d.deadline) {
		return false
	}
	d.armed = false
	if d.action != nil {
		d.action()
	}
	return true
}
