package lightbox

import (
	"strconv"
	"time"
)

// Slideshow auto-advances a Navigator on an Interval
type Slideshow struct {
	interval *Interval
	enabled  bool
	active   bool
	visible  bool
	delay    time.Duration
	advance  func()
}

// NewSlideshow creates a stopped slideshow. When enabled is false Toggle is
// a no-op and the timer never fires.
func NewSlideshow(interval *Interval, enabled bool, delay time.Duration, advance func()) *Slideshow {
	if delay < MinSlideshowDelaySeconds*time.Second {
		delay = MinSlideshowDelaySeconds * time.Second
	}
	return &Slideshow{
		interval: interval,
		enabled:  enabled,
		visible:  true,
		delay:    delay,
		advance:  advance,
	}
}

// Enabled reports whether the slideshow can run at all
func (s *Slideshow) Enabled() bool { return s.enabled }

// Active reports whether the slideshow is playing
func (s *Slideshow) Active() bool { return s.active }

// Delay returns the configured delay
func (s *Slideshow) Delay() time.Duration { return s.delay }

// Toggle starts or stops the slideshow
func (s *Slideshow) Toggle() {
	if s.active {
		s.Stop()
		return
	}
	if !s.enabled || !s.visible {
		return
	}
	s.active = true
	s.arm()
}

// Stop halts the slideshow
func (s *Slideshow) Stop() {
	s.active = false
	s.interval.Clear()
}

// SetDelay changes the delay, re-arming at the new value when active
func (s *Slideshow) SetDelay(delay time.Duration) {
	if delay < MinSlideshowDelaySeconds*time.Second {
		delay = MinSlideshowDelaySeconds * time.Second
	}
	s.delay = delay
	if s.active {
		s.arm()
	}
}

// ResetCountdown pushes the next advance a full delay away.
// A paused timer is re-armed.
func (s *Slideshow) ResetCountdown() {
	if !s.active {
		return
	}
	if !s.interval.Active() {
		s.arm()
		return
	}
	s.interval.Reset()
}

// Pause clears the timer but keeps the slideshow marked active
func (s *Slideshow) Pause() {
	s.interval.Clear()
}

// SetVisible records host visibility. Losing it stops the slideshow.
func (s *Slideshow) SetVisible(visible bool) {
	s.visible = visible
	if !visible && s.active {
		s.Stop()
	}
}

// Update fires the pending tick if due
func (s *Slideshow) Update() bool {
	if !s.active || !s.visible {
		return false
	}
	return s.interval.Update()
}

func (s *Slideshow) arm() {
	s.interval.Start(s.delay, s.advance)
}

// DelayInput is the text buffer behind the delay field. The buffer may hold
// text that is not a valid delay while the user is still typing.
type DelayInput struct {
	text    string
	seconds int
}

// NewDelayInput creates a buffer showing delay
func NewDelayInput(delay time.Duration) *DelayInput {
	seconds := int(delay / time.Second)
	if seconds < MinSlideshowDelaySeconds {
		seconds = MinSlideshowDelaySeconds
	}
	return &DelayInput{text: strconv.Itoa(seconds), seconds: seconds}
}

// Text returns the displayed text
func (d *DelayInput) Text() string { return d.text }

// Seconds returns the last applied value
func (d *DelayInput) Seconds() int { return d.seconds }

// SetText updates the buffer. It returns the value to apply and true, or
// false when the text is an intermediate state that must not be applied.
func (d *DelayInput) SetText(text string) (int, bool) {
	d.text = text
	if text == "" || text == "-" {
		return 0, false
	}

	seconds, ok := parseLeadingInt(text)
	if !ok || seconds < MinSlideshowDelaySeconds {
		seconds = MinSlideshowDelaySeconds
	}
	d.seconds = seconds
	return seconds, true
}

// parseLeadingInt reads an optionally signed run of leading digits,
// ignoring leading spaces and anything after the digits.
func parseLeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		// overflow: treat as the largest sane value
		if s[start] == '-' {
			return 0, false
		}
		return 1<<31 - 1, true
	}
	return n, true
}
