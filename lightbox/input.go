package lightbox

import "time"

// Key is a key recognised by the viewer
type Key int

const (
	KeyOther Key = iota
	KeyArrowLeft
	KeyArrowRight
	KeyEscape
)

// InstantCooldown is how long instant transitions last after the last
// repeated key press
const InstantCooldown = 400 * time.Millisecond

// InputTarget receives translated input
type InputTarget interface {
	GoBackward(userInitiated bool)
	GoForward(userInitiated bool)
	Close()
	SetInstant(instant bool)
	FullscreenChanged(fullscreen bool)
}

// InputAdapter translates key presses and fullscreen notifications
type InputAdapter struct {
	target  InputTarget
	instant *Debouncer
}

// NewInputAdapter creates an InputAdapter
func NewInputAdapter(clock Clock, target InputTarget) *InputAdapter {
	a := &InputAdapter{target: target}
	a.instant = NewDebouncer(clock, InstantCooldown, func() {
		target.SetInstant(false)
	})
	return a
}

// HandleKey processes a key-down. repeat is true for auto-repeat events.
func (a *InputAdapter) HandleKey(key Key, repeat bool) bool {
	if repeat && (key == KeyArrowLeft || key == KeyArrowRight) {
		a.target.SetInstant(true)
		a.instant.Trigger()
	}

	switch key {
	case KeyArrowLeft:
		a.target.GoBackward(true)
	case KeyArrowRight:
		a.target.GoForward(true)
	case KeyEscape:
		a.target.Close()
	default:
		return false
	}
	return true
}

// HandleFullscreenChange processes a fullscreen-change notification
func (a *InputAdapter) HandleFullscreenChange(fullscreen bool) {
	a.target.FullscreenChanged(fullscreen)
}

// Update clears instant mode once the cooldown elapsed
func (a *InputAdapter) Update() {
	a.instant.Update()
}

// Reset drops any pending cooldown
func (a *InputAdapter) Reset() {
	a.instant.Cancel()
}
