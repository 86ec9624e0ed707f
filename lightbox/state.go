package lightbox

// PagePending is the index while a page transition is in flight
const PagePending = -1

// Direction of the last transition
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Phase is the viewer lifecycle state
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseInitializing
	PhaseReady
	PhasePageTransition
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	case PhasePageTransition:
		return "page_transition"
	default:
		return "closed"
	}
}

// ViewportState is the display state of an open viewer
type ViewportState struct {
	Index         int
	Direction     Direction
	Zoom          float64
	ResetPosition bool // toggled to ask the image element to re-center
	Fullscreen    bool
	OptionsOpen   bool
	Instant       bool // transition animation suppressed
}

// Viewport stores ViewportState and the pending-page bookkeeping
type Viewport struct {
	state          ViewportState
	pending        bool
	pendingDir     Direction
	beforePage     int
	resetZoomOnNav func() bool
}

// NewViewport creates a viewport showing initialIndex; negative indices start at 0
func NewViewport(initialIndex int, resetZoomOnNav func() bool) *Viewport {
	initialIndex = max(initialIndex, 0)
	if resetZoomOnNav == nil {
		resetZoomOnNav = func() bool { return false }
	}
	return &Viewport{
		state:          ViewportState{Index: initialIndex, Zoom: 1},
		resetZoomOnNav: resetZoomOnNav,
	}
}

// State returns a copy of the current state
func (v *Viewport) State() ViewportState {
	return v.state
}

// Index returns the current index or PagePending
func (v *Viewport) Index() int {
	return v.state.Index
}

// Pending reports whether a page transition is in flight
func (v *Viewport) Pending() bool {
	return v.pending
}

// Select moves to index in the given direction
func (v *Viewport) Select(index int, dir Direction) {
	v.state.Direction = dir
	if index == v.state.Index {
		return
	}
	v.state.Index = index
	v.itemChanged()
}

// BeginPageTransition marks a page request in flight
func (v *Viewport) BeginPageTransition(dir Direction) {
	v.beforePage = v.state.Index
	v.pending = true
	v.pendingDir = dir
	v.state.Direction = dir
	v.state.Index = PagePending
}

// ResolvePage ends a page transition against a sequence of length n.
// Forward paging resumes at the first item, backward paging at the last.
// An empty page keeps the index held before the request.
func (v *Viewport) ResolvePage(n int) {
	v.pending = false
	switch {
	case n == 0:
		v.state.Index = v.beforePage
	case v.pendingDir == Backward:
		v.state.Index = n - 1
	default:
		v.state.Index = 0
	}
	v.itemChanged()
}

// Clamp keeps the index valid after a sequence replacement outside paging
func (v *Viewport) Clamp(n int) {
	if v.Pending() || n == 0 {
		return
	}
	if v.state.Index >= n {
		v.state.Index = n - 1
		v.itemChanged()
	} else if v.state.Index < 0 {
		v.state.Index = 0
		v.itemChanged()
	}
}

// SetZoom sets the zoom of the current item; non-positive values are ignored
func (v *Viewport) SetZoom(zoom float64) {
	if zoom > 0 {
		v.state.Zoom = zoom
	}
}

// ResetZoom returns to unzoomed and re-centers
func (v *Viewport) ResetZoom() {
	v.state.Zoom = 1
	v.TogglePositionReset()
}

// TogglePositionReset flips the position-reset signal
func (v *Viewport) TogglePositionReset() {
	v.state.ResetPosition = !v.state.ResetPosition
}

// DisplayChanged applies the same reset as an item change
func (v *Viewport) DisplayChanged() {
	v.itemChanged()
}

func (v *Viewport) SetFullscreen(fullscreen bool) { v.state.Fullscreen = fullscreen }
func (v *Viewport) SetOptionsOpen(open bool)      { v.state.OptionsOpen = open }
func (v *Viewport) SetInstant(instant bool)       { v.state.Instant = instant }

func (v *Viewport) itemChanged() {
	if v.resetZoomOnNav() {
		v.state.Zoom = 1
	}
	v.TogglePositionReset()
}
