package lightbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNoCurrentItem is reported when an item action has nothing to act on
	ErrNoCurrentItem = errors.New("no current item")
	// ErrActionsDisabled is reported when no ItemActions collaborator is configured
	ErrActionsDisabled = errors.New("counters and ratings disabled")
)

// Config is the per-session configuration of a Viewer
type Config struct {
	ShowNavigation   bool
	SlideshowEnabled bool
	ConfiguredDelay  time.Duration // config-level default, 0 for none
	PageHeader       string

	Boundary    PageBoundary // nil loops within the sequence
	Hide        func()
	InputLock   InputLock
	Fullscreen  FullscreenController
	Preferences PreferenceStore
	Actions     ItemActions
	Toaster     Toaster
	Clock       Clock

	// Go runs delegated mutations off the frame loop. Defaults to a goroutine.
	Go func(func())
}

// Mounted is an item inside the render window
type Mounted struct {
	Position int
	Item     Item
	Current  bool
	Zoom     float64
}

type itemPatch struct {
	id      string
	counter *int
	rating  *int
	clear   bool // rating cleared
	err     error
}

// Viewer is the lightbox: lifecycle, navigation, slideshow and chrome state
type Viewer struct {
	cfg   Config
	clock Clock
	phase Phase

	prefs   Preferences
	loading bool

	viewport  *Viewport
	nav       *Navigator
	interval  *Interval
	slideshow *Slideshow
	input     *InputAdapter
	delay     *DelayInput

	patches   map[string]itemPatch
	resultsMu sync.Mutex
	results   []itemPatch
}

// New creates a closed Viewer
func New(cfg Config) *Viewer {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Preferences == nil {
		cfg.Preferences = &MemoryPreferences{Prefs: DefaultPreferences()}
	}
	if cfg.Go == nil {
		cfg.Go = func(f func()) { go f() }
	}
	return &Viewer{
		cfg:   cfg,
		clock: cfg.Clock,
	}
}

// Open shows the viewer at initialIndex over items
func (v *Viewer) Open(items []Item, initialIndex int) {
	if v.phase != PhaseClosed {
		return
	}

	v.prefs = v.cfg.Preferences.LoadPreferences().Normalize()
	v.viewport = NewViewport(initialIndex, func() bool { return v.prefs.ResetZoomOnNav })
	v.nav = NewNavigator(v.viewport, items, v.cfg.Boundary)
	v.viewport.Clamp(len(items))

	delay := v.prefs.SlideshowDelay(v.cfg.ConfiguredDelay)
	v.interval = NewInterval(v.clock)
	v.slideshow = NewSlideshow(v.interval, v.cfg.SlideshowEnabled, delay, func() {
		v.GoForward(false)
	})
	v.delay = NewDelayInput(delay)
	v.nav.OnUserNavigate(v.slideshow.ResetCountdown)
	v.input = NewInputAdapter(v.clock, v)
	v.patches = make(map[string]itemPatch)

	v.phase = PhaseInitializing
	v.updatePhase()

	if v.cfg.InputLock != nil {
		v.cfg.InputLock.AcquireInputLock()
	}
}

// Close leaves fullscreen if active, otherwise hides the viewer
func (v *Viewer) Close() {
	if v.phase == PhaseClosed {
		return
	}
	if v.viewport.State().Fullscreen && v.cfg.Fullscreen != nil {
		v.cfg.Fullscreen.ExitFullscreen()
		return
	}

	v.slideshow.Stop()
	v.input.Reset()
	v.phase = PhaseClosed
	if v.cfg.Hide != nil {
		v.cfg.Hide()
	}
	if v.cfg.InputLock != nil {
		v.cfg.InputLock.ReleaseInputLock()
	}
}

// Phase returns the lifecycle state
func (v *Viewer) Phase() Phase {
	return v.phase
}

// IsOpen reports whether the viewer is shown
func (v *Viewer) IsOpen() bool {
	return v.phase != PhaseClosed
}

// SetItems delivers a new sequence from the collaborator
func (v *Viewer) SetItems(items []Item) {
	if v.phase == PhaseClosed {
		return
	}
	v.nav.SetItems(items)
	clear(v.patches)
	v.updatePhase()
}

// SetLoading marks the collaborator as fetching
func (v *Viewer) SetLoading(loading bool) {
	v.loading = loading
	if v.phase != PhaseClosed {
		v.updatePhase()
	}
}

func (v *Viewer) updatePhase() {
	switch {
	case v.viewport.Pending():
		v.phase = PhasePageTransition
	case v.nav.Len() == 0 || v.loading:
		if v.phase != PhaseReady {
			v.phase = PhaseInitializing
		}
	default:
		v.phase = PhaseReady
	}
}

// Update advances timers and applies finished mutations. Call once per frame.
func (v *Viewer) Update() {
	v.drainResults()
	if v.phase == PhaseClosed {
		return
	}
	v.input.Update()
	v.slideshow.Update()
}

// GoBackward navigates to the previous item
func (v *Viewer) GoBackward(userInitiated bool) {
	if v.phase != PhaseReady {
		return
	}
	v.nav.GoBackward(userInitiated)
	v.updatePhase()
}

// GoForward navigates to the next item
func (v *Viewer) GoForward(userInitiated bool) {
	if v.phase != PhaseReady {
		return
	}
	v.nav.GoForward(userInitiated)
	v.updatePhase()
}

// JumpTo selects an item directly
func (v *Viewer) JumpTo(index int) {
	if v.phase != PhaseReady {
		return
	}
	v.nav.JumpTo(index)
}

// JumpToFirst selects the first item of the current sequence
func (v *Viewer) JumpToFirst() { v.JumpTo(0) }

// JumpToLast selects the last item of the current sequence
func (v *Viewer) JumpToLast() {
	if v.nav != nil {
		v.JumpTo(v.nav.Len() - 1)
	}
}

// HandleKey routes a key-down through the input adapter
func (v *Viewer) HandleKey(key Key, repeat bool) bool {
	if v.phase == PhaseClosed {
		return false
	}
	return v.input.HandleKey(key, repeat)
}

// HandleFullscreenChange routes a fullscreen notification
func (v *Viewer) HandleFullscreenChange(fullscreen bool) {
	if v.phase == PhaseClosed {
		return
	}
	v.input.HandleFullscreenChange(fullscreen)
}

// FullscreenChanged records the fullscreen flag. The slideshow timer is
// cleared because fullscreen transitions can desync it.
func (v *Viewer) FullscreenChanged(fullscreen bool) {
	v.slideshow.Pause()
	v.viewport.SetFullscreen(fullscreen)
}

// SetInstant toggles instant transitions
func (v *Viewer) SetInstant(instant bool) {
	v.viewport.SetInstant(instant)
}

// SetVisible records whether the host window is foreground-visible
func (v *Viewer) SetVisible(visible bool) {
	if v.phase == PhaseClosed {
		return
	}
	v.slideshow.SetVisible(visible)
}

// ToggleSlideshow starts or stops auto-advance
func (v *Viewer) ToggleSlideshow() {
	if v.phase == PhaseClosed {
		return
	}
	v.slideshow.Toggle()
}

// SlideshowActive reports whether auto-advance is playing
func (v *Viewer) SlideshowActive() bool {
	return v.slideshow != nil && v.slideshow.Active()
}

// SlideshowDelay returns the current delay
func (v *Viewer) SlideshowDelay() time.Duration {
	if v.slideshow == nil {
		return v.cfg.Preferences.LoadPreferences().Normalize().SlideshowDelay(v.cfg.ConfiguredDelay)
	}
	return v.slideshow.Delay()
}

// DelayText returns the delay field's text buffer
func (v *Viewer) DelayText() string {
	if v.delay == nil {
		return ""
	}
	return v.delay.Text()
}

// SetDelayText applies text typed into the delay field
func (v *Viewer) SetDelayText(text string) {
	if v.phase == PhaseClosed {
		return
	}
	seconds, ok := v.delay.SetText(text)
	if !ok {
		return
	}
	v.prefs.SlideshowDelaySeconds = seconds
	v.savePreferences()
	v.slideshow.SetDelay(time.Duration(seconds) * time.Second)
}

// Preferences returns the active preferences
func (v *Viewer) Preferences() Preferences {
	return v.prefs
}

// SetDisplayMode changes the display mode; a change resets zoom and position
func (v *Viewer) SetDisplayMode(mode DisplayMode) {
	if v.phase == PhaseClosed || !mode.Valid() || mode == v.prefs.DisplayMode {
		return
	}
	v.prefs.DisplayMode = mode
	v.savePreferences()
	v.viewport.DisplayChanged()
}

// CycleDisplayMode switches to the next display mode
func (v *Viewer) CycleDisplayMode() {
	v.SetDisplayMode(v.prefs.DisplayMode.Next())
}

func (v *Viewer) SetScaleUp(scaleUp bool) {
	if v.phase == PhaseClosed {
		return
	}
	v.prefs.ScaleUp = scaleUp
	v.savePreferences()
}

func (v *Viewer) SetResetZoomOnNav(reset bool) {
	if v.phase == PhaseClosed {
		return
	}
	v.prefs.ResetZoomOnNav = reset
	v.savePreferences()
}

func (v *Viewer) SetScrollMode(mode ScrollMode) {
	if v.phase == PhaseClosed || (mode != ScrollZoom && mode != ScrollPanY) {
		return
	}
	v.prefs.ScrollMode = mode
	v.savePreferences()
}

func (v *Viewer) savePreferences() {
	if err := v.cfg.Preferences.SavePreferences(v.prefs); err != nil {
		v.toast(fmt.Errorf("save preferences: %w", err))
	}
}

// SetZoom sets the current item's zoom
func (v *Viewer) SetZoom(zoom float64) {
	if v.phase == PhaseClosed {
		return
	}
	v.viewport.SetZoom(zoom)
}

// ResetZoom returns to unzoomed
func (v *Viewer) ResetZoom() {
	if v.phase == PhaseClosed {
		return
	}
	v.viewport.ResetZoom()
}

// ToggleOptions opens or closes the options panel
func (v *Viewer) ToggleOptions() {
	if v.phase == PhaseClosed {
		return
	}
	v.viewport.SetOptionsOpen(!v.viewport.State().OptionsOpen)
}

// CloseOptions hides the options panel
func (v *Viewer) CloseOptions() {
	if v.phase == PhaseClosed {
		return
	}
	v.viewport.SetOptionsOpen(false)
}

// State returns the viewport state. The zero value is returned when closed.
func (v *Viewer) State() ViewportState {
	if v.viewport == nil || v.phase == PhaseClosed {
		return ViewportState{}
	}
	return v.viewport.State()
}

// Items returns the current sequence
func (v *Viewer) Items() []Item {
	if v.nav == nil {
		return nil
	}
	return v.nav.Items()
}

// Current returns the shown item with pending mutation results applied
func (v *Viewer) Current() (Item, bool) {
	if v.phase == PhaseClosed {
		return Item{}, false
	}
	item, ok := v.nav.Current()
	if !ok {
		return Item{}, false
	}
	return v.patched(item), true
}

// Mounted returns the items inside the render window
func (v *Viewer) Mounted() []Mounted {
	if v.phase != PhaseReady {
		return nil
	}
	items := v.nav.Items()
	state := v.viewport.State()
	lo, hi := WindowFor(state.Index, len(items))
	mounted := make([]Mounted, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		m := Mounted{Position: i, Item: v.patched(items[i]), Zoom: 1}
		if i == state.Index {
			m.Current = true
			m.Zoom = state.Zoom
		}
		mounted = append(mounted, m)
	}
	return mounted
}

// Loading reports whether a spinner should replace the carousel
func (v *Viewer) Loading() bool {
	return v.phase != PhaseReady || v.nav.Len() == 0 || v.loading
}

// AllowNavigation reports whether prev/next buttons should be shown
func (v *Viewer) AllowNavigation() bool {
	return v.nav != nil && v.nav.AllowNavigation()
}

// ShowNavButtons reports whether the previous/next buttons are shown
func (v *Viewer) ShowNavButtons() bool {
	return v.AllowNavigation()
}

// ShowNavStrip reports whether the thumbnail strip should be shown
func (v *Viewer) ShowNavStrip() bool {
	return v.cfg.ShowNavigation && !v.State().Fullscreen && v.nav != nil && v.nav.Len() > 1
}

// ShowZoomReset reports whether the zoom reset control should be shown
func (v *Viewer) ShowZoomReset() bool {
	return v.State().Zoom != 1 && v.phase != PhaseClosed
}

// ShowSlideshowToggle reports whether the play/pause control should be shown
func (v *Viewer) ShowSlideshowToggle() bool {
	return v.cfg.SlideshowEnabled
}

// Header returns the page header text
func (v *Viewer) Header() string {
	return v.cfg.PageHeader
}

// Indicator returns "i / n", empty for single-item sequences
func (v *Viewer) Indicator() string {
	if v.nav == nil || v.nav.Len() <= 1 {
		return ""
	}
	idx := v.viewport.Index()
	if idx < 0 {
		return ""
	}
	return fmt.Sprintf("%d / %d", idx+1, v.nav.Len())
}

// IncrementCounter bumps the current item's engagement counter
func (v *Viewer) IncrementCounter() {
	v.mutateCounter(counterIncrement)
}

// DecrementCounter lowers the current item's engagement counter
func (v *Viewer) DecrementCounter() {
	v.mutateCounter(counterDecrement)
}

// ResetCounter zeroes the current item's engagement counter
func (v *Viewer) ResetCounter() {
	v.mutateCounter(counterReset)
}

type counterOp int

const (
	counterIncrement counterOp = iota
	counterDecrement
	counterReset
)

func (op counterOp) String() string {
	switch op {
	case counterIncrement:
		return "increment counter"
	case counterDecrement:
		return "decrement counter"
	default:
		return "reset counter"
	}
}

func (v *Viewer) mutateCounter(op counterOp) {
	item, ok := v.currentForAction(op.String())
	if !ok {
		return
	}
	actions := v.cfg.Actions
	id := item.ID
	v.cfg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		var (
			count int
			err   error
		)
		switch op {
		case counterIncrement:
			count, err = actions.IncrementCounter(ctx, id)
		case counterDecrement:
			count, err = actions.DecrementCounter(ctx, id)
		default:
			count, err = actions.ResetCounter(ctx, id)
		}
		if err != nil {
			v.post(itemPatch{id: id, err: fmt.Errorf("%s: %w", op, err)})
			return
		}
		v.post(itemPatch{id: id, counter: &count})
	})
}

// SetRating sets the current item's rating; nil clears it
func (v *Viewer) SetRating(rating *int) {
	item, ok := v.currentForAction("set rating")
	if !ok {
		return
	}
	actions := v.cfg.Actions
	id := item.ID
	var value *int
	if rating != nil {
		r := min(max(*rating, 0), 100)
		value = &r
	}
	v.cfg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		if err := actions.SetRating(ctx, id, value); err != nil {
			v.post(itemPatch{id: id, err: fmt.Errorf("set rating: %w", err)})
			return
		}
		v.post(itemPatch{id: id, rating: value, clear: value == nil})
	})
}

// currentForAction returns the item an action applies to. A missing
// action collaborator or current item is toasted.
func (v *Viewer) currentForAction(op string) (Item, bool) {
	if v.phase == PhaseClosed {
		return Item{}, false
	}
	if v.cfg.Actions == nil {
		v.toast(fmt.Errorf("%s: %w", op, ErrActionsDisabled))
		return Item{}, false
	}
	item, ok := v.Current()
	if !ok || item.ID == "" {
		v.toast(fmt.Errorf("%s: %w", op, ErrNoCurrentItem))
		return Item{}, false
	}
	return item, true
}

// post queues a mutation result for the next Update; results are never dropped
func (v *Viewer) post(p itemPatch) {
	v.resultsMu.Lock()
	v.results = append(v.results, p)
	v.resultsMu.Unlock()
}

func (v *Viewer) drainResults() {
	v.resultsMu.Lock()
	results := v.results
	v.results = nil
	v.resultsMu.Unlock()

	for _, p := range results {
		if p.err != nil {
			v.toast(p.err)
			continue
		}
		if v.patches == nil {
			continue
		}
		merged := v.patches[p.id]
		merged.id = p.id
		if p.counter != nil {
			merged.counter = p.counter
		}
		if p.rating != nil || p.clear {
			merged.rating = p.rating
			merged.clear = p.clear
		}
		v.patches[p.id] = merged
	}
}

func (v *Viewer) patched(item Item) Item {
	p, ok := v.patches[item.ID]
	if !ok {
		return item
	}
	if p.counter != nil {
		item.Counter = *p.counter
	}
	if p.rating != nil || p.clear {
		item.Rating = p.rating
	}
	return item
}

func (v *Viewer) toast(err error) {
	if v.cfg.Toaster != nil {
		v.cfg.Toaster.Error(err)
	}
}
