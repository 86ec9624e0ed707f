package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lightview/lightbox"
)

// optionsPanelActions stay live while the options panel owns the keyboard
var optionsPanelActions = []string{"lb_options", "lb_display_mode", "lb_scroll_mode", "lb_scale_up", "lb_reset_zoom_on_nav"}

// Key repeat timing in ticks, at the default 60 TPS
const (
	keyRepeatDelay    = 30
	keyRepeatInterval = 4
)

// InputHandler routes keyboard and mouse input to the gallery or the lightbox
type InputHandler struct {
	inputActions        InputActions
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	screenSize          func() (int, int)
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager, screenSize func() (int, int)) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
		screenSize:          screenSize,
	}
}

// HandleInput processes all input for the current frame.
// Returns true if any input was processed.
func (h *InputHandler) HandleInput() bool {
	if viewer := h.inputActions.Lightbox(); viewer != nil && viewer.IsOpen() {
		return h.handleLightbox(viewer)
	}
	return h.handleGallery()
}

func (h *InputHandler) handleGallery() bool {
	inputProcessed := h.handleGalleryClick()

	for _, action := range actionsInScope(scopeGallery) {
		if h.keybindingManager.ExecuteAction(action, h.inputActions) {
			inputProcessed = true
		}
		if h.mousebindingManager.ExecuteAction(action, h.inputActions) {
			inputProcessed = true
		}
	}
	return inputProcessed
}

// handleGalleryClick selects the cell under the cursor so a double-click
// opens the clicked image
func (h *InputHandler) handleGalleryClick() bool {
	if !h.mousebindingManager.GetSettings().EnableMouse || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	w, hgt := h.screenSize()
	gallery := h.inputActions.Gallery()
	layout := newGridLayout(w, hgt, gallery.Columns())
	x, y := ebiten.CursorPosition()
	index := layout.cellAt(x, y, gallery.ScrollTo(layout.visibleRows), gallery.Len())
	if index < 0 {
		return false
	}
	h.inputActions.SelectIndex(index)
	return true
}

func (h *InputHandler) handleLightbox(viewer *lightbox.Viewer) bool {
	if viewer.State().OptionsOpen {
		return h.handleOptionsPanel(viewer)
	}

	inputProcessed := false

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		viewer.HandleKey(lightbox.KeyEscape, false)
		return true
	}
	if h.handleArrow(viewer, ebiten.KeyArrowLeft, lightbox.KeyArrowLeft) {
		inputProcessed = true
	}
	if h.handleArrow(viewer, ebiten.KeyArrowRight, lightbox.KeyArrowRight) {
		inputProcessed = true
	}

	for _, action := range actionsInScope(scopeLightbox) {
		if !viewer.IsOpen() {
			return true
		}
		if h.keybindingManager.ExecuteAction(action, h.inputActions) {
			inputProcessed = true
		}
		if h.mousebindingManager.ExecuteAction(action, h.inputActions) {
			inputProcessed = true
		}
	}

	if h.handleLightboxMouse(viewer) {
		inputProcessed = true
	}
	return inputProcessed
}

// handleArrow forwards presses and auto-repeats of an arrow key
func (h *InputHandler) handleArrow(viewer *lightbox.Viewer, key ebiten.Key, lbKey lightbox.Key) bool {
	if !modifiersMatch(false, false, false) {
		return false
	}
	if inpututil.IsKeyJustPressed(key) {
		return viewer.HandleKey(lbKey, false)
	}
	if isKeyRepeating(inpututil.KeyPressDuration(key)) {
		return viewer.HandleKey(lbKey, true)
	}
	return false
}

// isKeyRepeating reports whether a key held for ticks fires an auto-repeat
func isKeyRepeating(ticks int) bool {
	return ticks > keyRepeatDelay && (ticks-keyRepeatDelay)%keyRepeatInterval == 0
}

func (h *InputHandler) handleLightboxMouse(viewer *lightbox.Viewer) bool {
	if !h.mousebindingManager.GetSettings().EnableMouse {
		return false
	}

	inputProcessed := false
	if modifiersMatch(false, false, false) {
		if delta := h.mousebindingManager.WheelDelta(); delta != 0 {
			h.handleWheel(viewer, delta)
			inputProcessed = true
		}
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return inputProcessed
	}

	w, hgt := h.screenSize()
	layout := newLightboxLayout(w, hgt, viewer.ShowNavStrip())
	x, y := ebiten.CursorPosition()
	state := viewer.State()

	if target := stripEdgeTarget(layout.stripEdge(x, y), len(viewer.Items())); target >= 0 {
		viewer.JumpTo(target)
		return true
	}
	if index := layout.stripHit(x, y, state.Index, len(viewer.Items())); index >= 0 {
		viewer.JumpTo(index)
		return true
	}
	if !viewer.ShowNavButtons() {
		return inputProcessed
	}
	switch layout.navZone(x, y) {
	case -1:
		viewer.GoBackward(true)
		return true
	case 1:
		viewer.GoForward(true)
		return true
	}
	return inputProcessed
}

func (h *InputHandler) handleWheel(viewer *lightbox.Viewer, delta float64) {
	if viewer.Preferences().ScrollMode == lightbox.ScrollPanY {
		h.inputActions.PanBy(delta * h.mousebindingManager.GetSettings().PanStep)
		return
	}
	zoom := viewer.State().Zoom
	if delta > 0 {
		zoom *= zoomStep
	} else {
		zoom /= zoomStep
	}
	viewer.SetZoom(clampZoom(zoom))
}

// handleOptionsPanel edits the slideshow delay while the options panel is open
func (h *InputHandler) handleOptionsPanel(viewer *lightbox.Viewer) bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		viewer.CloseOptions()
		return true
	}
	for _, action := range optionsPanelActions {
		if h.keybindingManager.ExecuteAction(action, h.inputActions) {
			return true
		}
	}

	text := viewer.DelayText()
	changed := false
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(text) > 0 {
		text = text[:len(text)-1]
		changed = true
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if (r >= '0' && r <= '9') || r == '-' {
			text += string(r)
			changed = true
		}
	}
	if changed {
		viewer.SetDelayText(text)
	}
	return changed
}
