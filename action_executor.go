package main

import (
	"strconv"

	"lightview/lightbox"
)

// ActionExecutor provides centralized action execution logic
// shared by KeybindingManager and MousebindingManager
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes a gallery action or, when a lightbox is open, a
// lightbox action. It returns false for unknown actions.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions) bool {
	if actionScope(action) == scopeLightbox {
		viewer := inputActions.Lightbox()
		if viewer == nil || !viewer.IsOpen() {
			return false
		}
		return ae.executeLightboxAction(action, viewer, inputActions)
	}

	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "open":
		inputActions.OpenSelected()
	case "select_left":
		inputActions.MoveSelection(-1, 0)
	case "select_right":
		inputActions.MoveSelection(1, 0)
	case "select_up":
		inputActions.MoveSelection(0, -1)
	case "select_down":
		inputActions.MoveSelection(0, 1)
	case "next_page":
		inputActions.ChangePage(1)
	case "previous_page":
		inputActions.ChangePage(-1)
	case "jump_first":
		inputActions.SelectIndex(0)
	case "jump_last":
		inputActions.SelectIndex(inputActions.GetPageItemCount() - 1)
	case "cycle_sort":
		inputActions.CycleSortMethod()
	case "fullscreen":
		inputActions.ToggleFullscreen()
	default:
		return false
	}

	return true
}

func (ae *ActionExecutor) executeLightboxAction(action string, viewer *lightbox.Viewer, inputActions InputActions) bool {
	prefs := viewer.Preferences()

	switch action {
	case "lb_fullscreen":
		inputActions.ToggleFullscreen()
	case "lb_slideshow":
		viewer.ToggleSlideshow()
	case "lb_first":
		viewer.JumpToFirst()
	case "lb_last":
		viewer.JumpToLast()
	case "lb_zoom_in":
		viewer.SetZoom(clampZoom(viewer.State().Zoom * zoomStep))
	case "lb_zoom_out":
		viewer.SetZoom(clampZoom(viewer.State().Zoom / zoomStep))
	case "lb_zoom_reset":
		viewer.ResetZoom()
	case "lb_counter_increment":
		viewer.IncrementCounter()
	case "lb_counter_decrement":
		viewer.DecrementCounter()
	case "lb_counter_reset":
		viewer.ResetCounter()
	case "lb_rating_1", "lb_rating_2", "lb_rating_3", "lb_rating_4", "lb_rating_5":
		stars, _ := strconv.Atoi(action[len(action)-1:])
		rating := stars * 20
		viewer.SetRating(&rating)
	case "lb_rating_clear":
		viewer.SetRating(nil)
	case "lb_options":
		viewer.ToggleOptions()
	case "lb_display_mode":
		viewer.CycleDisplayMode()
		inputActions.ShowOverlayMessage("Display: " + displayModeName(viewer.Preferences().DisplayMode))
	case "lb_scroll_mode":
		if prefs.ScrollMode == lightbox.ScrollZoom {
			viewer.SetScrollMode(lightbox.ScrollPanY)
		} else {
			viewer.SetScrollMode(lightbox.ScrollZoom)
		}
		inputActions.ShowOverlayMessage("Scroll: " + string(viewer.Preferences().ScrollMode))
	case "lb_scale_up":
		viewer.SetScaleUp(!prefs.ScaleUp)
		inputActions.ShowOverlayMessage("Scale up: " + onOff(viewer.Preferences().ScaleUp))
	case "lb_reset_zoom_on_nav":
		viewer.SetResetZoomOnNav(!prefs.ResetZoomOnNav)
		inputActions.ShowOverlayMessage("Reset zoom on navigation: " + onOff(viewer.Preferences().ResetZoomOnNav))
	default:
		return false
	}
	return true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func displayModeName(mode lightbox.DisplayMode) string {
	switch mode {
	case lightbox.DisplayFitX:
		return "Fit width"
	case lightbox.DisplayOriginal:
		return "Original size"
	default:
		return "Fit to screen"
	}
}

// globalActionExecutor is the shared ActionExecutor; it holds no state
var globalActionExecutor = NewActionExecutor()
