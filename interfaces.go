package main

import (
	"time"

	"lightview/lightbox"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
	// Error toast display duration
	toastDuration = 4 * time.Second
)

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	IsFullscreen() bool

	// Content
	Gallery() *Gallery
	Lightbox() *lightbox.Viewer
	Images() *ImageManager

	// Lightbox presentation
	CarouselOffset() float64
	PanOffsetY() float64
	SetPanOffsetY(pan float64)

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	GetToast() (string, time.Time)

	// Display data
	GetPageHeader() string
	GetTotalCount() int
	IsPageLoading() bool
	GetSortName() string
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Gallery
	Gallery() *Gallery
	OpenSelected()
	MoveSelection(dx, dy int)
	SelectIndex(index int)
	ChangePage(direction int)
	CycleSortMethod()
	GetPageItemCount() int

	// Lightbox returns the viewer; it may be closed
	Lightbox() *lightbox.Viewer
	PanBy(deltaY float64)

	// Messages
	ShowOverlayMessage(message string)
}
