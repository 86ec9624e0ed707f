package main

import (
	"image"
	"math"
	"time"

	"lightview/lightbox"
)

const (
	slideDuration = 250 * time.Millisecond
	zoomStep      = 1.25
	minZoom       = 0.1
	maxZoom       = 16.0
)

// displayScale returns the draw scale of an iw x ih image in a w x h area
func displayScale(prefs lightbox.Preferences, iw, ih, w, h int, zoom float64) float64 {
	if iw <= 0 || ih <= 0 || w <= 0 || h <= 0 {
		return 1
	}

	var scale float64
	switch prefs.DisplayMode {
	case lightbox.DisplayFitX:
		scale = float64(w) / float64(iw)
	case lightbox.DisplayOriginal:
		scale = 1
	default:
		scale = math.Min(float64(w)/float64(iw), float64(h)/float64(ih))
	}
	if !prefs.EffectiveScaleUp() && scale > 1 {
		scale = 1
	}
	if zoom > 0 {
		scale *= zoom
	}
	return scale
}

// clampZoom keeps a zoom level inside the supported range
func clampZoom(zoom float64) float64 {
	return math.Min(math.Max(zoom, minZoom), maxZoom)
}

// verticalPlacement returns the top edge of an image of height imgH in an
// area of height areaH. Images taller than the area start at the top when
// moving forward and at the bottom when moving backward; pan is measured
// from that anchor and clamped so the image never leaves the area.
func verticalPlacement(imgH, areaH float64, dir lightbox.Direction, pan float64) (top, clampedPan float64) {
	if imgH <= areaH {
		return (areaH - imgH) / 2, 0
	}

	anchor := 0.0
	if dir == lightbox.Backward {
		anchor = areaH - imgH
	}
	top = math.Min(math.Max(anchor+pan, areaH-imgH), 0)
	return top, top - anchor
}

// carousel animates the slide between consecutive items
type carousel struct {
	index int
	from  float64 // starting offset in screen widths
	start time.Time
}

// track notes the shown index and starts a slide when it changed
func (c *carousel) track(index int, dir lightbox.Direction, instant bool, now time.Time) {
	if index == c.index {
		return
	}
	c.index = index
	if instant || index < 0 {
		c.from = 0
		return
	}
	c.from = 1
	if dir == lightbox.Backward {
		c.from = -1
	}
	c.start = now
}

// reset jumps to index without animating
func (c *carousel) reset(index int) {
	c.index = index
	c.from = 0
}

// offset returns the current slide offset in screen widths
func (c *carousel) offset(now time.Time) float64 {
	if c.from == 0 {
		return 0
	}
	progress := float64(now.Sub(c.start)) / float64(slideDuration)
	if progress >= 1 {
		c.from = 0
		return 0
	}
	// ease out
	remaining := 1 - progress
	return c.from * remaining * remaining
}

const (
	lightboxHeaderHeight = 36
	lightboxFooterHeight = 44
	navStripHeight       = 76
	navThumbSize         = 64
	navThumbGap          = 6
	navButtonWidth       = 72
	stripEdgeWidth       = 40
)

// lightboxLayout is the screen geometry of an open lightbox
type lightboxLayout struct {
	width, height int
	stage         image.Rectangle // carousel area
	strip         image.Rectangle // empty when the nav strip is hidden
}

func newLightboxLayout(w, h int, showStrip bool) lightboxLayout {
	bottom := h - lightboxFooterHeight
	l := lightboxLayout{width: w, height: h}
	if showStrip {
		l.strip = image.Rect(0, bottom-navStripHeight, w, bottom)
		bottom -= navStripHeight
	}
	l.stage = image.Rect(0, lightboxHeaderHeight, w, max(bottom, lightboxHeaderHeight+1))
	return l
}

// stripWindow returns the item range shown in the nav strip, centered on index
func (l lightboxLayout) stripWindow(index, count int) (lo, hi int) {
	capacity := max((l.strip.Dx()-2*stripEdgeWidth)/(navThumbSize+navThumbGap), 1)
	if count <= 0 || l.strip.Empty() {
		return 0, -1
	}
	lo = min(max(index-capacity/2, 0), max(count-capacity, 0))
	hi = min(lo+capacity, count) - 1
	return lo, hi
}

// stripCell returns the rectangle of item i of the strip range lo..hi
func (l lightboxLayout) stripCell(i, lo, hi int) image.Rectangle {
	n := hi - lo + 1
	total := n*navThumbSize + (n-1)*navThumbGap
	x := l.strip.Min.X + (l.strip.Dx()-total)/2 + (i-lo)*(navThumbSize+navThumbGap)
	y := l.strip.Min.Y + (l.strip.Dy()-navThumbSize)/2
	return image.Rect(x, y, x+navThumbSize, y+navThumbSize)
}

// stripHit maps a point to an item index of the strip, -1 when none
func (l lightboxLayout) stripHit(x, y, index, count int) int {
	pt := image.Pt(x, y)
	if !pt.In(l.strip) {
		return -1
	}
	lo, hi := l.stripWindow(index, count)
	for i := lo; i <= hi; i++ {
		if pt.In(l.stripCell(i, lo, hi)) {
			return i
		}
	}
	return -1
}

// stripEdge reports -1 for the button at the left end of the strip, 1 for
// the button at the right end, 0 elsewhere
func (l lightboxLayout) stripEdge(x, y int) int {
	if !image.Pt(x, y).In(l.strip) {
		return 0
	}
	switch {
	case x < l.strip.Min.X+stripEdgeWidth:
		return -1
	case x >= l.strip.Max.X-stripEdgeWidth:
		return 1
	default:
		return 0
	}
}

// navZone reports -1 for the previous button, 1 for next, 0 elsewhere
func (l lightboxLayout) navZone(x, y int) int {
	if !image.Pt(x, y).In(l.stage) {
		return 0
	}
	switch {
	case x < l.stage.Min.X+navButtonWidth:
		return -1
	case x >= l.stage.Max.X-navButtonWidth:
		return 1
	default:
		return 0
	}
}

// stripEdgeTarget maps a strip edge button to the item it selects. The left
// button wraps around to the last item, the right one to the first.
func stripEdgeTarget(edge, count int) int {
	switch {
	case count == 0 || edge == 0:
		return -1
	case edge < 0:
		return count - 1
	default:
		return 0
	}
}
