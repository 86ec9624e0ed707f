package main

import (
	"image"
	"math"
	"testing"
	"time"

	"lightview/lightbox"
)

func TestDisplayScale(t *testing.T) {
	tests := []struct {
		name     string
		mode     lightbox.DisplayMode
		scaleUp  bool
		iw, ih   int
		zoom     float64
		expected float64
	}{
		{"Fit shrinks wide image", lightbox.DisplayFitXY, false, 2000, 1000, 1, 0.5},
		{"Fit keeps small image", lightbox.DisplayFitXY, false, 100, 100, 1, 1},
		{"Fit scales small image up", lightbox.DisplayFitXY, true, 100, 100, 1, 10},
		{"Fit width", lightbox.DisplayFitX, true, 500, 2000, 1, 2},
		{"Fit width without scale up", lightbox.DisplayFitX, false, 500, 2000, 1, 1},
		{"Original ignores scale up", lightbox.DisplayOriginal, true, 100, 100, 1, 1},
		{"Zoom multiplies", lightbox.DisplayFitXY, false, 2000, 1000, 2, 1},
		{"Zoom on original", lightbox.DisplayOriginal, false, 100, 100, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := lightbox.Preferences{DisplayMode: tt.mode, ScaleUp: tt.scaleUp}
			got := displayScale(prefs, tt.iw, tt.ih, 1000, 1000, tt.zoom)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("displayScale() = %v, want %v", got, tt.expected)
			}
		})
	}

	if got := displayScale(lightbox.DefaultPreferences(), 0, 100, 1000, 1000, 1); got != 1 {
		t.Errorf("Expected 1 for an empty image, got %v", got)
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct {
		zoom     float64
		expected float64
	}{
		{1, 1},
		{0.01, minZoom},
		{100, maxZoom},
	}
	for _, tt := range tests {
		if got := clampZoom(tt.zoom); got != tt.expected {
			t.Errorf("clampZoom(%v) = %v, want %v", tt.zoom, got, tt.expected)
		}
	}
}

func TestVerticalPlacement(t *testing.T) {
	tests := []struct {
		name        string
		imgH        float64
		dir         lightbox.Direction
		pan         float64
		expectedTop float64
		expectedPan float64
	}{
		{"Short image is centered", 100, lightbox.Forward, 40, 100, 0},
		{"Forward starts at the top", 500, lightbox.Forward, 0, 0, 0},
		{"Backward starts at the bottom", 500, lightbox.Backward, 0, -200, 0},
		{"Pan down", 500, lightbox.Forward, -50, -50, -50},
		{"Pan clamped at the bottom", 500, lightbox.Forward, -500, -200, -200},
		{"Pan clamped at the top", 500, lightbox.Forward, 50, 0, 0},
		{"Backward pan up", 500, lightbox.Backward, 50, -150, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, pan := verticalPlacement(tt.imgH, 300, tt.dir, tt.pan)
			if top != tt.expectedTop || pan != tt.expectedPan {
				t.Errorf("verticalPlacement() = (%v, %v), want (%v, %v)", top, pan, tt.expectedTop, tt.expectedPan)
			}
		})
	}
}

func TestCarousel(t *testing.T) {
	t0 := time.Unix(1000, 0)

	t.Run("Forward slide eases out", func(t *testing.T) {
		var c carousel
		c.reset(3)
		c.track(4, lightbox.Forward, false, t0)

		if got := c.offset(t0); got != 1 {
			t.Errorf("Expected offset 1 at start, got %v", got)
		}
		if got := c.offset(t0.Add(slideDuration / 2)); math.Abs(got-0.25) > 1e-9 {
			t.Errorf("Expected offset 0.25 halfway, got %v", got)
		}
		if got := c.offset(t0.Add(slideDuration)); got != 0 {
			t.Errorf("Expected offset 0 when done, got %v", got)
		}
		if got := c.offset(t0); got != 0 {
			t.Errorf("Expected a finished slide to stay at 0, got %v", got)
		}
	})

	t.Run("Backward slides from the left", func(t *testing.T) {
		var c carousel
		c.reset(3)
		c.track(2, lightbox.Backward, false, t0)
		if got := c.offset(t0); got != -1 {
			t.Errorf("Expected offset -1, got %v", got)
		}
	})

	t.Run("Instant does not animate", func(t *testing.T) {
		var c carousel
		c.reset(3)
		c.track(4, lightbox.Forward, true, t0)
		if got := c.offset(t0); got != 0 {
			t.Errorf("Expected offset 0, got %v", got)
		}
	})

	t.Run("Same index keeps running slide", func(t *testing.T) {
		var c carousel
		c.reset(3)
		c.track(4, lightbox.Forward, false, t0)
		c.track(4, lightbox.Forward, false, t0.Add(slideDuration/2))
		if got := c.offset(t0.Add(slideDuration / 2)); math.Abs(got-0.25) > 1e-9 {
			t.Errorf("Expected slide to continue, got %v", got)
		}
	})

	t.Run("Pending page does not animate", func(t *testing.T) {
		var c carousel
		c.reset(3)
		c.track(lightbox.PagePending, lightbox.Forward, false, t0)
		if got := c.offset(t0); got != 0 {
			t.Errorf("Expected offset 0, got %v", got)
		}
	})
}

func TestLightboxLayout(t *testing.T) {
	withStrip := newLightboxLayout(780, 600, true)
	if withStrip.strip != image.Rect(0, 480, 780, 556) {
		t.Errorf("Unexpected strip %v", withStrip.strip)
	}
	if withStrip.stage != image.Rect(0, lightboxHeaderHeight, 780, 480) {
		t.Errorf("Unexpected stage %v", withStrip.stage)
	}

	noStrip := newLightboxLayout(700, 600, false)
	if !noStrip.strip.Empty() {
		t.Errorf("Expected no strip, got %v", noStrip.strip)
	}
	if noStrip.stage.Max.Y != 600-lightboxFooterHeight {
		t.Errorf("Expected stage to reach the footer, got %v", noStrip.stage)
	}
	if lo, hi := noStrip.stripWindow(0, 10); lo != 0 || hi != -1 {
		t.Errorf("Expected empty strip window, got %d..%d", lo, hi)
	}
}

func TestStripWindow(t *testing.T) {
	layout := newLightboxLayout(780, 600, true) // room for 10 thumbnails between the edge buttons

	tests := []struct {
		name         string
		index, count int
		lo, hi       int
	}{
		{"Fewer items than slots", 2, 5, 0, 4},
		{"Centered", 15, 30, 10, 19},
		{"Clamped at the start", 1, 30, 0, 9},
		{"Clamped at the end", 28, 30, 20, 29},
		{"Empty", 0, 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := layout.stripWindow(tt.index, tt.count)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("stripWindow(%d, %d) = %d..%d, want %d..%d", tt.index, tt.count, lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestStripHit(t *testing.T) {
	layout := newLightboxLayout(780, 600, true)
	// 10 cells of 64px with 6px gaps, centered: the first starts at x=43
	cell := layout.stripCell(11, 10, 19)
	if cell != image.Rect(113, 486, 177, 550) {
		t.Fatalf("Unexpected cell %v", cell)
	}

	if got := layout.stripHit(120, 490, 15, 30); got != 11 {
		t.Errorf("Expected hit on item 11, got %d", got)
	}
	if got := layout.stripHit(110, 490, 15, 30); got != -1 {
		t.Errorf("Expected a gap to miss, got %d", got)
	}
	if got := layout.stripHit(120, 100, 15, 30); got != -1 {
		t.Errorf("Expected the stage to miss, got %d", got)
	}
}

func TestStripEdge(t *testing.T) {
	layout := newLightboxLayout(780, 600, true)
	tests := []struct {
		name     string
		x, y     int
		expected int
	}{
		{"Left button", 10, 500, -1},
		{"Right button", 775, 500, 1},
		{"Thumbnails", 400, 500, 0},
		{"Stage", 10, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layout.stripEdge(tt.x, tt.y); got != tt.expected {
				t.Errorf("stripEdge(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestStripEdgeTarget(t *testing.T) {
	tests := []struct {
		name        string
		edge, count int
		expected    int
	}{
		{"Left wraps to the last item", -1, 12, 11},
		{"Right wraps to the first item", 1, 12, 0},
		{"Not on a button", 0, 12, -1},
		{"Empty page", -1, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripEdgeTarget(tt.edge, tt.count); got != tt.expected {
				t.Errorf("stripEdgeTarget(%d, %d) = %d, want %d", tt.edge, tt.count, got, tt.expected)
			}
		})
	}
}

func TestNavZone(t *testing.T) {
	layout := newLightboxLayout(780, 600, true)
	tests := []struct {
		name     string
		x, y     int
		expected int
	}{
		{"Left edge", 10, 100, -1},
		{"Right edge", 770, 100, 1},
		{"Center", 390, 100, 0},
		{"Header", 10, 10, 0},
		{"Strip", 10, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layout.navZone(tt.x, tt.y); got != tt.expected {
				t.Errorf("navZone(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestIsKeyRepeating(t *testing.T) {
	tests := []struct {
		ticks    int
		expected bool
	}{
		{1, false},
		{keyRepeatDelay, false},
		{keyRepeatDelay + 1, false},
		{keyRepeatDelay + keyRepeatInterval, true},
		{keyRepeatDelay + 2*keyRepeatInterval, true},
	}
	for _, tt := range tests {
		if got := isKeyRepeating(tt.ticks); got != tt.expected {
			t.Errorf("isKeyRepeating(%d) = %v, want %v", tt.ticks, got, tt.expected)
		}
	}
}
