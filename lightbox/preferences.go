package lightbox

import "time"

// DisplayMode controls how an image is fitted to the screen
type DisplayMode string

const (
	DisplayFitXY    DisplayMode = "fit_xy"
	DisplayFitX     DisplayMode = "fit_x"
	DisplayOriginal DisplayMode = "original"
)

// DisplayModes lists the modes in cycle order
var DisplayModes = []DisplayMode{DisplayFitXY, DisplayFitX, DisplayOriginal}

// Valid reports whether m is a known mode
func (m DisplayMode) Valid() bool {
	for _, known := range DisplayModes {
		if m == known {
			return true
		}
	}
	return false
}

// Next returns the mode after m
func (m DisplayMode) Next() DisplayMode {
	for i, known := range DisplayModes {
		if m == known {
			return DisplayModes[(i+1)%len(DisplayModes)]
		}
	}
	return DisplayFitXY
}

// ScrollMode controls what the scroll wheel does over an image
type ScrollMode string

const (
	ScrollZoom ScrollMode = "zoom"
	ScrollPanY ScrollMode = "pan_y"
)

const (
	// DefaultSlideshowDelay is used when neither preference nor config set one
	DefaultSlideshowDelay = 5 * time.Second
	// MinSlideshowDelaySeconds is the smallest accepted delay
	MinSlideshowDelaySeconds = 1
)

// Preferences are the user's persisted viewer options
type Preferences struct {
	DisplayMode           DisplayMode `toml:"display_mode"`
	ScaleUp               bool        `toml:"scale_up"`
	ResetZoomOnNav        bool        `toml:"reset_zoom_on_nav"`
	ScrollMode            ScrollMode  `toml:"scroll_mode"`
	SlideshowDelaySeconds int         `toml:"slideshow_delay"` // 0 means unset
}

// DefaultPreferences returns the preferences used before anything is saved
func DefaultPreferences() Preferences {
	return Preferences{
		DisplayMode: DisplayFitXY,
		ScrollMode:  ScrollZoom,
	}
}

// Normalize replaces unknown values with defaults
func (p Preferences) Normalize() Preferences {
	if !p.DisplayMode.Valid() {
		p.DisplayMode = DisplayFitXY
	}
	if p.ScrollMode != ScrollZoom && p.ScrollMode != ScrollPanY {
		p.ScrollMode = ScrollZoom
	}
	if p.SlideshowDelaySeconds < 0 {
		p.SlideshowDelaySeconds = 0
	} else if p.SlideshowDelaySeconds > 0 && p.SlideshowDelaySeconds < MinSlideshowDelaySeconds {
		p.SlideshowDelaySeconds = MinSlideshowDelaySeconds
	}
	return p
}

// EffectiveScaleUp ignores ScaleUp in original-size mode
func (p Preferences) EffectiveScaleUp() bool {
	return p.ScaleUp && p.DisplayMode != DisplayOriginal
}

// SlideshowDelay resolves the delay: saved preference, then the configured
// default, then DefaultSlideshowDelay.
func (p Preferences) SlideshowDelay(configured time.Duration) time.Duration {
	if p.SlideshowDelaySeconds > 0 {
		return time.Duration(p.SlideshowDelaySeconds) * time.Second
	}
	if configured > 0 {
		return configured
	}
	return DefaultSlideshowDelay
}

// PreferenceStore persists Preferences
type PreferenceStore interface {
	LoadPreferences() Preferences
	SavePreferences(p Preferences) error
}

// MemoryPreferences is a PreferenceStore that keeps values in memory
type MemoryPreferences struct {
	Prefs Preferences
}

func (m *MemoryPreferences) LoadPreferences() Preferences { return m.Prefs }

func (m *MemoryPreferences) SavePreferences(p Preferences) error {
	m.Prefs = p
	return nil
}
