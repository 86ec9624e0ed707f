package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `toml:"wheel_sensitivity"`
	DoubleClickTime  int     `toml:"double_click_time"` // milliseconds
	EnableMouse      bool    `toml:"enable_mouse"`
	WheelInverted    bool    `toml:"wheel_inverted"`
	PanStep          float64 `toml:"pan_step"` // pixels per wheel notch in pan_y scroll mode
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	Shift         bool
	Ctrl          bool
	Alt           bool
}

// MousebindingManager handles dynamic mouse binding processing
type MousebindingManager struct {
	mousebindings      map[string][]string
	parsed             map[string][]*MouseCombination
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
	paused             func() bool
}

// NewMousebindingManager creates a new MousebindingManager. paused reports
// whether gallery bindings are currently suspended; it may be nil.
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings, paused func() bool) *MousebindingManager {
	mm := &MousebindingManager{
		settings: settings,
		paused:   paused,
		doubleClickTracker: DoubleClickTracker{
			lastClickTime: time.Now(),
		},
	}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// getMouseMapping returns a mapping from string mouse actions to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"LeftClick":   ebiten.MouseButtonLeft,
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3, // Back button (side button)
		"Forward":     ebiten.MouseButton4, // Forward button (side button)
	}
}

// parseMouseString parses a mouse string like "Shift+LeftClick" or "WheelUp" into a MouseCombination
func parseMouseString(mouseStr string) (*MouseCombination, error) {
	if mouseStr == "" {
		return nil, fmt.Errorf("empty mouse binding")
	}
	parts := strings.Split(mouseStr, "+")
	mapping := getMouseMapping()

	combination := &MouseCombination{}

	// Last part should be the actual mouse action
	actionName := parts[len(parts)-1]

	switch {
	case strings.HasPrefix(actionName, "Wheel"):
		combination.IsWheel = true
		switch actionName {
		case "WheelUp":
			combination.WheelDeltaY = 1.0
		case "WheelDown":
			combination.WheelDeltaY = -1.0
		case "WheelLeft":
			combination.WheelDeltaX = -1.0
		case "WheelRight":
			combination.WheelDeltaX = 1.0
		default:
			return nil, fmt.Errorf("unknown wheel action: %s", actionName)
		}
	case strings.HasPrefix(actionName, "Double"):
		combination.IsDoubleClick = true
		button, exists := mapping[strings.TrimPrefix(actionName, "Double")]
		if !exists {
			return nil, fmt.Errorf("unknown mouse button: %s", actionName)
		}
		combination.Button = button
	default:
		button, exists := mapping[actionName]
		if !exists {
			return nil, fmt.Errorf("unknown mouse button: %s", actionName)
		}
		combination.Button = button
	}

	for i := 0; i < len(parts)-1; i++ {
		switch strings.ToLower(parts[i]) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return nil, fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}

	return combination, nil
}

// validateMousebindings checks mouse binding formats and conflicts within each scope
func validateMousebindings(mousebindings map[string][]string) error {
	bindingToAction := make(map[string]string)

	for action, bindings := range mousebindings {
		scope := actionScope(action)
		for _, mouseStr := range bindings {
			if _, err := parseMouseString(mouseStr); err != nil {
				return fmt.Errorf("invalid mouse binding '%s' for action '%s': %w", mouseStr, action, err)
			}

			scoped := scope + ":" + mouseStr
			if existingAction, exists := bindingToAction[scoped]; exists {
				return fmt.Errorf("mouse binding conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existingAction, action)
			}
			bindingToAction[scoped] = action
		}
	}

	return nil
}

// WheelDelta returns the vertical wheel movement with sensitivity and inversion applied
func (mm *MousebindingManager) WheelDelta() float64 {
	_, wheelY := ebiten.Wheel()
	if mm.settings.WheelInverted {
		wheelY = -wheelY
	}
	return wheelY * mm.settings.WheelSensitivity
}

// isMouseActionTriggered checks if a mouse combination is currently being triggered
func (mm *MousebindingManager) isMouseActionTriggered(combination *MouseCombination) bool {
	if !mm.settings.EnableMouse {
		return false
	}

	if !modifiersMatch(combination.Shift, combination.Ctrl, combination.Alt) {
		return false
	}

	if combination.IsWheel {
		wheelX, _ := ebiten.Wheel()
		wheelX *= mm.settings.WheelSensitivity
		wheelY := mm.WheelDelta()

		if combination.WheelDeltaX != 0 {
			return (combination.WheelDeltaX > 0 && wheelX > 0) || (combination.WheelDeltaX < 0 && wheelX < 0)
		}
		return (combination.WheelDeltaY > 0 && wheelY > 0) || (combination.WheelDeltaY < 0 && wheelY < 0)
	}

	if combination.IsDoubleClick {
		return mm.checkDoubleClick(combination.Button)
	}

	return inpututil.IsMouseButtonJustPressed(combination.Button)
}

// checkDoubleClick checks if a double-click occurred for the given button
func (mm *MousebindingManager) checkDoubleClick(button ebiten.MouseButton) bool {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return false
	}

	now := time.Now()
	timeSinceLastClick := now.Sub(mm.doubleClickTracker.lastClickTime)

	if mm.doubleClickTracker.lastClickButton == button &&
		timeSinceLastClick <= time.Duration(mm.settings.DoubleClickTime)*time.Millisecond {
		mm.doubleClickTracker.clickCount++
		if mm.doubleClickTracker.clickCount == 2 {
			mm.doubleClickTracker.clickCount = 0
			mm.doubleClickTracker.lastClickTime = now
			return true
		}
	} else {
		mm.doubleClickTracker.clickCount = 1
		mm.doubleClickTracker.lastClickButton = button
	}

	mm.doubleClickTracker.lastClickTime = now
	return false
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	if mm.paused != nil && mm.paused() && actionScope(action) == scopeGallery {
		return false
	}

	for _, combination := range mm.parsed[action] {
		if mm.isMouseActionTriggered(combination) {
			return true
		}
	}

	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions)
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// UpdateMousebindings replaces the mouse bindings map
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	mm.mousebindings = mousebindings
	mm.parsed = make(map[string][]*MouseCombination, len(mousebindings))
	for action, mouseStrings := range mousebindings {
		for _, mouseStr := range mouseStrings {
			if combination, err := parseMouseString(mouseStr); err == nil {
				mm.parsed[action] = append(mm.parsed[action], combination)
			}
		}
	}
}

// GetSettings returns the current mouse settings
func (mm *MousebindingManager) GetSettings() MouseSettings {
	return mm.settings
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300, // milliseconds
		EnableMouse:      true,
		WheelInverted:    false,
		PanStep:          60,
	}
}
