package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"lightview/lightbox"
)

// Window size constants
const (
	defaultWidth  = 1024
	defaultHeight = 768
	minWidth      = 400
	minHeight     = 300
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain original order (no sort)
)

// validateKeybindings checks key formats and conflicts within each scope
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		scope := actionScope(action)
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			scoped := scope + ":" + keyStr
			if existingAction, exists := keyToAction[scoped]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[scoped] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	parts := strings.Split(keyStr, "+")
	if len(parts) == 0 || keyStr == "" {
		return fmt.Errorf("empty key string")
	}

	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for i := 0; i < len(parts)-1; i++ {
		modifier := strings.ToLower(parts[i])
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}

	return nil
}

// getValidKeyNames returns the set of key names accepted in bindings
func getValidKeyNames() map[string]bool {
	valid := make(map[string]bool)
	for name := range getKeyMapping() {
		valid[name] = true
	}
	return valid
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth      int                  `toml:"window_width"`
	WindowHeight     int                  `toml:"window_height"`
	Fullscreen       bool                 `toml:"fullscreen"`
	SortMethod       int                  `toml:"sort_method"`
	PageSize         int                  `toml:"page_size"` // 0 shows everything on one page
	GridColumns      int                  `toml:"grid_columns"`
	CacheSize        int                  `toml:"cache_size"`
	ThumbnailSize    int                  `toml:"thumbnail_size"`
	PreloadEnabled   bool                 `toml:"preload_enabled"`
	HelpFontSize     float64              `toml:"help_font_size"`
	ShowNavigation   bool                 `toml:"show_navigation"`
	SlideshowEnabled bool                 `toml:"slideshow_enabled"`
	SlideshowDelay   int                  `toml:"slideshow_delay"` // seconds, default for the lightbox
	DatabasePath     string               `toml:"database_path"`
	Keybindings      map[string][]string  `toml:"keybindings"`
	Mousebindings    map[string][]string  `toml:"mousebindings"`
	Mouse            MouseSettings        `toml:"mouse"`
	Lightbox         lightbox.Preferences `toml:"lightbox"`
}

func getConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "lightview")
}

func getConfigPath() string {
	return filepath.Join(getConfigDir(), "config.toml")
}

func defaultConfig() Config {
	return Config{
		WindowWidth:      defaultWidth,
		WindowHeight:     defaultHeight,
		SortMethod:       SortNatural,
		PageSize:         40,
		GridColumns:      8,
		CacheSize:        16,
		ThumbnailSize:    192,
		PreloadEnabled:   true,
		HelpFontSize:     20.0,
		ShowNavigation:   true,
		SlideshowEnabled: true,
		SlideshowDelay:   0, // fall back to the lightbox default
		DatabasePath:     filepath.Join(getConfigDir(), "stats.db"),
		Keybindings:      GetDefaultKeybindings(),
		Mousebindings:    GetDefaultMousebindings(),
		Mouse:            GetDefaultMouseSettings(),
		Lightbox:         lightbox.DefaultPreferences(),
	}
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = 20.0
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	// Page size 0 disables paging; otherwise 1..500
	if config.PageSize < 0 {
		config.PageSize = 40
	} else if config.PageSize > 500 {
		config.PageSize = 500
	}

	if config.GridColumns < 1 {
		config.GridColumns = 8
	} else if config.GridColumns > 16 {
		config.GridColumns = 16
	}

	if config.CacheSize < 1 {
		config.CacheSize = 16
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	if config.ThumbnailSize < 64 {
		config.ThumbnailSize = 64
	} else if config.ThumbnailSize > 512 {
		config.ThumbnailSize = 512
	}

	if config.SlideshowDelay < 0 {
		config.SlideshowDelay = 0
	} else if config.SlideshowDelay > 0 && config.SlideshowDelay < lightbox.MinSlideshowDelaySeconds {
		config.SlideshowDelay = lightbox.MinSlideshowDelaySeconds
	}

	if config.Mouse.WheelSensitivity <= 0 {
		config.Mouse.WheelSensitivity = 1.0
	}
	if config.Mouse.DoubleClickTime <= 0 {
		config.Mouse.DoubleClickTime = 300
	}
	if config.Mouse.PanStep <= 0 {
		config.Mouse.PanStep = 60
	}

	config.Lightbox = config.Lightbox.Normalize()

	config.Keybindings = fillBindings(config.Keybindings, GetDefaultKeybindings())
	if err := validateKeybindings(config.Keybindings); err != nil {
		log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
		config.Keybindings = GetDefaultKeybindings()
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
	}

	config.Mousebindings = fillBindings(config.Mousebindings, GetDefaultMousebindings())
	if err := validateMousebindings(config.Mousebindings); err != nil {
		log.Printf("Warning: Invalid mouse bindings detected, using defaults: %v", err)
		config.Mousebindings = GetDefaultMousebindings()
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Mouse binding errors: %v", err))
	}

	result.Config = config
	return result
}

// fillBindings adds defaults for actions missing from the configured map
func fillBindings(configured, defaults map[string][]string) map[string][]string {
	if configured == nil {
		return defaults
	}
	for action, keys := range defaults {
		if _, exists := configured[action]; !exists {
			configured[action] = keys
		}
	}
	return configured
}

func saveConfigToPath(config Config, configPath string) error {
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		return fmt.Errorf("refusing to save invalid window size %dx%d", config.WindowWidth, config.WindowHeight)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", configPath, err)
	}
	return nil
}

// ConfigPreferences persists lightbox preferences inside the config file
type ConfigPreferences struct {
	config *Config
	path   string
}

// NewConfigPreferences creates a PreferenceStore backed by the config file
func NewConfigPreferences(config *Config, path string) *ConfigPreferences {
	return &ConfigPreferences{config: config, path: path}
}

func (p *ConfigPreferences) LoadPreferences() lightbox.Preferences {
	return p.config.Lightbox
}

func (p *ConfigPreferences) SavePreferences(prefs lightbox.Preferences) error {
	p.config.Lightbox = prefs
	return saveConfigToPath(*p.config, p.path)
}
