package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lightview/lightbox"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name             string
		configTOML       string
		expectedWidth    int
		expectedHeight   int
		expectedPageSize int
		expectedColumns  int
	}{
		{
			name:             "Valid config",
			configTOML:       "window_width = 1000\nwindow_height = 800\npage_size = 20\ngrid_columns = 5\n",
			expectedWidth:    1000,
			expectedHeight:   800,
			expectedPageSize: 20,
			expectedColumns:  5,
		},
		{
			name:             "Width too small",
			configTOML:       "window_width = 200\nwindow_height = 600\n",
			expectedWidth:    defaultWidth,
			expectedHeight:   600,
			expectedPageSize: 40,
			expectedColumns:  8,
		},
		{
			name:             "Paging disabled",
			configTOML:       "page_size = 0\n",
			expectedWidth:    defaultWidth,
			expectedHeight:   defaultHeight,
			expectedPageSize: 0,
			expectedColumns:  8,
		},
		{
			name:             "Out of range values are clamped",
			configTOML:       "page_size = 9000\ngrid_columns = 99\n",
			expectedWidth:    defaultWidth,
			expectedHeight:   defaultHeight,
			expectedPageSize: 500,
			expectedColumns:  16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configTOML))
			config := result.Config

			if result.Status != "OK" {
				t.Errorf("Expected status OK, got %s", result.Status)
			}
			if config.WindowWidth != tt.expectedWidth {
				t.Errorf("Expected width %d, got %d", tt.expectedWidth, config.WindowWidth)
			}
			if config.WindowHeight != tt.expectedHeight {
				t.Errorf("Expected height %d, got %d", tt.expectedHeight, config.WindowHeight)
			}
			if config.PageSize != tt.expectedPageSize {
				t.Errorf("Expected page size %d, got %d", tt.expectedPageSize, config.PageSize)
			}
			if config.GridColumns != tt.expectedColumns {
				t.Errorf("Expected %d columns, got %d", tt.expectedColumns, config.GridColumns)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	result := loadConfigFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if result.Status != "Default" {
		t.Errorf("Expected status Default, got %s", result.Status)
	}
	if result.Config.Lightbox.DisplayMode != lightbox.DisplayFitXY {
		t.Errorf("Expected default display mode, got %s", result.Config.Lightbox.DisplayMode)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, "window_width = = 3\n"))
	if !result.HasError || result.Status != "Error" {
		t.Errorf("Expected an error result, got status %s", result.Status)
	}
	if result.Config.WindowWidth != defaultWidth {
		t.Errorf("Expected default width, got %d", result.Config.WindowWidth)
	}
}

func TestLoadConfigLightboxPreferences(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `
[lightbox]
display_mode = "fit_x"
scale_up = true
scroll_mode = "sideways"
slideshow_delay = 7
`))
	prefs := result.Config.Lightbox

	if prefs.DisplayMode != lightbox.DisplayFitX {
		t.Errorf("Expected fit_x, got %s", prefs.DisplayMode)
	}
	if !prefs.ScaleUp {
		t.Error("Expected scale_up to be true")
	}
	if prefs.ScrollMode != lightbox.ScrollZoom {
		t.Errorf("Expected unknown scroll mode to fall back to zoom, got %s", prefs.ScrollMode)
	}
	if prefs.SlideshowDelaySeconds != 7 {
		t.Errorf("Expected delay 7, got %d", prefs.SlideshowDelaySeconds)
	}
}

func TestLoadConfigInvalidKeybindings(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `
[keybindings]
exit = ["KeyNope"]
`))
	if result.Status != "Warning" {
		t.Errorf("Expected status Warning, got %s", result.Status)
	}
	if got := result.Config.Keybindings["exit"]; len(got) == 0 || got[0] != "Escape" {
		t.Errorf("Expected default exit keys, got %v", got)
	}
}

func TestLoadConfigFillsMissingBindings(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `
[keybindings]
exit = ["KeyX"]
`))
	if got := result.Config.Keybindings["exit"]; len(got) != 1 || got[0] != "KeyX" {
		t.Errorf("Expected configured exit key, got %v", got)
	}
	if got := result.Config.Keybindings["lb_slideshow"]; len(got) == 0 {
		t.Error("Expected default binding for lb_slideshow")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	config := defaultConfig()
	config.PageSize = 12
	config.Lightbox.ResetZoomOnNav = true

	if err := saveConfigToPath(config, configPath); err != nil {
		t.Fatalf("saveConfigToPath failed: %v", err)
	}
	result := loadConfigFromPath(configPath)
	if result.Config.PageSize != 12 {
		t.Errorf("Expected page size 12, got %d", result.Config.PageSize)
	}
	if !result.Config.Lightbox.ResetZoomOnNav {
		t.Error("Expected reset_zoom_on_nav to survive the round trip")
	}
}

func TestSaveConfigRejectsInvalidSize(t *testing.T) {
	config := defaultConfig()
	config.WindowWidth = 10
	err := saveConfigToPath(config, filepath.Join(t.TempDir(), "config.toml"))
	if err == nil || !strings.Contains(err.Error(), "invalid window size") {
		t.Errorf("Expected invalid window size error, got %v", err)
	}
}

func TestConfigPreferences(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	config := defaultConfig()
	store := NewConfigPreferences(&config, configPath)

	prefs := store.LoadPreferences()
	prefs.DisplayMode = lightbox.DisplayOriginal
	if err := store.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	if config.Lightbox.DisplayMode != lightbox.DisplayOriginal {
		t.Errorf("Expected in-memory config to be updated, got %s", config.Lightbox.DisplayMode)
	}
	reloaded := loadConfigFromPath(configPath)
	if reloaded.Config.Lightbox.DisplayMode != lightbox.DisplayOriginal {
		t.Errorf("Expected saved display mode, got %s", reloaded.Config.Lightbox.DisplayMode)
	}
}

func TestValidateKeybindingsScopes(t *testing.T) {
	tests := []struct {
		name        string
		bindings    map[string][]string
		expectError bool
	}{
		{"Defaults", GetDefaultKeybindings(), false},
		{"Same key across scopes", map[string][]string{"fullscreen": {"KeyF"}, "lb_fullscreen": {"KeyF"}}, false},
		{"Conflict within scope", map[string][]string{"exit": {"KeyQ"}, "help": {"KeyQ"}}, true},
		{"Unknown modifier", map[string][]string{"exit": {"Super+KeyQ"}}, true},
		{"Unknown key", map[string][]string{"exit": {"KeyÄ"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeybindings(tt.bindings)
			if (err != nil) != tt.expectError {
				t.Errorf("validateKeybindings() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestValidateMousebindingsScopes(t *testing.T) {
	tests := []struct {
		name        string
		bindings    map[string][]string
		expectError bool
	}{
		{"Defaults", GetDefaultMousebindings(), false},
		{"Double click in both scopes", map[string][]string{"open": {"DoubleLeftClick"}, "lb_fullscreen": {"DoubleLeftClick"}}, false},
		{"Conflict within scope", map[string][]string{"next_page": {"WheelDown"}, "select_down": {"WheelDown"}}, true},
		{"Unknown button", map[string][]string{"open": {"TripleClick"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMousebindings(tt.bindings)
			if (err != nil) != tt.expectError {
				t.Errorf("validateMousebindings() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}
