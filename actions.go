package main

// Binding scopes
const (
	scopeGallery  = "gallery"
	scopeLightbox = "lightbox"
)

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Scope        string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions.
// Lightbox arrow keys and Escape are handled by the lightbox itself and are not rebindable.
var actionDefinitions = []ActionDefinition{
	{"exit", scopeGallery, []string{"Escape", "KeyQ"}, []string{}, "Quit application"},
	{"help", scopeGallery, []string{"Shift+Slash"}, []string{}, "Show/hide help"},
	{"info", scopeGallery, []string{"KeyI"}, []string{}, "Show/hide info display"},
	{"open", scopeGallery, []string{"Enter", "Space"}, []string{"DoubleLeftClick"}, "Open selected image in the lightbox"},
	{"select_left", scopeGallery, []string{"ArrowLeft", "KeyH"}, []string{}, "Select previous image"},
	{"select_right", scopeGallery, []string{"ArrowRight", "KeyL"}, []string{}, "Select next image"},
	{"select_up", scopeGallery, []string{"ArrowUp", "KeyK"}, []string{"WheelUp"}, "Select image above"},
	{"select_down", scopeGallery, []string{"ArrowDown", "KeyJ"}, []string{"WheelDown"}, "Select image below"},
	{"next_page", scopeGallery, []string{"PageDown", "KeyN"}, []string{"Forward"}, "Next page"},
	{"previous_page", scopeGallery, []string{"PageUp", "KeyP"}, []string{"Back"}, "Previous page"},
	{"jump_first", scopeGallery, []string{"Home"}, []string{}, "Select first image on page"},
	{"jump_last", scopeGallery, []string{"End"}, []string{}, "Select last image on page"},
	{"cycle_sort", scopeGallery, []string{"Shift+KeyS"}, []string{}, "Cycle sort method (Natural/Simple/Entry)"},
	{"fullscreen", scopeGallery, []string{"KeyF"}, []string{}, "Toggle fullscreen"},

	{"lb_fullscreen", scopeLightbox, []string{"KeyF", "Enter"}, []string{"DoubleLeftClick"}, "Toggle fullscreen"},
	{"lb_slideshow", scopeLightbox, []string{"Space"}, []string{"MiddleClick"}, "Play/pause slideshow"},
	{"lb_first", scopeLightbox, []string{"Home"}, []string{}, "First image on page"},
	{"lb_last", scopeLightbox, []string{"End"}, []string{}, "Last image on page"},
	{"lb_zoom_in", scopeLightbox, []string{"Equal", "Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"lb_zoom_out", scopeLightbox, []string{"Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"lb_zoom_reset", scopeLightbox, []string{"Key0"}, []string{"Shift+MiddleClick"}, "Reset zoom"},
	{"lb_counter_increment", scopeLightbox, []string{"BracketRight"}, []string{}, "Increment counter"},
	{"lb_counter_decrement", scopeLightbox, []string{"BracketLeft"}, []string{}, "Decrement counter"},
	{"lb_counter_reset", scopeLightbox, []string{"Shift+BracketLeft"}, []string{}, "Reset counter"},
	{"lb_rating_1", scopeLightbox, []string{"Key1"}, []string{}, "Rate 1 star"},
	{"lb_rating_2", scopeLightbox, []string{"Key2"}, []string{}, "Rate 2 stars"},
	{"lb_rating_3", scopeLightbox, []string{"Key3"}, []string{}, "Rate 3 stars"},
	{"lb_rating_4", scopeLightbox, []string{"Key4"}, []string{}, "Rate 4 stars"},
	{"lb_rating_5", scopeLightbox, []string{"Key5"}, []string{}, "Rate 5 stars"},
	{"lb_rating_clear", scopeLightbox, []string{"Backquote"}, []string{}, "Clear rating"},
	{"lb_options", scopeLightbox, []string{"KeyO"}, []string{}, "Show/hide options"},
	{"lb_display_mode", scopeLightbox, []string{"KeyM"}, []string{}, "Cycle display mode"},
	{"lb_scroll_mode", scopeLightbox, []string{"Shift+KeyM"}, []string{}, "Toggle scroll mode (zoom/pan)"},
	{"lb_scale_up", scopeLightbox, []string{"KeyU"}, []string{}, "Toggle scale up"},
	{"lb_reset_zoom_on_nav", scopeLightbox, []string{"KeyZ"}, []string{}, "Toggle reset zoom on navigation"},
}

// actionScope returns the scope of an action; unknown actions are gallery actions
func actionScope(action string) string {
	for _, def := range actionDefinitions {
		if def.Name == action {
			return def.Scope
		}
	}
	return scopeGallery
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = action.MouseActions
	}
	return mousebindings
}

// actionsInScope returns action names of a scope in definition order
func actionsInScope(scope string) []string {
	var names []string
	for _, def := range actionDefinitions {
		if def.Scope == scope {
			names = append(names, def.Name)
		}
	}
	return names
}
