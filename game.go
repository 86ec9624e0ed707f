package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"lightview/lightbox"
)

// Game is the ebiten host: a paged thumbnail gallery with a lightbox on top
type Game struct {
	config       *Config
	configPath   string
	configStatus ConfigLoadResult
	title        string

	allPaths []ImagePath
	source   *PageSource
	gallery  *Gallery
	images   *ImageManager
	viewer   *lightbox.Viewer
	store    *Store

	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	inputHandler        *InputHandler
	renderer            *Renderer

	fullscreen bool
	screenW    int
	screenH    int
	savedWinW  int
	savedWinH  int
	exiting    bool

	showHelp           bool
	showInfo           bool
	overlayMessage     string
	overlayMessageTime time.Time
	toastMessage       string
	toastTime          time.Time

	carousel     carousel
	panY         float64
	lastReset    bool
	preloadIndex int
}

// GameOptions carries what main resolved from flags and config
type GameOptions struct {
	Config       *Config
	ConfigPath   string
	ConfigStatus ConfigLoadResult
	Title        string
	Paths        []ImagePath
	Store        *Store
	Slideshow    bool
}

// NewGame wires the gallery, page source and lightbox together
func NewGame(opts GameOptions) *Game {
	cfg := opts.Config
	g := &Game{
		config:       cfg,
		configPath:   opts.ConfigPath,
		configStatus: opts.ConfigStatus,
		title:        opts.Title,
		allPaths:     opts.Paths,
		store:        opts.Store,
		gallery:      NewGallery(cfg.GridColumns),
		images:       NewImageManager(cfg.CacheSize, cfg.ThumbnailSize, cfg.PageSize, 4, cfg.PreloadEnabled),
		fullscreen:   cfg.Fullscreen,
		preloadIndex: lightbox.PagePending,
	}

	var stats StatsLookup
	var actions lightbox.ItemActions
	if opts.Store != nil {
		stats = opts.Store
		actions = opts.Store
	}
	g.source = NewPageSource(opts.Paths, cfg.PageSize, stats)

	g.keybindingManager = NewKeybindingManager(cfg.Keybindings)
	g.mousebindingManager = NewMousebindingManager(cfg.Mousebindings, cfg.Mouse, g.keybindingManager.Paused)

	g.viewer = lightbox.New(lightbox.Config{
		ShowNavigation:   cfg.ShowNavigation,
		SlideshowEnabled: opts.Slideshow,
		ConfiguredDelay:  time.Duration(cfg.SlideshowDelay) * time.Second,
		PageHeader:       opts.Title,
		Boundary:         g.source.Boundary(),
		Hide:             g.onLightboxHidden,
		InputLock:        g.keybindingManager,
		Fullscreen:       g,
		Preferences:      NewConfigPreferences(cfg, opts.ConfigPath),
		Actions:          actions,
		Toaster:          g,
	})

	g.inputHandler = NewInputHandler(g, g.keybindingManager, g.mousebindingManager, g.screenSize)
	g.renderer = NewRenderer(g)

	g.source.Load(0)
	return g
}

// Update advances one frame
func (g *Game) Update() error {
	if g.exiting {
		g.images.StopPreload()
		return ebiten.Termination
	}

	g.pollPage()
	g.trackWindow()
	g.inputHandler.HandleInput()
	g.viewer.Update()
	g.trackViewer()

	return nil
}

func (g *Game) pollPage() {
	result, ok := g.source.Poll()
	if !ok {
		return
	}
	if result.err != nil {
		g.Error(result.err)
	}
	g.images.SetPaths(result.paths)
	g.gallery.SetPage(result.items)
	if g.viewer.IsOpen() {
		g.viewer.SetItems(result.items)
		g.viewer.SetLoading(false)
	}
	debugLog("Page %d ready (%d items)", result.page+1, len(result.items))
}

func (g *Game) trackWindow() {
	if fs := ebiten.IsFullscreen(); fs != g.fullscreen {
		g.fullscreen = fs
		g.viewer.HandleFullscreenChange(fs)
	}
	g.viewer.SetVisible(!ebiten.IsWindowMinimized())
}

func (g *Game) trackViewer() {
	if !g.viewer.IsOpen() {
		return
	}
	if g.source.Loading() {
		g.viewer.SetLoading(true)
	}

	// keep the grid in step with counter and rating changes
	if item, ok := g.viewer.Current(); ok {
		g.gallery.UpdateItem(item)
	}

	state := g.viewer.State()
	g.carousel.track(state.Index, state.Direction, state.Instant, time.Now())

	if state.ResetPosition != g.lastReset {
		g.lastReset = state.ResetPosition
		g.panY = 0
	}

	if state.Index >= 0 && state.Index != g.preloadIndex {
		g.preloadIndex = state.Index
		direction := NavigationForward
		if state.Direction == lightbox.Backward {
			direction = NavigationBackward
		}
		g.images.StartPreload(state.Index, direction, g.source.Boundary() == nil)
	}
}

// onLightboxHidden returns to the gallery at the item the lightbox showed
func (g *Game) onLightboxHidden() {
	if g.carousel.index >= 0 {
		g.gallery.Select(g.carousel.index)
	}
	g.preloadIndex = lightbox.PagePending
	// counters may have changed; reread the page from the store
	g.source.Load(g.source.Page())
}

// Draw renders the screen
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// Layout uses the window size as the logical screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) screenSize() (int, int) {
	return g.screenW, g.screenH
}

// Error shows an error toast
func (g *Game) Error(err error) {
	log.Printf("Error: %v", err)
	g.toastMessage = err.Error()
	g.toastTime = time.Now()
}

// ExitFullscreen leaves fullscreen on behalf of the lightbox
func (g *Game) ExitFullscreen() {
	if !ebiten.IsFullscreen() {
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) saveCurrentWindowSize() {
	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		g.config.WindowWidth, g.config.WindowHeight = ebiten.WindowSize()
	}
	if err := saveConfigToPath(*g.config, g.configPath); err != nil {
		log.Printf("Warning: Failed to save config: %v", err)
	}
}

// InputActions

func (g *Game) Exit() {
	g.saveCurrentWindowSize()
	g.exiting = true
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleInfo() {
	g.showInfo = !g.showInfo
}

func (g *Game) ToggleFullscreen() {
	if ebiten.IsFullscreen() {
		g.ExitFullscreen()
		return
	}
	g.savedWinW, g.savedWinH = ebiten.WindowSize()
	ebiten.SetFullscreen(true)
}

func (g *Game) OpenSelected() {
	if g.source.Loading() || g.gallery.Len() == 0 {
		return
	}
	selected := g.gallery.Selected()
	g.carousel.reset(selected)
	g.panY = 0
	g.viewer.Open(g.gallery.Items(), selected)
	if g.fullscreen {
		g.viewer.HandleFullscreenChange(true)
	}
	g.lastReset = g.viewer.State().ResetPosition
	g.preloadIndex = selected
	g.images.StartPreload(selected, NavigationJump, g.source.Boundary() == nil)
}

func (g *Game) MoveSelection(dx, dy int) {
	g.gallery.Move(dx, dy)
}

func (g *Game) SelectIndex(index int) {
	g.gallery.Select(index)
}

func (g *Game) ChangePage(direction int) {
	if g.source.PageCount() <= 1 {
		return
	}
	g.source.RequestPage(direction)
	g.gallery.Select(0)
}

func (g *Game) CycleSortMethod() {
	g.config.SortMethod = nextSortMethod(g.config.SortMethod)
	strategy := GetSortStrategy(g.config.SortMethod)
	g.allPaths = strategy.Sort(g.allPaths)
	g.source.SetPaths(g.allPaths)
	g.gallery.Select(0)

	if err := saveConfigToPath(*g.config, g.configPath); err != nil {
		log.Printf("Warning: Failed to save config: %v", err)
	}
	g.ShowOverlayMessage("Sort: " + strategy.Name())
}

func (g *Game) GetPageItemCount() int {
	return g.gallery.Len()
}

func (g *Game) PanBy(deltaY float64) {
	g.panY += deltaY
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

// RenderState

func (g *Game) IsFullscreen() bool                    { return g.fullscreen }
func (g *Game) Gallery() *Gallery                     { return g.gallery }
func (g *Game) Lightbox() *lightbox.Viewer            { return g.viewer }
func (g *Game) Images() *ImageManager                 { return g.images }
func (g *Game) CarouselOffset() float64               { return g.carousel.offset(time.Now()) }
func (g *Game) PanOffsetY() float64                   { return g.panY }
func (g *Game) SetPanOffsetY(pan float64)             { g.panY = pan }
func (g *Game) IsShowingHelp() bool                   { return g.showHelp }
func (g *Game) IsShowingInfo() bool                   { return g.showInfo }
func (g *Game) GetOverlayMessage() string             { return g.overlayMessage }
func (g *Game) GetOverlayMessageTime() time.Time      { return g.overlayMessageTime }
func (g *Game) GetToast() (string, time.Time)         { return g.toastMessage, g.toastTime }
func (g *Game) GetTotalCount() int                    { return g.source.TotalCount() }
func (g *Game) IsPageLoading() bool                   { return g.source.Loading() }
func (g *Game) GetFontSize() float64                  { return g.config.HelpFontSize }
func (g *Game) GetConfigStatus() ConfigLoadResult     { return g.configStatus }
func (g *Game) GetKeybindings() map[string][]string   { return g.keybindingManager.GetKeybindings() }
func (g *Game) GetMousebindings() map[string][]string { return g.mousebindingManager.GetMousebindings() }

func (g *Game) GetSortName() string {
	return GetSortStrategy(g.config.SortMethod).Name()
}

func (g *Game) GetPageHeader() string {
	if header := g.source.Header(); header != "" {
		return fmt.Sprintf("%s  %s", g.title, header)
	}
	return g.title
}
