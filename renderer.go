package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorDarkGray  = color.RGBA{60, 60, 60, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}
	colorSelection = color.RGBA{90, 160, 255, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
	bgColorToast  = color.RGBA{140, 30, 30, 220}
	bgColorScreen = color.RGBA{16, 16, 16, 255}
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState    RenderState
	helpFontSource *text.GoTextFaceSource
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) *Renderer {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatal(err)
	}

	return &Renderer{
		renderState:    renderState,
		helpFontSource: s,
	}
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.helpFontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(bgColorScreen)

	viewer := r.renderState.Lightbox()
	if viewer != nil && viewer.IsOpen() {
		r.drawLightbox(screen, viewer)
	} else {
		r.drawGallery(screen)
		if r.renderState.IsShowingHelp() {
			r.drawHelpOverlay(screen)
		}
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoDisplay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}

	if message, at := r.renderState.GetToast(); message != "" && time.Since(at) < toastDuration {
		r.drawToast(screen, message)
	}
}

// drawImageFit draws img scaled to fit inside rect, centered
func drawImageFit(dst *ebiten.Image, img *ebiten.Image, rect image.Rectangle) {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	if iw == 0 || ih == 0 || rect.Empty() {
		return
	}
	scale := min(float64(rect.Dx())/float64(iw), float64(rect.Dy())/float64(ih))
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		float64(rect.Min.X)+(float64(rect.Dx())-float64(iw)*scale)/2,
		float64(rect.Min.Y)+(float64(rect.Dy())-float64(ih)*scale)/2,
	)
	dst.DrawImage(img, op)
}

// drawFrame outlines rect with the given thickness
func drawFrame(dst *ebiten.Image, rect image.Rectangle, thickness float64, c color.RGBA) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	DrawFilledRect(dst, x, y, w, thickness, c)
	DrawFilledRect(dst, x, y+h-thickness, w, thickness, c)
	DrawFilledRect(dst, x, y, thickness, h, c)
	DrawFilledRect(dst, x+w-thickness, y, thickness, h, c)
}

// ratingStars renders a 0-100 rating as five ASCII stars
func ratingStars(rating *int) (filled, empty string) {
	if rating == nil {
		return "", "-----"
	}
	n := min(max((*rating+10)/20, 0), 5)
	return strings.Repeat("*", n), strings.Repeat("-", 5-n)
}

func (r *Renderer) drawGallery(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	gallery := r.renderState.Gallery()
	images := r.renderState.Images()
	font := r.face(16)

	DrawFilledRect(screen, 0, 0, float64(w), galleryHeaderHeight, bgColorDark)
	header := r.renderState.GetPageHeader()
	if r.renderState.IsPageLoading() {
		header += "  loading..."
	}
	DrawText(screen, header, font, 10, 8, colorWhite)

	if gallery.Len() == 0 {
		if !r.renderState.IsPageLoading() {
			DrawText(screen, "No images", r.face(20), float64(w)/2-45, float64(h)/2, colorGray)
		}
		return
	}

	layout := newGridLayout(w, h, gallery.Columns())
	firstRow := gallery.ScrollTo(layout.visibleRows)
	first := firstRow * layout.columns
	last := min(first+layout.visibleRows*layout.columns, gallery.Len()) - 1

	items := gallery.Items()
	for i := first; i <= last; i++ {
		cell := layout.cellRect(i, firstRow)
		inner := cell.Inset(galleryCellPadding)

		if thumb := images.Thumbnail(items[i].Thumbnail); thumb != nil {
			drawImageFit(screen, thumb, inner)
		} else {
			DrawFilledRect(screen, float64(inner.Min.X), float64(inner.Min.Y), float64(inner.Dx()), float64(inner.Dy()), colorDarkGray)
		}

		if i == gallery.Selected() {
			drawFrame(screen, cell.Inset(2), 3, colorSelection)
		}

		if items[i].Counter > 0 {
			badge := fmt.Sprintf("%d", items[i].Counter)
			DrawFilledRect(screen, float64(inner.Min.X), float64(inner.Min.Y), 10+float64(len(badge))*9, 22, bgColorDark)
			DrawText(screen, badge, r.face(14), float64(inner.Min.X)+5, float64(inner.Min.Y)+3, colorYellow)
		}
		if items[i].Rating != nil {
			filled, _ := ratingStars(items[i].Rating)
			DrawText(screen, filled, r.face(14), float64(inner.Min.X)+4, float64(inner.Max.Y)-18, colorYellow)
		}
	}
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	infoFont := r.face(r.renderState.GetFontSize())
	infoText := r.buildInfoString()

	textWidth, textHeight := text.Measure(infoText, infoFont, 0)

	padding := 10.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding - lightboxFooterHeight

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)
	DrawText(screen, infoText, infoFont, textX, textY, colorWhite)
}

// buildInfoString describes the current item or, in the gallery, the collection
func (r *Renderer) buildInfoString() string {
	stats := r.renderState.Images().GetPreloadStats()
	cache := fmt.Sprintf("cache %d/%d", stats.CachedImages, stats.CachedThumbnail)

	viewer := r.renderState.Lightbox()
	if viewer != nil && viewer.IsOpen() {
		item, ok := viewer.Current()
		if !ok {
			return cache
		}
		size := "unknown size"
		if item.Size > 0 {
			size = humanize.Bytes(uint64(item.Size))
		}
		return fmt.Sprintf("%s  |  %s  |  %s", viewer.Phase(), size, cache)
	}

	info := fmt.Sprintf("%s images  |  sort: %s  |  %s",
		humanize.Comma(int64(r.renderState.GetTotalCount())), r.renderState.GetSortName(), cache)
	if item, ok := r.renderState.Gallery().SelectedItem(); ok {
		info = item.Title + "  |  " + info
	}
	return info
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	message := r.renderState.GetOverlayMessage()
	messageFont := r.face(r.renderState.GetFontSize())

	textWidth, textHeight := text.Measure(message, messageFont, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, messageFont, boxX+padding, boxY+padding, colorWhite)
}

func (r *Renderer) drawToast(screen *ebiten.Image, message string) {
	toastFont := r.face(16)
	if len(message) > 90 {
		message = message[:87] + "..."
	}
	textWidth, textHeight := text.Measure(message, toastFont, 0)

	padding := 12.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := float64(lightboxHeaderHeight) + 12

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorToast)
	DrawText(screen, message, toastFont, boxX+padding, boxY+padding, colorWhite)
}

// helpRow is one line of the help overlay
type helpRow struct {
	section string // non-empty for section titles
	action  string
	keys    string
	mouse   string
	desc    string
}

// helpRows lists bound actions grouped by scope in definition order
func (r *Renderer) helpRows() []helpRow {
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	descriptions := GetActionDescriptions()

	var rows []helpRow
	for _, scope := range []string{scopeGallery, scopeLightbox} {
		rows = append(rows, helpRow{section: strings.ToUpper(scope[:1]) + scope[1:] + ":"})
		for _, action := range actionsInScope(scope) {
			keys, mouse := keybindings[action], mousebindings[action]
			if len(keys) == 0 && len(mouse) == 0 {
				continue
			}
			rows = append(rows, helpRow{
				action: action,
				keys:   strings.Join(keys, ", "),
				mouse:  strings.Join(mouse, ", "),
				desc:   descriptions[action],
			})
		}
	}
	// fixed lightbox keys, not rebindable
	rows = append(rows,
		helpRow{action: "navigate", keys: "ArrowLeft, ArrowRight", desc: "Previous/next image (hold for instant)"},
		helpRow{action: "close", keys: "Escape", desc: "Leave fullscreen, then close the lightbox"},
	)
	return rows
}

// helpColumns measures the action and input columns
func helpColumns(rows []helpRow, font *text.GoTextFace) (actionW, inputW, descW float64) {
	for _, row := range rows {
		if row.section != "" {
			continue
		}
		aw, _ := text.Measure(row.action, font, 0)
		iw, _ := text.Measure(joinInputs(row.keys, row.mouse), font, 0)
		dw, _ := text.Measure(row.desc, font, 0)
		actionW, inputW, descW = max(actionW, aw), max(inputW, iw), max(descW, dw)
	}
	return actionW, inputW, descW
}

func joinInputs(keys, mouse string) string {
	switch {
	case keys != "" && mouse != "":
		return keys + " | " + mouse
	case keys != "":
		return keys
	default:
		return mouse
	}
}

const helpPadding = 40.0

// calculateRequiredDimensions returns the help box size at a font size
func (r *Renderer) calculateRequiredDimensions(fontSize float64) (float64, float64) {
	rows := r.helpRows()
	font := r.face(fontSize)
	lineHeight := fontSize * 1.5
	status := r.renderState.GetConfigStatus()

	warnings := min(len(status.Warnings), 2)
	height := helpPadding*2 + fontSize*2 + float64(len(rows))*lineHeight + float64(3+warnings)*lineHeight

	actionW, inputW, descW := helpColumns(rows, font)
	width := 40 + actionW + 20 + 30 + inputW + 20 + descW + helpPadding*2
	return width, height
}

// calculateOptimalFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(availableWidth, availableHeight float64) (float64, bool) {
	maxFontSize := r.renderState.GetFontSize()
	minFontSize := 12.0

	fits := func(size float64) bool {
		w, h := r.calculateRequiredDimensions(size)
		return w <= availableWidth && h <= availableHeight
	}

	if !fits(minFontSize) {
		return minFontSize, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	low, high, best := minFontSize, maxFontSize, minFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			best, low = mid, mid
		} else {
			high = mid
		}
	}
	return best, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	fontSize, canFit := r.calculateOptimalFontSize(w-helpPadding*2, h-helpPadding*2)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	font := r.face(fontSize)
	lineHeight := fontSize * 1.5
	rows := r.helpRows()
	actionW, inputW, _ := helpColumns(rows, font)

	actionX := helpPadding + 40
	arrowX := actionX + actionW + 20
	inputX := arrowX + 30
	descX := inputX + inputW + 20

	y := helpPadding + 30
	DrawText(screen, "HELP:", font, helpPadding+20, y, colorWhite)
	y += fontSize * 2

	for _, row := range rows {
		if row.section != "" {
			DrawText(screen, row.section, font, helpPadding+20, y, colorWhite)
			y += lineHeight
			continue
		}
		DrawText(screen, row.action, font, actionX, y, colorLightBlue)
		DrawText(screen, "->", font, arrowX, y, colorWhite)

		x := inputX
		if row.keys != "" {
			DrawText(screen, row.keys, font, x, y, colorYellow)
			kw, _ := text.Measure(row.keys, font, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", font, x, y, colorWhite)
			sw, _ := text.Measure(" | ", font, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, font, x, y, colorCyan)
		}
		DrawText(screen, row.desc, font, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	status := r.renderState.GetConfigStatus()
	DrawText(screen, "System:", font, helpPadding+20, y, colorWhite)
	y += lineHeight

	statusColor := colorGreen
	if status.Status == "Warning" || status.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, "Config Status: "+status.Status, font, helpPadding+40, y, statusColor)
	y += lineHeight

	for i, warning := range status.Warnings {
		if i >= 2 {
			break
		}
		if len(warning) > 50 {
			warning = warning[:47] + "..."
		}
		DrawText(screen, "- "+warning, font, helpPadding+40, y, colorLightRed)
		y += lineHeight
	}
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgColorLight)

	jokeFont := r.face(16)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	messageWidth, messageHeight := text.Measure(message, jokeFont, 0)
	subtitleWidth, _ := text.Measure(subtitle, jokeFont, 0)

	messageX := float64(w)/2 - messageWidth/2
	messageY := float64(h)/2 - messageHeight/2

	DrawText(screen, message, jokeFont, messageX, messageY, colorWhite)
	DrawText(screen, subtitle, jokeFont, float64(w)/2-subtitleWidth/2, messageY+messageHeight+10, colorGray)
}
