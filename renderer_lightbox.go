package main

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"lightview/lightbox"
)

func (r *Renderer) drawLightbox(screen *ebiten.Image, viewer *lightbox.Viewer) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	layout := newLightboxLayout(w, h, viewer.ShowNavStrip())

	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgColorDark)

	if viewer.Loading() {
		r.drawSpinner(screen, layout.stage)
	} else {
		r.drawCarousel(screen, viewer, layout)
		if viewer.ShowNavButtons() {
			r.drawNavButtons(screen, layout)
		}
	}

	r.drawLightboxHeader(screen, viewer, w)
	if !layout.strip.Empty() {
		r.drawNavStrip(screen, viewer, layout)
	}
	r.drawLightboxFooter(screen, viewer, w, h)

	if viewer.State().OptionsOpen {
		r.drawOptionsPanel(screen, viewer)
	}
}

func (r *Renderer) drawSpinner(screen *ebiten.Image, stage image.Rectangle) {
	dots := int(time.Now().UnixMilli()/300) % 4
	label := "Loading" + strings.Repeat(".", dots)
	font := r.face(20)
	tw, th := text.Measure("Loading...", font, 0)
	cx := float64(stage.Min.X) + (float64(stage.Dx())-tw)/2
	cy := float64(stage.Min.Y) + (float64(stage.Dy())-th)/2
	DrawText(screen, label, font, cx, cy, colorLightGray)
}

// drawCarousel draws the current item and, while sliding, its neighbours
func (r *Renderer) drawCarousel(screen *ebiten.Image, viewer *lightbox.Viewer, layout lightboxLayout) {
	stage := screen.SubImage(layout.stage).(*ebiten.Image)
	state := viewer.State()
	prefs := viewer.Preferences()
	images := r.renderState.Images()
	offset := r.renderState.CarouselOffset()

	for _, m := range viewer.Mounted() {
		rel := float64(m.Position-state.Index) + offset
		if math.Abs(rel) >= 1 {
			continue
		}

		var img *ebiten.Image
		if m.Current {
			img = images.Image(m.Item.Display)
		} else if cached, ok := images.CachedImage(m.Item.Display); ok {
			img = cached
		} else {
			img = images.Thumbnail(m.Item.Thumbnail)
		}
		if img == nil {
			continue
		}

		shift := rel * float64(layout.stage.Dx())
		pan := 0.0
		if m.Current {
			pan = r.renderState.PanOffsetY()
		}
		clamped := r.drawStageImage(stage, img, layout.stage, prefs, m.Zoom, state.Direction, shift, pan)
		if m.Current {
			r.renderState.SetPanOffsetY(clamped)
		}
	}
}

// drawStageImage draws one carousel image and returns the clamped vertical pan
func (r *Renderer) drawStageImage(dst, img *ebiten.Image, area image.Rectangle, prefs lightbox.Preferences, zoom float64, dir lightbox.Direction, shift, pan float64) float64 {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	scale := displayScale(prefs, iw, ih, area.Dx(), area.Dy(), zoom)
	sw, sh := float64(iw)*scale, float64(ih)*scale

	top, clamped := verticalPlacement(sh, float64(area.Dy()), dir, pan)
	x := float64(area.Min.X) + (float64(area.Dx())-sw)/2 + shift
	y := float64(area.Min.Y) + top

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	dst.DrawImage(img, op)
	return clamped
}

func (r *Renderer) drawNavButtons(screen *ebiten.Image, layout lightboxLayout) {
	font := r.face(32)
	midY := float64(layout.stage.Min.Y) + float64(layout.stage.Dy())/2 - 20
	DrawFilledRect(screen, float64(layout.stage.Min.X), midY-10, 40, 60, bgColorLight)
	DrawText(screen, "<", font, float64(layout.stage.Min.X)+10, midY, colorWhite)
	DrawFilledRect(screen, float64(layout.stage.Max.X)-40, midY-10, 40, 60, bgColorLight)
	DrawText(screen, ">", font, float64(layout.stage.Max.X)-28, midY, colorWhite)
}

func (r *Renderer) drawLightboxHeader(screen *ebiten.Image, viewer *lightbox.Viewer, w int) {
	font := r.face(16)
	DrawFilledRect(screen, 0, 0, float64(w), lightboxHeaderHeight, bgColorDark)
	DrawText(screen, r.renderState.GetPageHeader(), font, 10, 9, colorWhite)

	var right []string
	if viewer.ShowZoomReset() {
		right = append(right, fmt.Sprintf("zoom %d%% [0]", int(math.Round(viewer.State().Zoom*100))))
	}
	if viewer.ShowSlideshowToggle() {
		if viewer.SlideshowActive() {
			right = append(right, fmt.Sprintf("playing %ds [Space]", int(viewer.SlideshowDelay().Seconds())))
		} else {
			right = append(right, "paused [Space]")
		}
	}
	if indicator := viewer.Indicator(); indicator != "" {
		right = append(right, indicator)
	}

	label := strings.Join(right, "   ")
	tw, _ := text.Measure(label, font, 0)
	DrawText(screen, label, font, float64(w)-tw-10, 9, colorLightGray)
}

func (r *Renderer) drawNavStrip(screen *ebiten.Image, viewer *lightbox.Viewer, layout lightboxLayout) {
	strip := layout.strip
	DrawFilledRect(screen, float64(strip.Min.X), float64(strip.Min.Y), float64(strip.Dx()), float64(strip.Dy()), bgColorMedium)

	edgeFont := r.face(18)
	edgeY := float64(strip.Min.Y) + float64(strip.Dy())/2 - 11
	DrawText(screen, "<|", edgeFont, float64(strip.Min.X)+12, edgeY, colorLightGray)
	DrawText(screen, "|>", edgeFont, float64(strip.Max.X)-stripEdgeWidth+12, edgeY, colorLightGray)

	items := viewer.Items()
	index := viewer.State().Index
	lo, hi := layout.stripWindow(index, len(items))
	images := r.renderState.Images()

	for i := lo; i <= hi; i++ {
		cell := layout.stripCell(i, lo, hi)
		if thumb := images.Thumbnail(items[i].Thumbnail); thumb != nil {
			drawImageFit(screen, thumb, cell)
		} else {
			DrawFilledRect(screen, float64(cell.Min.X), float64(cell.Min.Y), float64(cell.Dx()), float64(cell.Dy()), colorDarkGray)
		}
		if i == index {
			drawFrame(screen, cell.Inset(-2), 2, colorSelection)
		}
	}
}

func (r *Renderer) drawLightboxFooter(screen *ebiten.Image, viewer *lightbox.Viewer, w, h int) {
	y := float64(h - lightboxFooterHeight)
	DrawFilledRect(screen, 0, y, float64(w), lightboxFooterHeight, bgColorDark)

	item, ok := viewer.Current()
	if !ok {
		return
	}

	font := r.face(16)
	x := 10.0
	filled, empty := ratingStars(item.Rating)
	DrawText(screen, filled, font, x, y+12, colorYellow)
	fw, _ := text.Measure(filled, font, 0)
	DrawText(screen, empty, font, x+fw, y+12, colorDarkGray)
	x += 70

	counter := fmt.Sprintf("count %d", item.Counter)
	DrawText(screen, counter, font, x, y+12, colorCyan)
	cw, _ := text.Measure(counter, font, 0)
	x += cw + 20

	title := item.Title
	if item.Size > 0 {
		title += "  (" + humanize.Bytes(uint64(item.Size)) + ")"
	}
	DrawText(screen, title, font, x, y+12, colorWhite)
}

func (r *Renderer) drawOptionsPanel(screen *ebiten.Image, viewer *lightbox.Viewer) {
	prefs := viewer.Preferences()
	font := r.face(18)

	lines := []struct {
		label, value, key string
	}{
		{"Display mode", displayModeName(prefs.DisplayMode), "M"},
		{"Scale up", onOff(prefs.ScaleUp), "U"},
		{"Reset zoom on navigation", onOff(prefs.ResetZoomOnNav), "Z"},
		{"Scroll wheel", string(prefs.ScrollMode), "Shift+M"},
		{"Slideshow delay (s)", viewer.DelayText() + "_", "type digits"},
	}

	lineHeight := 30.0
	boxW, boxH := 460.0, lineHeight*float64(len(lines)+2)
	boxX := (float64(screen.Bounds().Dx()) - boxW) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	drawFrame(screen, image.Rect(int(boxX), int(boxY), int(boxX+boxW), int(boxY+boxH)), 1, colorGray)
	DrawText(screen, "Options  [O / Escape to close]", font, boxX+16, boxY+10, colorWhite)

	y := boxY + 10 + lineHeight
	for _, line := range lines {
		DrawText(screen, line.label, font, boxX+16, y, colorLightBlue)
		DrawText(screen, line.value, font, boxX+260, y, colorYellow)
		DrawText(screen, line.key, r.face(12), boxX+boxW-80, y+4, colorGray)
		y += lineHeight
	}
}
