package main

import (
	"bytes"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	colorErrorBackground = color.RGBA{120, 30, 30, 255}
	colorErrorBorder     = color.RGBA{255, 255, 255, 255}
)

// Global font source for placeholder images drawn outside the renderer
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

func drawBorder(dst *ebiten.Image, w, h int, thickness float64, c color.RGBA) {
	DrawFilledRect(dst, 0, 0, float64(w), thickness, c)
	DrawFilledRect(dst, 0, float64(h)-thickness, float64(w), thickness, c)
	DrawFilledRect(dst, 0, 0, thickness, float64(h), c)
	DrawFilledRect(dst, float64(w)-thickness, 0, thickness, float64(h), c)
}

// truncateText shortens s to at most maxChars runes, marking the cut with "..."
func truncateText(s string, maxChars int) string {
	runes := []rune(s)
	if maxChars < 4 || len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars-3]) + "..."
}

// CreateErrorImage creates the placeholder shown for an item that failed to
// decode. Thumbnails are small, so they only get the word ERROR.
func CreateErrorImage(width, height int, key, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(colorErrorBackground)
	drawBorder(errorImg, width, height, 3, colorErrorBorder)

	if globalFontSource == nil {
		return errorImg
	}

	size := 20.0
	if width < 200 {
		size = 12
	}
	font := &text.GoTextFace{Source: globalFontSource, Size: size}
	DrawText(errorImg, "ERROR", font, 10, 10, colorErrorBorder)
	if width < 200 {
		return errorImg
	}

	// rough estimate of 10px per character
	maxChars := (width - 20) / 10
	DrawText(errorImg, truncateText("File: "+filepath.Base(key), maxChars), font, 10, 40, colorErrorBorder)
	DrawText(errorImg, truncateText("Reason: "+errorMsg, maxChars), font, 10, 70, colorErrorBorder)
	return errorImg
}
