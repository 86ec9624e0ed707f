package main

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCalculatePreloadIndices(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		direction  NavigationDirection
		count      int
		maxPreload int
		wrap       bool
		expected   []int
	}{
		{"Forward", 0, NavigationForward, 10, 3, true, []int{1, 2, 3}},
		{"Forward wraps", 9, NavigationForward, 10, 2, true, []int{0, 1}},
		{"Backward wraps", 0, NavigationBackward, 10, 3, true, []int{9, 8, 7}},
		{"Jump alternates", 5, NavigationJump, 10, 4, true, []int{6, 4, 7, 3}},
		{"Jump on a tiny page", 0, NavigationJump, 3, 5, true, []int{1, 2}},
		{"Forward stops at the page end", 8, NavigationForward, 10, 3, false, []int{9}},
		{"Forward at the last item pages", 9, NavigationForward, 10, 3, false, nil},
		{"Backward stops at the page start", 1, NavigationBackward, 10, 3, false, []int{0}},
		{"Jump near the start stays on the page", 0, NavigationJump, 10, 3, false, []int{1, 2, 3}},
		{"Jump alternates without wrap", 5, NavigationJump, 10, 4, false, []int{6, 4, 7, 3}},
		{"Single item", 0, NavigationForward, 1, 3, true, nil},
		{"Out of range", 5, NavigationForward, 3, 2, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculatePreloadIndices(tt.current, tt.direction, tt.count, tt.maxPreload, tt.wrap)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("calculatePreloadIndices() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name             string
		w, h, size       int
		expectW, expectH int
	}{
		{"Wide image", 400, 200, 100, 100, 50},
		{"Tall image", 200, 400, 100, 50, 100},
		{"Already small", 50, 40, 100, 50, 40},
		{"Extreme ratio keeps a pixel", 1000, 1, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := scaleToFit(src, tt.size).Bounds()
			if got.Dx() != tt.expectW || got.Dy() != tt.expectH {
				t.Errorf("scaleToFit(%dx%d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.size, got.Dx(), got.Dy(), tt.expectW, tt.expectH)
			}
		})
	}
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	dir := t.TempDir()
	data := encodeTestPNG(t, 12, 7)

	plain := filepath.Join(dir, "plain.png")
	if err := os.WriteFile(plain, data, 0o644); err != nil {
		t.Fatalf("Failed to write png: %v", err)
	}

	archive := filepath.Join(dir, "book.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("Failed to create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	entry, err := zw.Create("pages/p1.png")
	if err != nil {
		t.Fatalf("Failed to add entry: %v", err)
	}
	if _, err := entry.Write(data); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	f.Close()

	tests := []struct {
		name      string
		path      ImagePath
		expectErr bool
	}{
		{"Plain file", ImagePath{Path: plain}, false},
		{"Zip entry", archiveEntry(archive, "pages/p1.png", int64(len(data))), false},
		{"Missing zip entry", archiveEntry(archive, "pages/p2.png", 0), true},
		{"Missing file", ImagePath{Path: filepath.Join(dir, "nope.png")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := decodeImage(tt.path)
			if tt.expectErr {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeImage failed: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
				t.Errorf("Expected 12x7, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestDecodeBytesRejectsGarbage(t *testing.T) {
	if _, err := decodeBytes([]byte("not an image"), "x.png"); err == nil {
		t.Error("Expected a decode error")
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in       string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 6, "abc..."},
		{"日本語のファイル名", 6, "日本語..."},
		{"tiny", 2, "tiny"},
	}
	for _, tt := range tests {
		if got := truncateText(tt.in, tt.max); got != tt.expected {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.expected)
		}
	}
}

func TestRatingStars(t *testing.T) {
	value := func(v int) *int { return &v }
	tests := []struct {
		name          string
		rating        *int
		filled, empty string
	}{
		{"Unrated", nil, "", "-----"},
		{"Zero", value(0), "", "-----"},
		{"One star", value(20), "*", "----"},
		{"Three stars", value(60), "***", "--"},
		{"Rounds to nearest", value(50), "***", "--"},
		{"Five stars", value(100), "*****", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled, empty := ratingStars(tt.rating)
			if filled != tt.filled || empty != tt.empty {
				t.Errorf("ratingStars() = (%q, %q), want (%q, %q)", filled, empty, tt.filled, tt.empty)
			}
		})
	}
}
