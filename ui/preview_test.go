package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestPreviewSize(t *testing.T) {
	tests := []struct {
		name             string
		imgW, imgH       int
		maxCols, maxRows int
		wantCols         int
		wantRows         int
	}{
		{"square limited by width", 400, 400, 40, 100, 40, 20},
		{"square limited by height", 400, 400, 80, 10, 20, 10},
		{"landscape", 800, 400, 40, 100, 40, 10},
		{"odd pixel rows round up", 100, 30, 10, 100, 10, 2},
		{"empty image", 0, 10, 10, 10, 0, 0},
		{"no room", 10, 10, 0, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := previewSize(tt.imgW, tt.imgH, tt.maxCols, tt.maxRows)
			if cols != tt.wantCols || rows != tt.wantRows {
				t.Errorf("previewSize() = %dx%d, want %dx%d", cols, rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestRenderPreview(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := range 20 {
		for x := range 20 {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	out := renderPreview(img, 10, 50, termenv.Ascii)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, l := range lines {
		if l != strings.Repeat(upperHalfBlock, 10) {
			t.Errorf("line %d = %q", i, l)
		}
	}

	colored := renderPreview(img, 10, 50, termenv.TrueColor)
	if !strings.Contains(colored, "255;0;0") {
		t.Error("true color preview should carry the pixel color")
	}

	if renderPreview(img, 0, 0, termenv.Ascii) != "" {
		t.Error("preview without room should be empty")
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.NRGBA{R: 0x1b, G: 0xff, B: 0x04}); got != "#1bff04" {
		t.Errorf("hexColor() = %q", got)
	}
}
