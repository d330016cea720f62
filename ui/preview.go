package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/muesli/termenv"
)

const upperHalfBlock = "▀"

// previewBackground shows through transparent parts of the canvas.
var previewBackground = color.NRGBA{R: 0x1B, G: 0x1B, B: 0x1B, A: 0xFF}

// previewSize returns the cell size of an image scaled to fit within
// maxCols by maxRows cells. Each cell holds two vertically stacked pixels.
func previewSize(imgW, imgH, maxCols, maxRows int) (cols, rows int) {
	if imgW <= 0 || imgH <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	cols = maxCols
	pixelRows := cols * imgH / imgW
	if pixelRows > maxRows*2 {
		pixelRows = maxRows * 2
		cols = max(1, pixelRows*imgW/imgH)
	}
	return cols, max(1, (pixelRows+1)/2)
}

// renderPreview draws img with half-block cells so that each terminal cell
// shows two pixels.
func renderPreview(img image.Image, maxCols, maxRows int, profile termenv.Profile) string {
	b := img.Bounds()
	cols, rows := previewSize(b.Dx(), b.Dy(), maxCols, maxRows)
	if cols == 0 {
		return ""
	}

	bg := imaging.New(cols, rows*2, previewBackground)
	scaled := imaging.Resize(img, cols, rows*2, imaging.Box)
	px := imaging.Overlay(bg, scaled, image.Pt(0, 0), 1)

	var sb strings.Builder
	for y := 0; y < rows*2; y += 2 {
		for x := range cols {
			top := px.NRGBAAt(x, y)
			bottom := px.NRGBAAt(x, y+1)
			cell := profile.String(upperHalfBlock).
				Foreground(profile.Color(hexColor(top))).
				Background(profile.Color(hexColor(bottom)))
			sb.WriteString(cell.String())
		}
		if y+2 < rows*2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
