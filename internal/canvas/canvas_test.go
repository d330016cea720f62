package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgnsrekt/memegen/internal/fit"
	"github.com/dgnsrekt/memegen/internal/meme"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

var red = color.RGBA{R: 255, A: 255}

func TestNew(t *testing.T) {
	c, err := New(DefaultWidth, DefaultHeight)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := c.Size(); got != (fit.Rectangle{Width: 400, Height: 400}) {
		t.Errorf("Size() = %v", got)
	}
	if _, err := New(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("New(0, 10) = %v, want ErrInvalidSize", err)
	}
}

func TestFillAndClear(t *testing.T) {
	c, _ := New(20, 10)

	c.FillRect(c.Size())
	if got := rgba(c.Image().At(19, 9)); got != (color.RGBA{A: 255}) {
		t.Errorf("after fill pixel = %v, want opaque black", got)
	}

	c.ClearRect(c.Size())
	if got := rgba(c.Image().At(0, 0)); got != (color.RGBA{}) {
		t.Errorf("after clear pixel = %v, want transparent", got)
	}
}

func TestDrawImagePortraitLetterbox(t *testing.T) {
	c, _ := New(400, 400)
	src := NewPicture("tall.png", solid(100, 400, red))

	p, err := fit.Letterbox(c.Size(), fit.Rectangle{Width: 100, Height: 400})
	if err != nil {
		t.Fatal(err)
	}
	c.FillRect(c.Size())
	c.DrawImage(src, p)

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"center is image", 200, 200, red},
		{"left bar is background", 50, 200, color.RGBA{A: 255}},
		{"right bar is background", 350, 200, color.RGBA{A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rgba(c.Image().At(tt.x, tt.y)); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDrawImageClipsOverflow(t *testing.T) {
	c, _ := New(400, 300)
	src := NewPicture("square.png", solid(50, 50, red))

	p, err := fit.Letterbox(c.Size(), fit.Rectangle{Width: 50, Height: 50})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Overflows(c.Size()) {
		t.Fatal("expected square source on landscape canvas to overflow")
	}

	c.DrawImage(src, p)
	for _, pt := range []image.Point{{0, 0}, {399, 299}} {
		if got := rgba(c.Image().At(pt.X, pt.Y)); got != red {
			t.Errorf("pixel %v = %v, want red", pt, got)
		}
	}
}

type noPixels struct{}

func (noPixels) Width() int  { return 10 }
func (noPixels) Height() int { return 10 }

func TestDrawImageWithoutPixels(t *testing.T) {
	c, _ := New(10, 10)
	c.DrawImage(noPixels{}, fit.Placement{Size: fit.Rectangle{Width: 10, Height: 10}})
	if got := rgba(c.Image().At(5, 5)); got != (color.RGBA{}) {
		t.Errorf("pixel = %v, want untouched", got)
	}
}

func TestDrawText(t *testing.T) {
	c, _ := New(400, 400)
	c.DrawText("TOP TEXT", 200, meme.DefaultTopOffset)

	bounds := image.Rect(0, 0, 400, 70)
	inked, outside := 0, 0
	img := c.Image()
	for y := range 400 {
		for x := range 400 {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			if image.Pt(x, y).In(bounds) {
				inked++
			} else {
				outside++
			}
		}
	}
	if inked == 0 {
		t.Error("no text pixels drawn near the top baseline")
	}
	if outside != 0 {
		t.Errorf("%d pixels drawn far from the baseline", outside)
	}

	// Centered text has ink on both sides of the center line.
	left, right := false, false
	for y := range 70 {
		for x := range 200 {
			left = left || img.RGBAAt(x, y).A != 0
			right = right || img.RGBAAt(399-x, y).A != 0
		}
	}
	if !left || !right {
		t.Errorf("text not centered: left=%v right=%v", left, right)
	}
}

func TestDrawTextEmpty(t *testing.T) {
	c, _ := New(50, 50)
	c.DrawText("", 25, 25)
	if !bytes.Equal(c.Image().Pix, make([]byte, len(c.Image().Pix))) {
		t.Error("empty text should draw nothing")
	}
}

func TestMeasureTextAndFontSize(t *testing.T) {
	small, _ := New(100, 100, WithFontSize(10))
	large, _ := New(100, 100, WithFontSize(40))
	if small.MeasureText("caption") >= large.MeasureText("caption") {
		t.Error("larger font should measure wider")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	c, _ := New(40, 30, WithFill(red))
	c.FillRect(c.Size())

	for _, name := range []string{"out.png", "out.jpg", "nested/out.webp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := c.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			pic, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if pic.Width() != 40 || pic.Height() != 30 {
				t.Errorf("loaded size = %dx%d, want 40x30", pic.Width(), pic.Height())
			}
			if pic.Size == 0 || pic.Name != filepath.Base(name) {
				t.Errorf("unexpected metadata: %+v", pic)
			}
		})
	}

	if err := c.Save(filepath.Join(dir, "out.txt")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(.txt) = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEncodePNGKeepsTransparency(t *testing.T) {
	c, _ := New(4, 4)
	var buf bytes.Buffer
	if err := c.Encode(&buf, FormatPNG); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0 {
		t.Errorf("alpha = %d, want 0", a)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	bogus := filepath.Join(dir, "bogus.png")
	if err := os.WriteFile(bogus, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bogus); err == nil {
		t.Error("expected error for undecodable file")
	}
}

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"cat.png":     true,
		"CAT.JPG":     true,
		"doge.webp":   true,
		"notes.md":    false,
		"archive.zip": false,
		"noext":       false,
	}
	for path, want := range tests {
		if got := IsImageFile(path); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", path, got, want)
		}
	}
}
