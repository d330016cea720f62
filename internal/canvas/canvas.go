// Package canvas provides the in-memory drawing surface that memes are
// composed on, along with image loading and encoding.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/fit"
	"github.com/dgnsrekt/memegen/internal/meme"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Default canvas settings.
const (
	DefaultWidth        = 400
	DefaultHeight       = 400
	DefaultFontSize     = 30
	DefaultOutlineWidth = 2
)

// ErrInvalidSize is returned for canvases with a non-positive side.
var ErrInvalidSize = errors.New("canvas size must be positive")

// Canvas is a fixed-size RGBA drawing surface.
type Canvas struct {
	img *image.RGBA

	face         font.Face
	fill         color.Color
	textColor    color.Color
	outlineColor color.Color
	outlineWidth int
}

// Option configures a Canvas.
type Option func(*Canvas) error

// WithFontSize sets the caption font size in pixels.
func WithFontSize(size float64) Option {
	return func(c *Canvas) error {
		face, err := newFace(size)
		if err != nil {
			return err
		}
		c.face = face
		return nil
	}
}

// WithTextColors sets the caption fill and outline colors. An outline
// width of zero disables the outline.
func WithTextColors(text, outline color.Color, outlineWidth int) Option {
	return func(c *Canvas) error {
		c.textColor = text
		c.outlineColor = outline
		c.outlineWidth = outlineWidth
		return nil
	}
}

// WithFill sets the background color used by FillRect.
func WithFill(fill color.Color) Option {
	return func(c *Canvas) error {
		c.fill = fill
		return nil
	}
}

// New returns a transparent canvas of the given size.
func New(width, height int, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}

	face, err := newFace(DefaultFontSize)
	if err != nil {
		return nil, err
	}

	c := &Canvas{
		img:          image.NewRGBA(image.Rect(0, 0, width, height)),
		face:         face,
		fill:         color.Black,
		textColor:    color.White,
		outlineColor: color.Black,
		outlineWidth: DefaultOutlineWidth,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create font face: %w", err)
	}
	return face, nil
}

// Size implements meme.Surface.
func (c *Canvas) Size() fit.Rectangle {
	b := c.img.Bounds()
	return fit.Rectangle{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// FillRect implements meme.Surface.
func (c *Canvas) FillRect(r fit.Rectangle) {
	draw.Draw(c.img, rectAtOrigin(r), image.NewUniform(c.fill), image.Point{}, draw.Src)
}

// ClearRect implements meme.Surface.
func (c *Canvas) ClearRect(r fit.Rectangle) {
	draw.Draw(c.img, rectAtOrigin(r), image.Transparent, image.Point{}, draw.Src)
}

// DrawImage implements meme.Surface. Images that do not expose pixels are
// skipped. Parts of the placement outside the canvas are clipped.
func (c *Canvas) DrawImage(img meme.Image, p fit.Placement) {
	src, ok := img.(interface{ Pixels() image.Image })
	if !ok {
		log.Warn("image has no pixel data, skipping draw", "type", fmt.Sprintf("%T", img))
		return
	}

	bounds := p.Bounds()
	if bounds.Empty() {
		return
	}

	scaled := imaging.Resize(src.Pixels(), bounds.Dx(), bounds.Dy(), imaging.Lanczos)
	draw.Draw(c.img, bounds, scaled, image.Point{}, draw.Over)
}

// DrawText implements meme.Surface. The text is centered on x with its
// baseline at y.
func (c *Canvas) DrawText(text string, x, y float64) {
	if text == "" {
		return
	}

	width := font.MeasureString(c.face, text)
	dot := fixed.Point26_6{
		X: fixed.Int26_6(x*64) - width/2,
		Y: fixed.Int26_6(y * 64),
	}

	if c.outlineWidth > 0 && c.outlineColor != nil {
		d := &font.Drawer{Dst: c.img, Src: image.NewUniform(c.outlineColor), Face: c.face}
		for dy := -c.outlineWidth; dy <= c.outlineWidth; dy++ {
			for dx := -c.outlineWidth; dx <= c.outlineWidth; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				d.Dot = dot.Add(fixed.P(dx, dy))
				d.DrawString(text)
			}
		}
	}

	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(c.textColor), Face: c.face, Dot: dot}
	d.DrawString(text)
}

// MeasureText returns the rendered width of text in pixels.
func (c *Canvas) MeasureText(text string) int {
	return font.MeasureString(c.face, text).Ceil()
}

// Image returns the composed image. The canvas keeps ownership.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Snapshot returns a copy of the composed image.
func (c *Canvas) Snapshot() *image.NRGBA {
	return imaging.Clone(c.img)
}

func rectAtOrigin(r fit.Rectangle) image.Rectangle {
	return image.Rect(0, 0, int(r.Width+0.5), int(r.Height+0.5))
}

var _ meme.Surface = (*Canvas)(nil)
