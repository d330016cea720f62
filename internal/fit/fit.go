// Package fit computes where a source image lands inside a fixed-size
// drawing surface. Placements preserve the source aspect ratio and center
// the image along the axis that has slack.
package fit

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

// Tolerance is the slack allowed when comparing placements against their
// target rectangle.
const Tolerance = 1e-9

// ErrInvalidDimensions is returned when a target or source rectangle has a
// zero, negative or non-finite side.
var ErrInvalidDimensions = errors.New("dimensions must be positive and finite")

// Rectangle is a size.
type Rectangle struct {
	Width  float64
	Height float64
}

// Point is a 2D offset from the top-left corner, y increasing downward.
type Point struct {
	X float64
	Y float64
}

// Placement is the computed size and top-left offset of a source image
// inside a target rectangle.
type Placement struct {
	Size   Rectangle
	Origin Point
}

// Mode selects the fitting algorithm.
type Mode string

const (
	// ModeLetterbox branches on the source orientation alone. Square and
	// landscape sources fill the target width.
	ModeLetterbox Mode = "letterbox"

	// ModeContain compares the source aspect ratio with the target's and
	// always keeps the image inside the target.
	ModeContain Mode = "contain"
)

// Modes lists the supported fit modes.
func Modes() []Mode {
	return []Mode{ModeLetterbox, ModeContain}
}

// ParseMode parses a fit mode name. The empty string means ModeLetterbox.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLetterbox:
		return ModeLetterbox, nil
	case ModeContain:
		return ModeContain, nil
	default:
		return "", fmt.Errorf("unknown fit mode %q (want %s or %s)", s, ModeLetterbox, ModeContain)
	}
}

// Fit dispatches to the algorithm selected by mode.
func Fit(mode Mode, target, source Rectangle) (Placement, error) {
	switch mode {
	case ModeContain:
		return Contain(target, source)
	case ModeLetterbox, "":
		return Letterbox(target, source)
	default:
		return Placement{}, fmt.Errorf("unknown fit mode %q", mode)
	}
}

// Letterbox maximizes the rendered size of source inside target. Sources
// that are taller than wide fill the target height and are centered
// horizontally; everything else, squares included, fills the target width
// and is centered vertically.
//
// A square or landscape source in a target that is taller than it is wide
// relative to the source can end up taller than the target; see
// Placement.Overflows.
func Letterbox(target, source Rectangle) (Placement, error) {
	if err := validate(target, source); err != nil {
		return Placement{}, err
	}

	aspect := source.Width / source.Height
	if aspect < 1 {
		return heightFirst(target, aspect), nil
	}
	return widthFirst(target, aspect), nil
}

// Contain is like Letterbox but picks the constraining side by comparing
// the source aspect ratio with the target's, so the result is always inside
// the target. Equal ratios fill the target width.
func Contain(target, source Rectangle) (Placement, error) {
	if err := validate(target, source); err != nil {
		return Placement{}, err
	}

	aspect := source.Width / source.Height
	if aspect < target.Width/target.Height {
		return heightFirst(target, aspect), nil
	}
	return widthFirst(target, aspect), nil
}

func heightFirst(target Rectangle, aspect float64) Placement {
	width := target.Height * aspect
	return Placement{
		Size:   Rectangle{Width: width, Height: target.Height},
		Origin: Point{X: (target.Width - width) / 2, Y: 0},
	}
}

func widthFirst(target Rectangle, aspect float64) Placement {
	height := target.Width / aspect
	return Placement{
		Size:   Rectangle{Width: target.Width, Height: height},
		Origin: Point{X: 0, Y: (target.Height - height) / 2},
	}
}

func validate(target, source Rectangle) error {
	if !positive(target.Width) || !positive(target.Height) {
		return fmt.Errorf("target %vx%v: %w", target.Width, target.Height, ErrInvalidDimensions)
	}
	if !positive(source.Width) || !positive(source.Height) {
		return fmt.Errorf("source %vx%v: %w", source.Width, source.Height, ErrInvalidDimensions)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// AspectRatio returns width over height.
func (r Rectangle) AspectRatio() float64 {
	return r.Width / r.Height
}

// Overflows reports whether p extends past any edge of target.
func (p Placement) Overflows(target Rectangle) bool {
	return p.Origin.X < -Tolerance ||
		p.Origin.Y < -Tolerance ||
		p.Origin.X+p.Size.Width > target.Width+Tolerance ||
		p.Origin.Y+p.Size.Height > target.Height+Tolerance
}

// Bounds rounds the placement to whole pixels.
func (p Placement) Bounds() image.Rectangle {
	x0 := int(math.Round(p.Origin.X))
	y0 := int(math.Round(p.Origin.Y))
	x1 := int(math.Round(p.Origin.X + p.Size.Width))
	y1 := int(math.Round(p.Origin.Y + p.Size.Height))
	return image.Rect(x0, y0, x1, y1)
}

// String implements fmt.Stringer.
func (p Placement) String() string {
	return fmt.Sprintf("%gx%g@(%g,%g)", p.Size.Width, p.Size.Height, p.Origin.X, p.Origin.Y)
}
