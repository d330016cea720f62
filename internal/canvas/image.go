package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"

	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for output paths with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ImageExtensions returns glob patterns matching supported image files.
func ImageExtensions() []string {
	patterns := make([]string, 0, len(imageExtensions))
	for ext := range imageExtensions {
		patterns = append(patterns, "*"+ext)
	}
	return patterns
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Picture is a decoded image with its file metadata.
type Picture struct {
	Name string
	Path string
	Size int64 // bytes on disk

	img image.Image
}

// NewPicture wraps an already decoded image.
func NewPicture(name string, img image.Image) *Picture {
	return &Picture{Name: name, img: img}
}

// Width implements meme.Image.
func (p *Picture) Width() int { return p.img.Bounds().Dx() }

// Height implements meme.Image.
func (p *Picture) Height() int { return p.img.Bounds().Dy() }

// Pixels returns the decoded image.
func (p *Picture) Pixels() image.Image { return p.img }

func (p *Picture) String() string {
	return fmt.Sprintf("%s (%dx%d, %s)", p.Name, p.Width(), p.Height(), humanize.Bytes(uint64(p.Size)))
}

// Load decodes the image at path, applying EXIF orientation.
func Load(path string) (*Picture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return &Picture{
		Name: filepath.Base(path),
		Path: path,
		Size: int64(len(data)),
		img:  img,
	}, nil
}

// Decode reads an image in any supported format.
func Decode(r io.ReadSeeker) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}
	if wimg, werr := webp.Decode(r); werr == nil {
		return wimg, nil
	}
	return nil, fmt.Errorf("unable to decode image: %w", err)
}

// Format is an output encoding.
type Format string

// JPEGQuality is the quality used for JPEG output.
var JPEGQuality = 90

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%q: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}

// Encode writes the canvas in the given format.
func (c *Canvas) Encode(w io.Writer, format Format) error {
	return EncodeImage(w, c.img, format)
}

// Save writes the canvas to path in the format its extension names.
func (c *Canvas) Save(path string) error {
	return SaveImage(c.img, path)
}

// EncodeImage writes img in the given format. JPEG has no alpha, so
// transparent areas come out black.
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: true})
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// SaveImage writes img to path, creating parent directories as needed.
func SaveImage(img image.Image, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	if err := EncodeImage(f, img, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to encode %s: %w", format, err)
	}
	return f.Close()
}
