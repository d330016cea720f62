package ui

import "github.com/dgnsrekt/memegen/internal/fit"

// Config contains TUI-specific configuration.
type Config struct {
	ShowAllFiles bool
	EnableMouse  bool

	// Image file or directory to start from.
	Path string

	// Canvas and caption layout.
	CanvasWidth  int
	CanvasHeight int
	FitMode      fit.Mode
	ResetOnLoad  bool

	// Initial form values.
	Voice  string
	Volume int

	// Where ctrl+s writes the meme. Empty derives a name from the image.
	OutputPath string

	HomeDir      string `env:"HOME"`
	GlamourStyle string `env:"GLAMOUR_STYLE"          envDefault:"auto"`
	PreviewWidth int    `env:"MEMEGEN_PREVIEW_WIDTH"  envDefault:"64"`
	WatchImage   bool   `env:"MEMEGEN_WATCH_IMAGE"    envDefault:"true"`
}
