package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# speech engine: piper, gtts or mock
tts:
  engine: "piper"
  # how long one caption may take to synthesize
  timeout: "30s"
  cache:
    # empty uses the user cache directory
    dir: ""
    memory_mb: 64
    disk_mb: 512
    ttl: "168h"
  piper:
    # directory holding *.onnx voice models and their .onnx.json files
    voices_dir: "~/.local/share/piper"
    # default voice, a model name without extension
    model: ""
    binary: "piper"
  gtts:
    language: "en"
    languages: ["en", "es", "fr", "de"]
    slow: false
    requests_per_minute: 50

# voice name, see "memegen voices"
voice: ""
# speech volume from 0 to 100
volume: 100

# canvas size in pixels
canvas:
  width: 400
  height: 400
# letterbox or contain
fit: "letterbox"
# reset the caption and buttons when a new image loads
reset_on_load: false

# where ctrl+s saves the meme (default <image>-meme.png)
out: ""
jpeg_quality: 90

# show hidden and ignored images
all: false
# mouse support (TUI-mode only)
mouse: false

audio:
  # 44100 or 48000
  sample_rate: 44100
  buffer_size: 4096
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the memegen config file",
	Long:    paragraph(fmt.Sprintf("\n%s the memegen config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("memegen config\nmemegen config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("memegen", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
