// Package main provides the entry point for the memegen CLI application.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/canvas"
	"github.com/dgnsrekt/memegen/internal/fit"
	"github.com/dgnsrekt/memegen/internal/speech/engines"
	"github.com/dgnsrekt/memegen/ui"
	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	errNotTerminal = errors.New("memegen needs a terminal, use \"memegen render\" in scripts")
	errVolume      = errors.New("volume must be between 0 and 100")
	errCanvasSize  = errors.New("canvas width and height must be positive")

	configFile   string
	ttsEngine    string
	voice        string
	volume       int
	canvasWidth  int
	canvasHeight int
	fitMode      fit.Mode
	outPath      string
	showAllFiles bool
	mouse        bool
	resetOnLoad  bool

	rootCmd = &cobra.Command{
		Use:   "memegen [IMAGE|DIR]",
		Short: "Caption memes in the terminal and hear them read aloud",
		Long: paragraph(
			fmt.Sprintf("\nCaption memes in the terminal, %s!", keyword("then hear them read aloud")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if err := readConfigFlag(cmd); err != nil {
		return err
	}

	// grab config values from Viper
	voice = viper.GetString("voice")
	showAllFiles = viper.GetBool("all")
	mouse = viper.GetBool("mouse")
	resetOnLoad = viper.GetBool("reset_on_load")

	volume = viper.GetInt("volume")
	if volume < 0 || volume > 100 {
		return fmt.Errorf("%w, got %d", errVolume, volume)
	}

	canvasWidth = viper.GetInt("canvas.width")
	canvasHeight = viper.GetInt("canvas.height")
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return fmt.Errorf("%w, got %dx%d", errCanvasSize, canvasWidth, canvasHeight)
	}

	mode, err := fit.ParseMode(viper.GetString("fit"))
	if err != nil {
		return err
	}
	fitMode = mode

	engine, err := engines.ValidateSelection(viper.GetString("tts.engine"))
	if err != nil {
		return fmt.Errorf("TTS validation failed: %w", err)
	}
	ttsEngine = engine

	quality := viper.GetInt("jpeg_quality")
	if quality < 1 || quality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", quality)
	}
	canvas.JPEGQuality = quality

	outPath = ""
	if out := viper.GetString("out"); out != "" {
		if outPath, err = expandPath(out); err != nil {
			return err
		}
	}
	return nil
}

// readConfigFlag reads the file given with --config in place of the one
// found in the default places. The config command may name a file that does
// not exist yet; it creates it.
func readConfigFlag(cmd *cobra.Command) error {
	f := cmd.Flag("config")
	if f == nil || !f.Changed {
		return nil
	}

	path, err := expandPath(configFile)
	if err != nil {
		return err
	}
	configFile = path

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && cmd == configCmd {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config file %s: %w", path, err)
	}
	log.Debug("Using configuration file", "path", path)
	return nil
}

// validateStyle checks that the help screen style is a built-in one.
func validateStyle(style string) error {
	if style != styles.AutoStyle && styles.DefaultStyles[style] == nil {
		return fmt.Errorf("specified style does not exist: %s", style)
	}
	return nil
}

func expandPath(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("unable to expand path %q: %w", path, err)
	}
	return p, nil
}

func execute(_ *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	if path, err = filepath.Abs(path); err != nil {
		return fmt.Errorf("unable to get absolute path: %w", err)
	}
	return runTUI(path)
}

func runTUI(path string) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	// use style set in env, or auto if unset
	if err := validateStyle(cfg.GlamourStyle); err != nil {
		log.Warn("Ignoring help style", "err", err)
		cfg.GlamourStyle = styles.AutoStyle
	}

	cfg.Path = path
	cfg.ShowAllFiles = showAllFiles
	cfg.EnableMouse = mouse
	cfg.CanvasWidth = canvasWidth
	cfg.CanvasHeight = canvasHeight
	cfg.FitMode = fitMode
	cfg.ResetOnLoad = resetOnLoad
	cfg.Voice = voice
	cfg.Volume = volume
	cfg.OutputPath = outPath

	synth, err := newSynthesizer(ttsEngine, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := synth.Close(); err != nil {
			log.Debug("unable to close speech", "err", err)
		}
	}()

	p, err := ui.NewProgram(cfg, synth)
	if err != nil {
		return fmt.Errorf("unable to create tui program: %w", err)
	}

	// Run Bubble Tea program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	loadDotEnv()
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	defaultConfigFile := viper.GetViper().ConfigFileUsed()
	if defaultConfigFile == "" {
		defaultConfigFile = configFile
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile, "config file")
	rootCmd.PersistentFlags().String("tts", engines.NamePiper, "speech engine (piper, gtts or mock)")
	rootCmd.PersistentFlags().String("voice", "", "voice name (default is the engine's default voice)")
	rootCmd.PersistentFlags().Int("volume", 100, "speech volume from 0 to 100")
	rootCmd.PersistentFlags().Int("width", 400, "canvas width in pixels")
	rootCmd.PersistentFlags().Int("height", 400, "canvas height in pixels")
	rootCmd.PersistentFlags().String("fit", string(fit.ModeLetterbox), "how images fit the canvas (letterbox or contain)")
	rootCmd.PersistentFlags().StringP("out", "o", "", "where to save the meme (default <image>-meme.png)")
	rootCmd.Flags().BoolP("all", "a", false, "show hidden and ignored images (TUI-mode only)")
	rootCmd.Flags().BoolP("mouse", "m", false, "enable mouse support (TUI-mode only)")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("tts.engine", rootCmd.PersistentFlags().Lookup("tts"))
	_ = viper.BindPFlag("voice", rootCmd.PersistentFlags().Lookup("voice"))
	_ = viper.BindPFlag("volume", rootCmd.PersistentFlags().Lookup("volume"))
	_ = viper.BindPFlag("canvas.width", rootCmd.PersistentFlags().Lookup("width"))
	_ = viper.BindPFlag("canvas.height", rootCmd.PersistentFlags().Lookup("height"))
	_ = viper.BindPFlag("fit", rootCmd.PersistentFlags().Lookup("fit"))
	_ = viper.BindPFlag("out", rootCmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("all", rootCmd.Flags().Lookup("all"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("tts.engine", engines.NamePiper)
	viper.SetDefault("volume", 100)
	viper.SetDefault("canvas.width", 400)
	viper.SetDefault("canvas.height", 400)
	viper.SetDefault("fit", string(fit.ModeLetterbox))
	viper.SetDefault("reset_on_load", false)
	viper.SetDefault("jpeg_quality", 90)

	// TTS defaults
	viper.SetDefault("tts.timeout", "30s")
	viper.SetDefault("tts.cache.dir", "")
	viper.SetDefault("tts.cache.memory_mb", 64)
	viper.SetDefault("tts.cache.disk_mb", 512)
	viper.SetDefault("tts.cache.ttl", "168h")
	viper.SetDefault("tts.piper.voices_dir", "~/.local/share/piper")
	viper.SetDefault("tts.gtts.language", "en")
	viper.SetDefault("tts.gtts.slow", false)
	viper.SetDefault("tts.gtts.requests_per_minute", 50)
	viper.SetDefault("audio.sample_rate", 44100)
	viper.SetDefault("audio.buffer_size", 4096)

	rootCmd.AddCommand(configCmd, manCmd, renderCmd, voicesCmd)
}

// loadDotEnv reads a .env file from the working directory so MEMEGEN_*
// variables can live next to a project.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Could not parse .env file", "err", err)
	}
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "memegen")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "memegen")}, dirs...)
	}

	if c := os.Getenv("MEMEGEN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("memegen")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("memegen")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "memegen.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
