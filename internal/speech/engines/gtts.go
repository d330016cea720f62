package engines

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/speech"
	"golang.org/x/time/rate"
)

const (
	gttsSampleRate  = 44100
	gttsMaxTextSize = 5000
)

// GTTSConfig configures the gTTS engine.
type GTTSConfig struct {
	// Language is the default voice, e.g. "en".
	Language string `mapstructure:"language"`

	// Languages lists the voices offered. The default language is always
	// included.
	Languages []string `mapstructure:"languages"`

	// Slow asks Google for slower speech.
	Slow bool `mapstructure:"slow"`

	// RequestsPerMinute limits calls to Google. Zero uses 50.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// GTTS synthesizes speech with gtts-cli and converts the MP3 to PCM with
// ffmpeg. Each configured language is one voice.
type GTTS struct {
	slow    bool
	voices  []speech.Voice
	limiter *rate.Limiter
}

// NewGTTS builds the voice list from cfg.
func NewGTTS(cfg GTTSConfig) (*GTTS, error) {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}

	langs := append([]string{cfg.Language}, cfg.Languages...)
	seen := make(map[string]bool, len(langs))

	g := &GTTS{
		slow:    cfg.Slow,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}
	for _, lang := range langs {
		lang = strings.TrimSpace(lang)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		g.voices = append(g.voices, speech.Voice{
			ID:      lang,
			Name:    lang,
			Lang:    lang,
			Default: lang == cfg.Language,
		})
	}

	log.Debug("gtts voices configured", "count", len(g.voices), "default", cfg.Language)
	return g, nil
}

// Synthesize fetches speech from Google and returns 44100Hz PCM.
func (g *GTTS) Synthesize(ctx context.Context, text string, voice *speech.Voice) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, speech.ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); n > gttsMaxTextSize {
		return nil, fmt.Errorf("text too long: %d characters (max %d)", n, gttsMaxTextSize)
	}

	lang := ""
	if voice == nil {
		v, _ := speech.DefaultVoice(g.voices)
		lang = v.ID
	} else {
		v, ok := speech.FindVoice(g.voices, voice.Name)
		if !ok {
			return nil, fmt.Errorf("%s: %w", voice.Name, speech.ErrVoiceNotFound)
		}
		lang = v.ID
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	args := []string{"-l", lang, "-o", "-", "-f", "-"}
	if g.slow {
		args = append(args, "--slow")
	}
	mp3, err := runCommand(ctx, strings.NewReader(text), "gtts-cli", args...)
	if err != nil {
		return nil, fmt.Errorf("MP3 generation failed: %w", err)
	}

	pcm, err := runCommand(ctx, bytes.NewReader(mp3), "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(gttsSampleRate),
		"pipe:1",
	)
	if err != nil {
		return nil, fmt.Errorf("MP3 to PCM conversion failed: %w", err)
	}
	return pcm, nil
}

// Voices returns one voice per configured language.
func (g *GTTS) Voices() []speech.Voice {
	return append([]speech.Voice(nil), g.voices...)
}

// Info describes gTTS output.
func (g *GTTS) Info() speech.EngineInfo {
	return speech.EngineInfo{
		Name:        "gtts",
		SampleRate:  gttsSampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: gttsMaxTextSize,
		IsOnline:    true,
	}
}

// Validate checks that gtts-cli and ffmpeg run.
func (g *GTTS) Validate() error {
	if err := checkBinary("gtts-cli", "--version"); err != nil {
		return fmt.Errorf("%w: %w\n\nInstall with: pip install gTTS", speech.ErrEngineUnavailable, err)
	}
	if err := checkBinary("ffmpeg", "-version"); err != nil {
		return fmt.Errorf("%w: %w\n\nInstall ffmpeg for audio conversion", speech.ErrEngineUnavailable, err)
	}
	return nil
}

// Close is a no-op.
func (g *GTTS) Close() error {
	return nil
}

var _ speech.Backend = (*GTTS)(nil)
