package engines

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/audio"
	"github.com/dgnsrekt/memegen/internal/speech"
	homedir "github.com/mitchellh/go-homedir"
)

const (
	piperSampleRate  = 22050
	piperMaxTextSize = 5000
)

// PiperConfig configures the Piper engine.
type PiperConfig struct {
	// VoicesDir holds *.onnx models with their .onnx.json configs.
	VoicesDir string `mapstructure:"voices_dir"`

	// Model is the default voice name, the model file name without
	// extension. Empty picks the first model.
	Model string `mapstructure:"model"`

	// Binary overrides the piper executable.
	Binary string `mapstructure:"binary"`
}

// Piper synthesizes speech offline with the piper CLI. Each model in the
// voices directory is one voice.
type Piper struct {
	binary string
	voices []speech.Voice
	rates  map[string]int // model path to sample rate
}

type piperModelConfig struct {
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
	Audio struct {
		SampleRate int `json:"sample_rate"`
	} `json:"audio"`
}

// NewPiper scans cfg.VoicesDir for models.
func NewPiper(cfg PiperConfig) (*Piper, error) {
	if cfg.VoicesDir == "" {
		return nil, fmt.Errorf("piper voices directory not configured: %w", speech.ErrEngineUnavailable)
	}
	dir, err := homedir.Expand(cfg.VoicesDir)
	if err != nil {
		return nil, fmt.Errorf("unable to expand voices directory: %w", err)
	}

	models, err := filepath.Glob(filepath.Join(dir, "*.onnx"))
	if err != nil {
		return nil, fmt.Errorf("unable to list piper models: %w", err)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no piper models in %s: %w", dir, speech.ErrEngineUnavailable)
	}
	sort.Strings(models)

	p := &Piper{
		binary: cfg.Binary,
		rates:  make(map[string]int, len(models)),
	}
	if p.binary == "" {
		p.binary = "piper"
	}

	defaultModel := cfg.Model
	if defaultModel == "" {
		defaultModel = modelName(models[0])
	}

	found := false
	for _, path := range models {
		mc, err := readPiperConfig(path + ".json")
		if err != nil {
			log.Warn("skipping piper model without usable config", "model", path, "error", err)
			continue
		}

		name := modelName(path)
		v := speech.Voice{
			ID:      path,
			Name:    name,
			Lang:    strings.ReplaceAll(mc.Language.Code, "_", "-"),
			Default: name == defaultModel,
		}
		found = found || v.Default
		p.voices = append(p.voices, v)
		p.rates[path] = mc.Audio.SampleRate
	}

	if len(p.voices) == 0 {
		return nil, fmt.Errorf("no usable piper models in %s: %w", dir, speech.ErrEngineUnavailable)
	}
	if !found {
		return nil, fmt.Errorf("piper model %q: %w", defaultModel, speech.ErrVoiceNotFound)
	}

	log.Debug("piper voices loaded", "dir", dir, "count", len(p.voices), "default", defaultModel)
	return p, nil
}

func modelName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".onnx")
}

func readPiperConfig(path string) (piperModelConfig, error) {
	var mc piperModelConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return mc, err
	}
	if err := json.Unmarshal(data, &mc); err != nil {
		return mc, fmt.Errorf("invalid model config: %w", err)
	}
	if mc.Audio.SampleRate == 0 {
		mc.Audio.SampleRate = piperSampleRate
	}
	return mc, nil
}

// Synthesize runs piper with the voice's model and returns 22050Hz PCM.
func (p *Piper) Synthesize(ctx context.Context, text string, voice *speech.Voice) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, speech.ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); n > piperMaxTextSize {
		return nil, fmt.Errorf("text too long: %d characters (max %d)", n, piperMaxTextSize)
	}

	v, err := p.resolve(voice)
	if err != nil {
		return nil, err
	}

	pcm, err := runCommand(ctx, strings.NewReader(text), p.binary,
		"--model", v.ID,
		"--config", v.ID+".json",
		"--output-raw",
	)
	if err != nil {
		return nil, err
	}

	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}
	if rate := p.rates[v.ID]; rate != piperSampleRate {
		return audio.Resample(pcm, rate, piperSampleRate)
	}
	return pcm, nil
}

func (p *Piper) resolve(voice *speech.Voice) (*speech.Voice, error) {
	if voice == nil {
		v, _ := speech.DefaultVoice(p.voices)
		return v, nil
	}
	v, ok := speech.FindVoice(p.voices, voice.Name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", voice.Name, speech.ErrVoiceNotFound)
	}
	return v, nil
}

// Voices returns one voice per model.
func (p *Piper) Voices() []speech.Voice {
	return append([]speech.Voice(nil), p.voices...)
}

// Info describes piper output.
func (p *Piper) Info() speech.EngineInfo {
	return speech.EngineInfo{
		Name:        "piper",
		SampleRate:  piperSampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: piperMaxTextSize,
	}
}

// Validate checks that the piper binary runs.
func (p *Piper) Validate() error {
	if err := checkBinary(p.binary, "--version"); err != nil {
		return fmt.Errorf("%w: %w", speech.ErrEngineUnavailable, err)
	}
	return nil
}

// Close is a no-op; piper runs one process per utterance.
func (p *Piper) Close() error {
	return nil
}

var _ speech.Backend = (*Piper)(nil)
