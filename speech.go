package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/audio"
	"github.com/dgnsrekt/memegen/internal/audio/device"
	"github.com/dgnsrekt/memegen/internal/cache"
	"github.com/dgnsrekt/memegen/internal/speech"
	"github.com/dgnsrekt/memegen/internal/speech/engines"
	"github.com/spf13/viper"
)

// engineConfig reads the per-engine settings.
func engineConfig() (engines.Config, error) {
	voicesDir, err := expandPath(viper.GetString("tts.piper.voices_dir"))
	if err != nil {
		return engines.Config{}, err
	}
	return engines.Config{
		Piper: engines.PiperConfig{
			VoicesDir: voicesDir,
			Model:     viper.GetString("tts.piper.model"),
			Binary:    viper.GetString("tts.piper.binary"),
		},
		GTTS: engines.GTTSConfig{
			Language:          viper.GetString("tts.gtts.language"),
			Languages:         viper.GetStringSlice("tts.gtts.languages"),
			Slow:              viper.GetBool("tts.gtts.slow"),
			RequestsPerMinute: viper.GetInt("tts.gtts.requests_per_minute"),
		},
	}, nil
}

func newBackend(name string) (speech.Backend, error) {
	cfg, err := engineConfig()
	if err != nil {
		return nil, err
	}
	backend, err := engines.New(name, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to start %s: %w", name, err)
	}
	return backend, nil
}

func audioConfig() audio.Config {
	cfg := audio.DefaultConfig()
	cfg.SampleRate = viper.GetInt("audio.sample_rate")
	cfg.BufferSize = viper.GetInt("audio.buffer_size")
	return cfg
}

// newPlayer opens the audio device. The mock engine only produces silence,
// so it plays on a mock player and works without a sound card.
func newPlayer(engine string) (speech.Player, int, error) {
	cfg := audioConfig()
	if engine == engines.NameMock {
		return audio.NewMockPlayer(), cfg.SampleRate, nil
	}
	p, err := device.NewPlayer(cfg)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to open audio device: %w", err)
	}
	return p, cfg.SampleRate, nil
}

func newCache() (*cache.Manager, error) {
	cfg := cache.DefaultConfig()
	if dir := viper.GetString("tts.cache.dir"); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return nil, err
		}
		cfg.Dir = expanded
	}
	cfg.MemoryCapacity = viper.GetInt64("tts.cache.memory_mb") << 20
	cfg.DiskCapacity = viper.GetInt64("tts.cache.disk_mb") << 20
	cfg.TTL = viper.GetDuration("tts.cache.ttl")
	return cache.NewManager(cfg)
}

// cachedSynthesizer closes its cache after the synthesizer stops.
type cachedSynthesizer struct {
	*speech.Synthesizer
	cache *cache.Manager
}

func (s *cachedSynthesizer) Close() error {
	return errors.Join(s.Synthesizer.Close(), s.cache.Close())
}

// newSynthesizer wires the named engine to the audio device and the speech
// cache. With fallback set, an engine that is not installed is replaced by
// the silent mock engine, and a missing audio device by the mock player, so
// the editor still starts.
func newSynthesizer(name string, fallback bool) (*cachedSynthesizer, error) {
	backend, err := newBackend(name)
	if err != nil && fallback && errors.Is(err, speech.ErrEngineUnavailable) {
		log.Warn("Speech engine unavailable, falling back to mock", "engine", name, "err", err)
		fmt.Fprintf(os.Stderr, "%s is unavailable, captions will not be read aloud: %v\n", name, err)
		name = engines.NameMock
		backend, err = newBackend(name)
	}
	if err != nil {
		return nil, err
	}

	player, rate, err := newPlayer(name)
	if err != nil && fallback {
		log.Warn("Audio device unavailable, speech will be silent", "err", err)
		fmt.Fprintf(os.Stderr, "captions will not be read aloud: %v\n", err)
		player, rate, err = audio.NewMockPlayer(), audioConfig().SampleRate, nil
	}
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	mgr, err := newCache()
	if err != nil {
		_ = backend.Close()
		_ = player.Close()
		return nil, fmt.Errorf("unable to open speech cache: %w", err)
	}

	synth, err := speech.NewSynthesizer(backend, player,
		speech.WithCache(mgr),
		speech.WithOutputRate(rate),
		speech.WithTimeout(viper.GetDuration("tts.timeout")),
	)
	if err != nil {
		_ = backend.Close()
		_ = player.Close()
		_ = mgr.Close()
		return nil, err
	}

	log.Debug("speech ready", "engine", name, "voices", len(synth.Voices()), "cache", mgr.Stats())
	return &cachedSynthesizer{Synthesizer: synth, cache: mgr}, nil
}
