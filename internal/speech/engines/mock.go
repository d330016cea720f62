package engines

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dgnsrekt/memegen/internal/speech"
)

const mockSampleRate = 44100

// MockConfig configures the mock engine.
type MockConfig struct {
	// Voices replaces the default voice list.
	Voices []speech.Voice

	// SecondsPerWord sizes the silent output. Zero uses 0.05.
	SecondsPerWord float64
}

// DefaultMockVoices is the voice list used when none is configured.
func DefaultMockVoices() []speech.Voice {
	return []speech.Voice{
		{ID: "alex", Name: "Alex", Lang: "en-US", Default: true},
		{ID: "amelie", Name: "Amelie", Lang: "fr-CA"},
		{ID: "daniel", Name: "Daniel", Lang: "en-GB"},
	}
}

// MockCall records one Synthesize call.
type MockCall struct {
	Text  string
	Voice string
}

// Mock returns silence sized by word count. It needs no external tools.
type Mock struct {
	voices         []speech.Voice
	secondsPerWord float64

	mu    sync.Mutex
	calls []MockCall
	err   error
}

// NewMock returns a mock engine.
func NewMock(cfg MockConfig) *Mock {
	voices := cfg.Voices
	if voices == nil {
		voices = DefaultMockVoices()
	}
	spw := cfg.SecondsPerWord
	if spw <= 0 {
		spw = 0.05
	}
	return &Mock{voices: voices, secondsPerWord: spw}
}

// FailWith makes Synthesize return err until called again with nil.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Synthesize records the call and returns silent PCM.
func (m *Mock) Synthesize(ctx context.Context, text string, voice *speech.Voice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, speech.ErrEmptyText
	}

	name := ""
	if voice != nil {
		if _, ok := speech.FindVoice(m.voices, voice.Name); !ok {
			return nil, fmt.Errorf("%s: %w", voice.Name, speech.ErrVoiceNotFound)
		}
		name = voice.Name
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Text: text, Voice: name})
	if m.err != nil {
		return nil, m.err
	}

	words := len(strings.Fields(text))
	samples := int(float64(words) * m.secondsPerWord * mockSampleRate)
	return make([]byte, samples*2), nil
}

// Calls returns every Synthesize call so far.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// Voices returns the configured voices.
func (m *Mock) Voices() []speech.Voice {
	return append([]speech.Voice(nil), m.voices...)
}

// Info describes mock output.
func (m *Mock) Info() speech.EngineInfo {
	return speech.EngineInfo{
		Name:        "mock",
		SampleRate:  mockSampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: 5000,
	}
}

// Validate always succeeds.
func (m *Mock) Validate() error { return nil }

// Close is a no-op.
func (m *Mock) Close() error { return nil }

var _ speech.Backend = (*Mock)(nil)
