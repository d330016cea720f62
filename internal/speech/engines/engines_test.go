package engines

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/dgnsrekt/memegen/internal/speech"
)

func writeModel(t *testing.T, dir, name, config string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".onnx"), []byte("model"), 0o644); err != nil {
		t.Fatal(err)
	}
	if config == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name+".onnx.json"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
}

// fakeBinary writes a script that prints n zero bytes.
func fakeBinary(t *testing.T, n int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "piper")
	script := "#!/bin/sh\ncat > /dev/null\nhead -c " + strconv.Itoa(n) + " /dev/zero\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewPiperVoices(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "en_US-lessac-medium", `{"language":{"code":"en_US"},"audio":{"sample_rate":22050}}`)
	writeModel(t, dir, "fr_FR-siwis-low", `{"language":{"code":"fr_FR"},"audio":{"sample_rate":16000}}`)
	writeModel(t, dir, "broken", "")

	p, err := NewPiper(PiperConfig{VoicesDir: dir, Model: "fr_FR-siwis-low"})
	if err != nil {
		t.Fatalf("NewPiper failed: %v", err)
	}

	voices := p.Voices()
	if len(voices) != 2 {
		t.Fatalf("got %d voices, want 2 (model without config skipped)", len(voices))
	}

	tests := []struct {
		name        string
		wantLang    string
		wantDefault bool
	}{
		{"en_US-lessac-medium", "en-US", false},
		{"fr_FR-siwis-low", "fr-FR", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := speech.FindVoice(voices, tt.name)
			if !ok {
				t.Fatalf("voice %s missing", tt.name)
			}
			if v.Lang != tt.wantLang {
				t.Errorf("Lang = %q, want %q", v.Lang, tt.wantLang)
			}
			if v.Default != tt.wantDefault {
				t.Errorf("Default = %v, want %v", v.Default, tt.wantDefault)
			}
		})
	}
}

func TestNewPiperErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewPiper(PiperConfig{}); !errors.Is(err, speech.ErrEngineUnavailable) {
		t.Errorf("empty dir: err = %v, want ErrEngineUnavailable", err)
	}
	if _, err := NewPiper(PiperConfig{VoicesDir: dir}); !errors.Is(err, speech.ErrEngineUnavailable) {
		t.Errorf("no models: err = %v, want ErrEngineUnavailable", err)
	}

	writeModel(t, dir, "en_US-amy-low", `{"language":{"code":"en_US"}}`)
	if _, err := NewPiper(PiperConfig{VoicesDir: dir, Model: "nope"}); !errors.Is(err, speech.ErrVoiceNotFound) {
		t.Errorf("unknown default: err = %v, want ErrVoiceNotFound", err)
	}
}

func TestPiperSynthesize(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "en_US-amy-low", `{"language":{"code":"en_US"},"audio":{"sample_rate":16000}}`)
	writeModel(t, dir, "en_US-lessac-medium", `{"language":{"code":"en_US"},"audio":{"sample_rate":22050}}`)

	p, err := NewPiper(PiperConfig{
		VoicesDir: dir,
		Model:     "en_US-lessac-medium",
		Binary:    fakeBinary(t, 3200),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	pcm, err := p.Synthesize(ctx, "hello", nil)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(pcm) != 3200 {
		t.Errorf("default voice: got %d bytes, want 3200", len(pcm))
	}

	low, _ := speech.FindVoice(p.Voices(), "en_US-amy-low")
	pcm, err = p.Synthesize(ctx, "hello", low)
	if err != nil {
		t.Fatal(err)
	}
	// 1600 samples at 16kHz become 2205 samples at 22.05kHz.
	if len(pcm) != 2205*2 {
		t.Errorf("resampled voice: got %d bytes, want %d", len(pcm), 2205*2)
	}

	if _, err := p.Synthesize(ctx, "  ", nil); !errors.Is(err, speech.ErrEmptyText) {
		t.Errorf("blank text: err = %v, want ErrEmptyText", err)
	}
	if _, err := p.Synthesize(ctx, "hi", &speech.Voice{Name: "ghost"}); !errors.Is(err, speech.ErrVoiceNotFound) {
		t.Errorf("unknown voice: err = %v, want ErrVoiceNotFound", err)
	}
}

func TestGTTSVoices(t *testing.T) {
	g, err := NewGTTS(GTTSConfig{Language: "es", Languages: []string{"en", "es", " ", "fr"}})
	if err != nil {
		t.Fatal(err)
	}

	voices := g.Voices()
	if len(voices) != 3 {
		t.Fatalf("got %d voices, want 3: %+v", len(voices), voices)
	}
	def, ok := speech.DefaultVoice(voices)
	if !ok || def.Name != "es" {
		t.Errorf("default voice = %+v, want es", def)
	}
	if !g.Info().IsOnline {
		t.Error("gtts should report as online")
	}

	if _, err := g.Synthesize(context.Background(), "hola", &speech.Voice{Name: "de"}); !errors.Is(err, speech.ErrVoiceNotFound) {
		t.Errorf("unknown language: err = %v, want ErrVoiceNotFound", err)
	}
}

func TestMockSynthesize(t *testing.T) {
	m := NewMock(MockConfig{SecondsPerWord: 0.1})
	amelie, _ := speech.FindVoice(m.Voices(), "Amelie")

	pcm, err := m.Synthesize(context.Background(), "one small caption", amelie)
	if err != nil {
		t.Fatal(err)
	}
	// 3 words * 0.1s * 44100Hz * 2 bytes
	if len(pcm) != 26460 {
		t.Errorf("len(pcm) = %d, want 26460", len(pcm))
	}

	calls := m.Calls()
	if len(calls) != 1 || calls[0].Voice != "Amelie" {
		t.Errorf("calls = %+v", calls)
	}

	boom := errors.New("boom")
	m.FailWith(boom)
	if _, err := m.Synthesize(context.Background(), "again", nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want injected failure", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Synthesize(ctx, "late", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"piper", NamePiper, false},
		{" GTTS ", NameGTTS, false},
		{"google", NameGTTS, false},
		{"mock", NameMock, false},
		{"", "", true},
		{"espeak", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateSelection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, speech.ErrInvalidEngine) {
				t.Errorf("err = %v, want ErrInvalidEngine", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFactory(t *testing.T) {
	b, err := New("mock", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if b.Info().Name != NameMock {
		t.Errorf("Info().Name = %q", b.Info().Name)
	}
	if _, err := New("piper", Config{}); !errors.Is(err, speech.ErrEngineUnavailable) {
		t.Errorf("unconfigured piper: err = %v", err)
	}
}
