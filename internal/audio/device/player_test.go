package device

import (
	"testing"

	"github.com/dgnsrekt/memegen/internal/audio"
)

func TestNewPlayerRejectsInvalidConfig(t *testing.T) {
	if _, err := NewPlayer(audio.Config{SampleRate: 8000}); err == nil {
		t.Fatal("expected error for invalid config")
	}
}
