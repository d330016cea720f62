//go:build nocgo || !(cgo || darwin || windows)

package device

import (
	"errors"
	"testing"

	"github.com/dgnsrekt/memegen/internal/audio"
)

func TestNewPlayerWithoutDevice(t *testing.T) {
	p, err := NewPlayer(audio.DefaultConfig())
	if !errors.Is(err, audio.ErrNoDevice) {
		t.Fatalf("NewPlayer() error = %v, want ErrNoDevice", err)
	}
	if p != nil {
		t.Errorf("NewPlayer() = %v, want nil", p)
	}
}
