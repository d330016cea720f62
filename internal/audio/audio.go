package audio

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyAudio is returned when Play is given no samples.
	ErrEmptyAudio = errors.New("audio data is empty")

	// ErrPlayerClosed is returned by operations on a closed player.
	ErrPlayerClosed = errors.New("player is closed")

	// ErrInvalidVolume is returned for volumes outside [0, 1].
	ErrInvalidVolume = errors.New("volume must be between 0.0 and 1.0")

	// ErrNoDevice is returned when the build has no audio device support.
	ErrNoDevice = errors.New("audio device not available in this build")
)

// State is the playback state of a player.
type State int32

const (
	StateStopped State = iota
	StatePlaying
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config describes the PCM format a player accepts.
type Config struct {
	SampleRate int // 44100 or 48000 Hz
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // always 16
	BufferSize int // bytes
}

// DefaultConfig returns mono 16-bit audio at 44.1kHz.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Channels:   1,
		BitDepth:   16,
		BufferSize: 4096,
	}
}

// Validate checks that the format is one oto plays reliably.
func (c Config) Validate() error {
	if c.SampleRate != 44100 && c.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", c.SampleRate)
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", c.Channels)
	}
	if c.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 16, got %d", c.BitDepth)
	}
	if c.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	return nil
}

// Duration returns the playback length of n bytes of PCM in this format.
func (c Config) Duration(n int) time.Duration {
	frame := c.Channels * c.BitDepth / 8
	if frame == 0 || c.SampleRate == 0 {
		return 0
	}
	return time.Duration(n/frame) * time.Second / time.Duration(c.SampleRate)
}
