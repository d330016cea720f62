package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// Clip records one call to MockPlayer.Play.
type Clip struct {
	Data   []byte
	Volume float64
}

// MockPlayer simulates playback without an audio device. Clips "play" for
// their real duration scaled by Speed.
type MockPlayer struct {
	mu      sync.Mutex
	config  Config
	state   State
	volume  float64
	clips   []Clip
	done    chan struct{}
	timer   *time.Timer
	stops   int
	playErr error

	// Speed divides simulated clip durations. Zero finishes clips
	// immediately.
	Speed float64

	// OnPlay, if set, is called after each successful Play.
	OnPlay func(Clip)
}

// NewMockPlayer returns a stopped mock player at full volume.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{
		config: DefaultConfig(),
		state:  StateStopped,
		volume: 1,
	}
}

// FailPlay makes subsequent Play calls return err. A nil err restores
// normal behavior.
func (m *MockPlayer) FailPlay(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// Play implements the player contract.
func (m *MockPlayer) Play(pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrPlayerClosed
	}
	if m.playErr != nil {
		err := m.playErr
		m.mu.Unlock()
		return err
	}
	m.stopLocked()

	clip := Clip{Data: append([]byte(nil), pcm...), Volume: m.volume}
	m.clips = append(m.clips, clip)
	m.state = StatePlaying

	done := make(chan struct{})
	m.done = done
	d := m.scaled(m.config.Duration(len(pcm)))
	m.timer = time.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.done == done {
			m.finishLocked()
		}
	})
	onPlay := m.OnPlay
	m.mu.Unlock()

	if onPlay != nil {
		onPlay(clip)
	}
	return nil
}

func (m *MockPlayer) scaled(d time.Duration) time.Duration {
	if m.Speed <= 0 {
		return 0
	}
	return time.Duration(float64(d) / m.Speed)
}

// Wait blocks until the current clip finishes or ctx is done.
func (m *MockPlayer) Wait(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		_ = m.Stop()
		return ctx.Err()
	}
}

// Stop halts the current clip.
func (m *MockPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	return nil
}

func (m *MockPlayer) stopLocked() {
	if m.state != StatePlaying {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.stops++
	m.finishLocked()
}

func (m *MockPlayer) finishLocked() {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	m.timer = nil
	if m.state == StatePlaying {
		m.state = StateStopped
	}
}

// SetVolume implements the player contract.
func (m *MockPlayer) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 || math.IsNaN(volume) {
		return fmt.Errorf("%v: %w", volume, ErrInvalidVolume)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
	return nil
}

// Volume returns the current volume.
func (m *MockPlayer) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// IsPlaying reports whether a clip is playing.
func (m *MockPlayer) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StatePlaying
}

// State returns the current state.
func (m *MockPlayer) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close stops playback and rejects further clips.
func (m *MockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.state = StateClosed
	return nil
}

// Clips returns every clip played so far.
func (m *MockPlayer) Clips() []Clip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Clip(nil), m.clips...)
}

// Stops returns how many clips were interrupted.
func (m *MockPlayer) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// ErrSimulated is a ready-made error for FailPlay.
var ErrSimulated = errors.New("simulated playback error")
