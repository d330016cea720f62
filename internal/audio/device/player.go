//go:build !nocgo && (cgo || darwin || windows)

package device

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/audio"
	"github.com/ebitengine/oto/v3"
)

// Player plays one clip at a time through an oto context. oto allows a
// single context per process, so create one Player and share it.
type Player struct {
	context *oto.Context
	config  audio.Config

	mu     sync.Mutex
	player *oto.Player
	// data must outlive the oto player reading from it.
	data []byte

	state  atomic.Int32
	volume atomic.Uint64
}

// NewPlayer opens the audio device.
func NewPlayer(config audio.Config) (*Player, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   config.Duration(config.BufferSize),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	p := &Player{context: ctx, config: config}
	p.state.Store(int32(audio.StateStopped))
	p.volume.Store(math.Float64bits(1))
	return p, nil
}

// Config returns the player's PCM format.
func (p *Player) Config() audio.Config {
	return p.config
}

// Play stops any current clip and starts playing pcm.
func (p *Player) Play(pcm []byte) error {
	if len(pcm) == 0 {
		return audio.ErrEmptyAudio
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if audio.State(p.state.Load()) == audio.StateClosed {
		return audio.ErrPlayerClosed
	}
	p.stopLocked()

	data := make([]byte, len(pcm))
	copy(data, pcm)

	player := p.context.NewPlayer(bytes.NewReader(data))
	player.SetVolume(p.Volume())
	player.Play()

	p.player = player
	p.data = data
	p.state.Store(int32(audio.StatePlaying))

	log.Debug("playing audio", "bytes", len(data), "duration", p.config.Duration(len(data)))
	return nil
}

// Wait blocks until the current clip finishes or ctx is done. A cancelled
// wait stops playback.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !p.refresh() {
			return nil
		}
		select {
		case <-ctx.Done():
			_ = p.Stop()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// refresh reports whether a clip is still playing, releasing it once oto
// has drained it.
func (p *Player) refresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return false
	}
	if p.player.IsPlaying() {
		return true
	}
	if err := p.player.Err(); err != nil {
		log.Warn("audio playback error", "error", err)
	}
	p.stopLocked()
	return false
}

// Stop halts playback. Stopping an idle player is a no-op.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	return nil
}

func (p *Player) stopLocked() {
	if p.player != nil {
		p.player.Pause()
		if err := p.player.Close(); err != nil {
			log.Debug("unable to close oto player", "error", err)
		}
		p.player = nil
	}
	p.data = nil
	if audio.State(p.state.Load()) == audio.StatePlaying {
		p.state.Store(int32(audio.StateStopped))
	}
}

// SetVolume sets the volume for the current and future clips.
func (p *Player) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 || math.IsNaN(volume) {
		return fmt.Errorf("%v: %w", volume, audio.ErrInvalidVolume)
	}
	p.volume.Store(math.Float64bits(volume))

	p.mu.Lock()
	if p.player != nil {
		p.player.SetVolume(volume)
	}
	p.mu.Unlock()
	return nil
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	return math.Float64frombits(p.volume.Load())
}

// IsPlaying reports whether a clip is playing.
func (p *Player) IsPlaying() bool {
	return p.refresh()
}

// State returns the current state.
func (p *Player) State() audio.State {
	return audio.State(p.state.Load())
}

// Close stops playback and marks the player unusable. The oto context
// itself lives until the process exits.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.state.Store(int32(audio.StateClosed))
	return nil
}
