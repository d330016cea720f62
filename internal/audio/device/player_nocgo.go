//go:build nocgo || !(cgo || darwin || windows)

package device

import (
	"context"
	"fmt"

	"github.com/dgnsrekt/memegen/internal/audio"
)

// Player is a stand-in for builds without audio device support. NewPlayer
// never returns one.
type Player struct {
	config audio.Config
}

// NewPlayer validates config and reports that no device is available.
func NewPlayer(config audio.Config) (*Player, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return nil, audio.ErrNoDevice
}

func (p *Player) Config() audio.Config       { return p.config }
func (p *Player) Play([]byte) error          { return audio.ErrNoDevice }
func (p *Player) Wait(context.Context) error { return nil }
func (p *Player) Stop() error                { return nil }
func (p *Player) SetVolume(float64) error    { return audio.ErrNoDevice }
func (p *Player) Volume() float64            { return 0 }
func (p *Player) IsPlaying() bool            { return false }
func (p *Player) State() audio.State         { return audio.StateClosed }
func (p *Player) Close() error               { return nil }
