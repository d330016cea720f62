// Package meme implements the interaction state machine of the meme
// editor: which controls are enabled, the captured caption, the playback
// volume, and the draw and speak commands issued for each user event.
package meme

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/fit"
	"github.com/dgnsrekt/memegen/internal/speech"
)

// Default caption baselines, measured from the top and bottom edges.
const (
	DefaultTopOffset    = 50
	DefaultBottomOffset = 20
)

// ErrNilCollaborator is returned by NewController when a required
// collaborator is missing.
var ErrNilCollaborator = errors.New("collaborator cannot be nil")

// Controller owns the control state, caption and volume for one editing
// session and turns events into surface and speaker commands. It is not
// safe for concurrent use; events are expected on a single goroutine.
type Controller struct {
	surface Surface
	speaker Speaker
	form    Form

	controls  ControlState
	caption   Caption
	volume    Volume
	tier      VolumeTier
	placement fit.Placement
	hasImage  bool

	fitMode      fit.Mode
	topOffset    float64
	bottomOffset float64
	resetOnLoad  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithFitMode selects how loaded images are fitted to the surface.
func WithFitMode(mode fit.Mode) Option {
	return func(c *Controller) {
		c.fitMode = mode
	}
}

// WithCaptionOffsets sets the caption baselines, measured from the top
// and bottom edges of the surface.
func WithCaptionOffsets(top, bottom float64) Option {
	return func(c *Controller) {
		c.topOffset = top
		c.bottomOffset = bottom
	}
}

// WithResetOnLoad makes ImageLoaded reset the controls and caption.
func WithResetOnLoad() Option {
	return func(c *Controller) {
		c.resetOnLoad = true
	}
}

// NewController returns a controller in its initial state: only Generate
// enabled, no caption, full volume.
func NewController(surface Surface, speaker Speaker, form Form, opts ...Option) (*Controller, error) {
	if surface == nil {
		return nil, fmt.Errorf("surface: %w", ErrNilCollaborator)
	}
	if speaker == nil {
		return nil, fmt.Errorf("speaker: %w", ErrNilCollaborator)
	}
	if form == nil {
		return nil, fmt.Errorf("form: %w", ErrNilCollaborator)
	}

	c := &Controller{
		surface:      surface,
		speaker:      speaker,
		form:         form,
		controls:     InitialControls(),
		volume:       MaxVolume,
		tier:         TierForPercent(100),
		fitMode:      fit.ModeLetterbox,
		topOffset:    DefaultTopOffset,
		bottomOffset: DefaultBottomOffset,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Bind registers the controller's handlers with an event source.
func (c *Controller) Bind(src EventSource) {
	src.OnImageLoaded(func(img Image) {
		if err := c.ImageLoaded(img); err != nil {
			log.Error("unable to draw image", "error", err)
		}
	})
	src.OnSubmit(c.Submit)
	src.OnClear(c.Clear)
	src.OnRead(c.Read)
	src.OnVolumeChange(c.VolumeChanged)
}

// ImageLoaded paints the background and draws img fitted to the surface.
// Controls and caption are left as they are unless WithResetOnLoad was
// given. Images with non-positive dimensions leave the surface untouched.
func (c *Controller) ImageLoaded(img Image) error {
	target := c.surface.Size()
	source := fit.Rectangle{Width: float64(img.Width()), Height: float64(img.Height())}

	placement, err := fit.Fit(c.fitMode, target, source)
	if err != nil {
		return fmt.Errorf("unable to fit image: %w", err)
	}
	if placement.Overflows(target) {
		log.Debug("placement overflows surface", "placement", placement, "mode", c.fitMode)
	}

	c.surface.FillRect(target)
	c.surface.DrawImage(img, placement)
	c.placement = placement
	c.hasImage = true

	if c.resetOnLoad {
		c.controls = InitialControls()
		c.caption = Caption{}
	}

	log.Debug("image loaded", "width", img.Width(), "height", img.Height(), "placement", placement)
	return nil
}

// Submit captures the caption from the form, draws it and moves to the
// generated state. It is accepted even when both lines are empty.
func (c *Controller) Submit() {
	c.caption = c.form.Caption()

	size := c.surface.Size()
	c.surface.DrawText(c.caption.Top, size.Width/2, c.topOffset)
	c.surface.DrawText(c.caption.Bottom, size.Width/2, size.Height-c.bottomOffset)

	c.controls.Generate = false
	c.controls.Clear = true
	c.controls.Read = true
	c.controls.VoiceSelection = true

	log.Debug("caption generated", "top", c.caption.Top, "bottom", c.caption.Bottom, "controls", c.controls)
}

// Clear wipes the surface and re-enables Generate. Voice selection keeps
// whatever state it had.
func (c *Controller) Clear() {
	c.surface.ClearRect(c.surface.Size())

	c.controls.Generate = true
	c.controls.Clear = false
	c.controls.Read = false

	log.Debug("surface cleared", "controls", c.controls)
}

// Read speaks the top caption and then the bottom caption at the current
// volume. A selected voice that the speaker does not offer falls back to
// the default voice.
func (c *Controller) Read() {
	top, bottom := c.Utterances()
	c.speaker.Speak(top)
	c.speaker.Speak(bottom)

	log.Debug("caption queued for speech", "voice", top.VoiceName(), "volume", float64(c.volume))
}

// Utterances builds the two utterances Read would submit.
func (c *Controller) Utterances() (top, bottom speech.Utterance) {
	top = speech.NewUtterance(c.caption.Top)
	bottom = speech.NewUtterance(c.caption.Bottom)
	top.Volume = float64(c.volume)
	bottom.Volume = float64(c.volume)

	name := c.form.SelectedVoice()
	if voice, ok := speech.FindVoice(c.speaker.Voices(), name); ok {
		top.Voice = voice
		bottom.Voice = voice
	} else if name != "" {
		log.Debug("selected voice not available, using default", "voice", name)
	}
	return top, bottom
}

// VolumeChanged updates the volume and icon tier from a slider percentage.
func (c *Controller) VolumeChanged(percent int) {
	c.volume = VolumeFromPercent(percent)
	c.tier = TierForPercent(percent)
	log.Debug("volume changed", "percent", percent, "tier", c.tier)
}

// Allowed reports whether the control for a is currently enabled.
func (c *Controller) Allowed(a Action) bool {
	return c.controls.Enabled(a)
}

// Controls returns the current control state.
func (c *Controller) Controls() ControlState { return c.controls }

// Caption returns the caption captured by the last Submit.
func (c *Controller) Caption() Caption { return c.caption }

// Volume returns the current playback volume.
func (c *Controller) Volume() Volume { return c.volume }

// Tier returns the current volume icon tier.
func (c *Controller) Tier() VolumeTier { return c.tier }

// Placement returns the placement of the last loaded image and whether an
// image has been loaded.
func (c *Controller) Placement() (fit.Placement, bool) { return c.placement, c.hasImage }

// FitMode returns the configured fit mode.
func (c *Controller) FitMode() fit.Mode { return c.fitMode }
