package meme

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dgnsrekt/memegen/internal/fit"
	"github.com/dgnsrekt/memegen/internal/speech"
)

// recordingSurface records draw commands as strings.
type recordingSurface struct {
	size     fit.Rectangle
	commands []string
}

func (s *recordingSurface) Size() fit.Rectangle { return s.size }

func (s *recordingSurface) FillRect(r fit.Rectangle) {
	s.commands = append(s.commands, fmt.Sprintf("fill %gx%g", r.Width, r.Height))
}

func (s *recordingSurface) ClearRect(r fit.Rectangle) {
	s.commands = append(s.commands, fmt.Sprintf("clear %gx%g", r.Width, r.Height))
}

func (s *recordingSurface) DrawImage(img Image, p fit.Placement) {
	s.commands = append(s.commands, fmt.Sprintf("image %dx%d at %v", img.Width(), img.Height(), p))
}

func (s *recordingSurface) DrawText(text string, x, y float64) {
	s.commands = append(s.commands, fmt.Sprintf("text %q at %g,%g", text, x, y))
}

type recordingSpeaker struct {
	voices []speech.Voice
	spoken []speech.Utterance
}

func (s *recordingSpeaker) Voices() []speech.Voice { return s.voices }
func (s *recordingSpeaker) Speak(u speech.Utterance) {
	s.spoken = append(s.spoken, u)
}

type staticForm struct {
	caption Caption
	voice   string
}

func (f *staticForm) Caption() Caption      { return f.caption }
func (f *staticForm) SelectedVoice() string { return f.voice }

type testImage struct{ w, h int }

func (i testImage) Width() int  { return i.w }
func (i testImage) Height() int { return i.h }

func newTestController(t *testing.T, opts ...Option) (*Controller, *recordingSurface, *recordingSpeaker, *staticForm) {
	t.Helper()
	surface := &recordingSurface{size: fit.Rectangle{Width: 400, Height: 400}}
	speaker := &recordingSpeaker{voices: []speech.Voice{
		{Name: "Alex", Lang: "en-US", Default: true},
		{Name: "Amelie", Lang: "fr-CA"},
	}}
	form := &staticForm{}
	c, err := NewController(surface, speaker, form, opts...)
	if err != nil {
		t.Fatalf("NewController() unexpected error: %v", err)
	}
	return c, surface, speaker, form
}

func TestNewControllerInitialState(t *testing.T) {
	c, _, _, _ := newTestController(t)

	want := ControlState{Generate: true}
	if got := c.Controls(); got != want {
		t.Errorf("initial controls = %v, want %v", got, want)
	}
	if !c.Caption().Empty() {
		t.Errorf("initial caption = %+v, want empty", c.Caption())
	}
	if c.Volume() != 1 {
		t.Errorf("initial volume = %v, want 1", c.Volume())
	}
	if _, ok := c.Placement(); ok {
		t.Error("expected no placement before an image is loaded")
	}
}

func TestNewControllerNilCollaborators(t *testing.T) {
	surface := &recordingSurface{}
	speaker := &recordingSpeaker{}
	form := &staticForm{}

	tests := []struct {
		name    string
		surface Surface
		speaker Speaker
		form    Form
	}{
		{"nil surface", nil, speaker, form},
		{"nil speaker", surface, nil, form},
		{"nil form", surface, speaker, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewController(tt.surface, tt.speaker, tt.form)
			if !errors.Is(err, ErrNilCollaborator) {
				t.Errorf("NewController() error = %v, want ErrNilCollaborator", err)
			}
		})
	}
}

func TestImageLoadedDrawsBackgroundThenImage(t *testing.T) {
	c, surface, _, _ := newTestController(t)

	if err := c.ImageLoaded(testImage{w: 100, h: 400}); err != nil {
		t.Fatalf("ImageLoaded() unexpected error: %v", err)
	}

	want := []string{
		"fill 400x400",
		"image 100x400 at 100x400@(150,0)",
	}
	if len(surface.commands) != len(want) {
		t.Fatalf("commands = %v, want %v", surface.commands, want)
	}
	for i := range want {
		if surface.commands[i] != want[i] {
			t.Errorf("command %d = %q, want %q", i, surface.commands[i], want[i])
		}
	}

	if got := c.Controls(); got != InitialControls() {
		t.Errorf("controls changed on image load: %v", got)
	}
	p, ok := c.Placement()
	if !ok || p.Size.Width != 100 || p.Size.Height != 400 {
		t.Errorf("Placement() = %v, %v", p, ok)
	}
}

func TestImageLoadedRejectsInvalidDimensions(t *testing.T) {
	c, surface, _, _ := newTestController(t)

	err := c.ImageLoaded(testImage{w: 0, h: 10})
	if !errors.Is(err, fit.ErrInvalidDimensions) {
		t.Fatalf("ImageLoaded() error = %v, want ErrInvalidDimensions", err)
	}
	if len(surface.commands) != 0 {
		t.Errorf("surface should be untouched, got %v", surface.commands)
	}
}

func TestImageLoadedKeepsStateAfterSubmit(t *testing.T) {
	c, _, _, form := newTestController(t)
	form.caption = Caption{Top: "one", Bottom: "two"}
	c.Submit()

	if err := c.ImageLoaded(testImage{w: 10, h: 10}); err != nil {
		t.Fatalf("ImageLoaded() unexpected error: %v", err)
	}

	want := ControlState{Clear: true, Read: true, VoiceSelection: true}
	if got := c.Controls(); got != want {
		t.Errorf("controls = %v, want %v", got, want)
	}
	if got := c.Caption(); got != form.caption {
		t.Errorf("caption = %+v, want %+v", got, form.caption)
	}
}

func TestImageLoadedResetOnLoad(t *testing.T) {
	c, _, _, form := newTestController(t, WithResetOnLoad())
	form.caption = Caption{Top: "one"}
	c.Submit()

	if err := c.ImageLoaded(testImage{w: 10, h: 10}); err != nil {
		t.Fatalf("ImageLoaded() unexpected error: %v", err)
	}
	if got := c.Controls(); got != InitialControls() {
		t.Errorf("controls = %v, want initial", got)
	}
	if !c.Caption().Empty() {
		t.Errorf("caption = %+v, want empty", c.Caption())
	}
}

func TestImageLoadedFitModes(t *testing.T) {
	tests := []struct {
		mode fit.Mode
		want string
	}{
		{fit.ModeLetterbox, "image 600x600 at 800x800@(0,-100)"},
		{fit.ModeContain, "image 600x600 at 600x600@(100,0)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			c, surface, _, _ := newTestController(t, WithFitMode(tt.mode))
			surface.size = fit.Rectangle{Width: 800, Height: 600}

			if err := c.ImageLoaded(testImage{w: 600, h: 600}); err != nil {
				t.Fatalf("ImageLoaded() unexpected error: %v", err)
			}
			if got := surface.commands[len(surface.commands)-1]; got != tt.want {
				t.Errorf("draw command = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubmitDrawsCaptionAndEnablesControls(t *testing.T) {
	c, surface, _, form := newTestController(t)
	form.caption = Caption{Top: "ONE DOES NOT SIMPLY", Bottom: "WRITE GO"}

	c.Submit()

	want := []string{
		`text "ONE DOES NOT SIMPLY" at 200,50`,
		`text "WRITE GO" at 200,380`,
	}
	if len(surface.commands) != len(want) {
		t.Fatalf("commands = %v, want %v", surface.commands, want)
	}
	for i := range want {
		if surface.commands[i] != want[i] {
			t.Errorf("command %d = %q, want %q", i, surface.commands[i], want[i])
		}
	}

	wantControls := ControlState{Generate: false, Clear: true, Read: true, VoiceSelection: true}
	if got := c.Controls(); got != wantControls {
		t.Errorf("controls = %v, want %v", got, wantControls)
	}
	if got := c.Caption(); got != form.caption {
		t.Errorf("caption = %+v, want %+v", got, form.caption)
	}
}

func TestSubmitAcceptsEmptyCaption(t *testing.T) {
	c, surface, _, _ := newTestController(t)

	c.Submit()

	if len(surface.commands) != 2 {
		t.Errorf("expected two draw-text commands, got %v", surface.commands)
	}
	if c.Controls().Generate {
		t.Error("expected generate to be disabled after submit")
	}
}

func TestCustomCaptionOffsets(t *testing.T) {
	c, surface, _, form := newTestController(t, WithCaptionOffsets(40, 10))
	form.caption = Caption{Top: "a", Bottom: "b"}

	c.Submit()

	if surface.commands[0] != `text "a" at 200,40` || surface.commands[1] != `text "b" at 200,390` {
		t.Errorf("unexpected commands %v", surface.commands)
	}
}

func TestClearTransitions(t *testing.T) {
	c, surface, _, _ := newTestController(t)
	c.Submit()
	surface.commands = nil

	c.Clear()

	if len(surface.commands) != 1 || surface.commands[0] != "clear 400x400" {
		t.Errorf("commands = %v, want [clear 400x400]", surface.commands)
	}

	want := ControlState{Generate: true, Clear: false, Read: false, VoiceSelection: true}
	if got := c.Controls(); got != want {
		t.Errorf("controls = %v, want %v", got, want)
	}
}

func TestGenerateClearCycle(t *testing.T) {
	c, _, _, _ := newTestController(t)

	for i := 0; i < 3; i++ {
		c.Submit()
		if c.Allowed(ActionGenerate) || !c.Allowed(ActionClear) || !c.Allowed(ActionRead) || !c.Allowed(ActionSelectVoice) {
			t.Fatalf("cycle %d: unexpected controls after submit: %v", i, c.Controls())
		}
		c.Clear()
		if !c.Allowed(ActionGenerate) || c.Allowed(ActionClear) || c.Allowed(ActionRead) {
			t.Fatalf("cycle %d: unexpected controls after clear: %v", i, c.Controls())
		}
	}
}

func TestReadSpeaksBothLinesWithVolumeAndVoice(t *testing.T) {
	c, _, speaker, form := newTestController(t)
	form.caption = Caption{Top: "top text", Bottom: "bottom text"}
	form.voice = "Amelie"
	c.Submit()
	c.VolumeChanged(40)

	c.Read()

	if len(speaker.spoken) != 2 {
		t.Fatalf("spoken = %d utterances, want 2", len(speaker.spoken))
	}
	if speaker.spoken[0].Text != "top text" || speaker.spoken[1].Text != "bottom text" {
		t.Errorf("utterance order = %q, %q", speaker.spoken[0].Text, speaker.spoken[1].Text)
	}
	for i, u := range speaker.spoken {
		if u.Volume != 0.4 {
			t.Errorf("utterance %d volume = %v, want 0.4", i, u.Volume)
		}
		if u.Voice == nil || u.Voice.Name != "Amelie" {
			t.Errorf("utterance %d voice = %v, want Amelie", i, u.Voice)
		}
		if u.ID == "" {
			t.Errorf("utterance %d has no ID", i)
		}
	}
	if speaker.spoken[0].ID == speaker.spoken[1].ID {
		t.Error("expected distinct utterance IDs")
	}
}

func TestReadWithUnknownVoiceUsesDefault(t *testing.T) {
	c, _, speaker, form := newTestController(t)
	form.caption = Caption{Top: "a", Bottom: "b"}
	form.voice = "Nobody"
	c.Submit()

	c.Read()

	if len(speaker.spoken) != 2 {
		t.Fatalf("spoken = %d utterances, want 2", len(speaker.spoken))
	}
	for i, u := range speaker.spoken {
		if u.Voice != nil {
			t.Errorf("utterance %d voice = %v, want default (nil)", i, u.Voice)
		}
	}
}

func TestReadWithEmptyVoiceList(t *testing.T) {
	c, _, speaker, form := newTestController(t)
	speaker.voices = nil
	form.voice = "Alex"
	c.Submit()

	c.Read()

	if len(speaker.spoken) != 2 || speaker.spoken[0].Voice != nil {
		t.Errorf("unexpected utterances %+v", speaker.spoken)
	}
}

func TestReadUsesCapturedCaption(t *testing.T) {
	c, _, speaker, form := newTestController(t)
	form.caption = Caption{Top: "captured", Bottom: "text"}
	c.Submit()
	form.caption = Caption{Top: "edited", Bottom: "later"}

	c.Read()

	if speaker.spoken[0].Text != "captured" {
		t.Errorf("read %q, want the caption captured at submit", speaker.spoken[0].Text)
	}
}

func TestControlsAreUnchangedByRead(t *testing.T) {
	c, _, _, _ := newTestController(t)
	c.Submit()
	before := c.Controls()

	c.Read()
	c.VolumeChanged(10)

	if after := c.Controls(); after != before {
		t.Errorf("controls changed from %v to %v", before, after)
	}
}

func TestBindDispatchesEvents(t *testing.T) {
	c, surface, speaker, form := newTestController(t)
	form.caption = Caption{Top: "x", Bottom: "y"}

	d := NewDispatcher()
	c.Bind(d)

	d.ImageLoaded(testImage{w: 400, h: 100})
	d.Submit()
	d.VolumeChange(0)
	d.Read()
	d.Clear()

	if len(surface.commands) != 5 {
		t.Errorf("commands = %v, want fill, image, two texts and clear", surface.commands)
	}
	if len(speaker.spoken) != 2 || speaker.spoken[0].Volume != 0 {
		t.Errorf("spoken = %+v", speaker.spoken)
	}
	if c.Tier() != TierMuted {
		t.Errorf("tier = %v, want muted", c.Tier())
	}
	if !c.Allowed(ActionGenerate) {
		t.Error("expected generate to be enabled after clear")
	}
}
