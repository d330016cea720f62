package meme

import (
	"github.com/dgnsrekt/memegen/internal/fit"
	"github.com/dgnsrekt/memegen/internal/speech"
)

// Image is a decoded source image.
type Image interface {
	// Width returns the natural width in pixels.
	Width() int

	// Height returns the natural height in pixels.
	Height() int
}

// Surface is a fixed-size 2D drawing surface. Coordinates start at the top
// left corner with y increasing downward.
type Surface interface {
	// Size returns the surface dimensions.
	Size() fit.Rectangle

	// FillRect paints the rectangle at the origin with the fill color.
	FillRect(r fit.Rectangle)

	// ClearRect resets the rectangle at the origin to transparent.
	ClearRect(r fit.Rectangle)

	// DrawImage draws img scaled into the placement.
	DrawImage(img Image, p fit.Placement)

	// DrawText draws center-aligned text with its baseline at y.
	DrawText(text string, x, y float64)
}

// Speaker is a text-to-speech engine with its own playback queue.
type Speaker interface {
	// Voices lists the available voices. The list may be empty.
	Voices() []speech.Voice

	// Speak queues an utterance and returns without waiting for playback.
	Speak(u speech.Utterance)
}

// Form exposes the current values of the caption and voice inputs.
type Form interface {
	Caption() Caption
	SelectedVoice() string
}

// EventSource delivers user events to registered handlers. Handlers run
// to completion on the caller's goroutine.
type EventSource interface {
	OnImageLoaded(func(Image))
	OnSubmit(func())
	OnClear(func())
	OnRead(func())
	OnVolumeChange(func(percent int))
}
