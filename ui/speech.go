package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/meme"
	"github.com/dgnsrekt/memegen/internal/speech"
)

const speechPollInterval = 150 * time.Millisecond

// Speaker is the speech engine captions are read through.
type Speaker interface {
	meme.Speaker

	// Busy reports whether utterances are queued or playing.
	Busy() bool

	// Errors delivers asynchronous synthesis and playback failures.
	Errors() <-chan error

	// Cancel drops queued utterances and stops playback.
	Cancel()
}

type (
	speechErrMsg  struct{ err error }
	speechTickMsg struct{}
)

// waitForSpeechError blocks until the speaker reports a failure.
func waitForSpeechError(s Speaker) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-s.Errors()
		if !ok {
			return nil
		}
		return speechErrMsg{err}
	}
}

func speechTick() tea.Cmd {
	return tea.Tick(speechPollInterval, func(time.Time) tea.Msg {
		return speechTickMsg{}
	})
}

// speechErrorText turns a speech failure into a short status line.
func speechErrorText(err error) string {
	var serr *speech.Error
	if !errors.As(err, &serr) {
		return "Speech failed: " + err.Error()
	}

	log.Debug("speech error", "code", serr.Code, "utterance", serr.UtteranceID, "error", serr.Cause)
	switch {
	case serr.IsFatal():
		return "Speech engine unavailable: " + serr.Message
	case serr.Code == speech.CodeEngineTimeout:
		return "Speech timed out, try again"
	default:
		return "Speech failed: " + serr.Message
	}
}
