package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned when asked to synthesize blank text.
	ErrEmptyText = errors.New("text is empty")

	// ErrEngineUnavailable indicates the selected engine cannot run here.
	ErrEngineUnavailable = errors.New("selected speech engine is not available")

	// ErrInvalidEngine indicates an unknown engine name.
	ErrInvalidEngine = errors.New("invalid speech engine specified")

	// ErrVoiceNotFound indicates the engine does not offer the voice.
	ErrVoiceNotFound = errors.New("voice not found")

	// ErrQueueFull is returned when the utterance queue is at capacity.
	ErrQueueFull = errors.New("utterance queue is full")

	// ErrQueueClosed is returned by operations on a closed queue.
	ErrQueueClosed = errors.New("utterance queue is closed")

	// ErrSynthesizerClosed is reported for utterances spoken after Close.
	ErrSynthesizerClosed = errors.New("synthesizer is closed")
)

// ErrorCode classifies speech failures.
type ErrorCode string

const (
	CodeEngineFailure     ErrorCode = "ENGINE_FAILURE"
	CodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	CodeEngineTimeout     ErrorCode = "ENGINE_TIMEOUT"
	CodeAudioFailure      ErrorCode = "AUDIO_FAILURE"
	CodeQueueFull         ErrorCode = "QUEUE_FULL"
	CodeInvalidInput      ErrorCode = "INVALID_INPUT"
	CodeCanceled          ErrorCode = "CANCELED"
)

// Error is a speech failure tied to one utterance.
type Error struct {
	Code        ErrorCode
	UtteranceID string
	Message     string
	Cause       error
}

// NewError returns an Error for the given utterance.
func NewError(code ErrorCode, utteranceID, message string, cause error) *Error {
	return &Error{Code: code, UtteranceID: utteranceID, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether speaking the utterance again may succeed.
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case CodeEngineTimeout, CodeQueueFull:
		return true
	default:
		return false
	}
}

// IsFatal reports whether the engine should not be used again.
func (e *Error) IsFatal() bool {
	return e.Code == CodeEngineUnavailable
}
