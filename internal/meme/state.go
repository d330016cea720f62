package meme

import "fmt"

// Action identifies a user-facing control.
type Action int

const (
	ActionGenerate Action = iota
	ActionClear
	ActionRead
	ActionSelectVoice
)

// String returns the control label.
func (a Action) String() string {
	switch a {
	case ActionGenerate:
		return "Generate"
	case ActionClear:
		return "Clear"
	case ActionRead:
		return "Read Text"
	case ActionSelectVoice:
		return "Voice"
	default:
		return "unknown"
	}
}

// ControlState holds the enabled flag of each control.
type ControlState struct {
	Generate       bool
	Clear          bool
	Read           bool
	VoiceSelection bool
}

// InitialControls is the state before any caption has been generated.
func InitialControls() ControlState {
	return ControlState{Generate: true}
}

// Enabled reports whether the control for a is enabled.
func (s ControlState) Enabled(a Action) bool {
	switch a {
	case ActionGenerate:
		return s.Generate
	case ActionClear:
		return s.Clear
	case ActionRead:
		return s.Read
	case ActionSelectVoice:
		return s.VoiceSelection
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s ControlState) String() string {
	return fmt.Sprintf("generate=%t clear=%t read=%t voice=%t",
		s.Generate, s.Clear, s.Read, s.VoiceSelection)
}

// Caption is the top and bottom text captured at submit time.
type Caption struct {
	Top    string
	Bottom string
}

// Empty reports whether both lines are empty.
func (c Caption) Empty() bool {
	return c.Top == "" && c.Bottom == ""
}
