package speech

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Voice describes a voice offered by a speech engine.
type Voice struct {
	ID      string // Engine specific identifier (model path, language code)
	Name    string // Display name, unique within an engine
	Lang    string // BCP 47 language tag, e.g. "en-US"
	Default bool   // Whether the engine uses this voice when none is chosen
}

// Label renders the voice the way it is shown in a selection list, e.g.
// "en_US-lessac-medium (en-US) -- DEFAULT".
func (v Voice) Label() string {
	var b strings.Builder
	b.WriteString(v.Name)
	b.WriteString(" (")
	b.WriteString(v.Lang)
	b.WriteString(")")
	if v.Default {
		b.WriteString(" -- DEFAULT")
	}
	return b.String()
}

// LangName returns the English name of the voice language, or the raw tag
// when it cannot be parsed.
func (v Voice) LangName() string {
	tag, err := language.Parse(strings.ReplaceAll(v.Lang, "_", "-"))
	if err != nil {
		return v.Lang
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return v.Lang
	}
	return name
}

// FindVoice returns the voice whose name matches exactly.
func FindVoice(voices []Voice, name string) (*Voice, bool) {
	for i := range voices {
		if voices[i].Name == name {
			v := voices[i]
			return &v, true
		}
	}
	return nil, false
}

// DefaultVoice returns the voice flagged as default, if any.
func DefaultVoice(voices []Voice) (*Voice, bool) {
	for i := range voices {
		if voices[i].Default {
			v := voices[i]
			return &v, true
		}
	}
	return nil, false
}

// Utterance is a unit of text submitted for synthesis together with its
// own volume and voice.
type Utterance struct {
	ID     string
	Text   string
	Volume float64 // 0.0 to 1.0
	Voice  *Voice  // nil selects the engine default
}

// NewUtterance returns an utterance at full volume using the default voice.
func NewUtterance(text string) Utterance {
	return Utterance{
		ID:     uuid.NewString(),
		Text:   text,
		Volume: 1.0,
	}
}

// VoiceName returns the name of the attached voice or "" for the default.
func (u Utterance) VoiceName() string {
	if u.Voice == nil {
		return ""
	}
	return u.Voice.Name
}

// EngineInfo describes engine capabilities.
type EngineInfo struct {
	Name        string // Engine name (e.g., "piper", "gtts")
	SampleRate  int    // Output sample rate in Hz
	Channels    int    // Number of audio channels (1=mono)
	BitDepth    int    // Bits per sample (16)
	MaxTextSize int    // Maximum text size in characters
	IsOnline    bool   // Whether the engine requires internet
}
