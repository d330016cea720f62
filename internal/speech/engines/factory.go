package engines

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/memegen/internal/speech"
)

// Engine names accepted by New.
const (
	NamePiper = "piper"
	NameGTTS  = "gtts"
	NameMock  = "mock"
)

// Config holds the settings of every engine.
type Config struct {
	Piper PiperConfig `mapstructure:"piper"`
	GTTS  GTTSConfig  `mapstructure:"gtts"`
	Mock  MockConfig  `mapstructure:"-"`
}

// Names lists the supported engines.
func Names() []string {
	return []string{NamePiper, NameGTTS, NameMock}
}

// ValidateSelection normalizes an engine name, accepting "google" as an
// alias for gtts.
func ValidateSelection(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case NamePiper, NameGTTS, NameMock:
		return n, nil
	case "google":
		return NameGTTS, nil
	case "":
		return "", fmt.Errorf("%w: no engine given, choose one of %s",
			speech.ErrInvalidEngine, strings.Join(Names(), ", "))
	default:
		return "", fmt.Errorf("%w: %q, choose one of %s",
			speech.ErrInvalidEngine, name, strings.Join(Names(), ", "))
	}
}

// New builds the named engine.
func New(name string, cfg Config) (speech.Backend, error) {
	name, err := ValidateSelection(name)
	if err != nil {
		return nil, err
	}

	switch name {
	case NamePiper:
		return NewPiper(cfg.Piper)
	case NameGTTS:
		return NewGTTS(cfg.GTTS)
	default:
		return NewMock(cfg.Mock), nil
	}
}
