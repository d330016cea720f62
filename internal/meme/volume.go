package meme

import "fmt"

// Volume is a playback volume between 0 and 1.
type Volume float64

// MaxVolume is the initial volume.
const MaxVolume Volume = 1

// VolumeFromPercent converts a slider percentage to a volume, clamping to
// the valid range.
func VolumeFromPercent(percent int) Volume {
	v := Volume(float64(percent) / 100)
	switch {
	case v < 0:
		return 0
	case v > MaxVolume:
		return MaxVolume
	}
	return v
}

// Percent returns the volume as a rounded slider percentage.
func (v Volume) Percent() int {
	return int(float64(v)*100 + 0.5)
}

// VolumeTier is the icon level shown next to the volume slider.
type VolumeTier int

const (
	TierMuted VolumeTier = iota
	TierLow
	TierMedium
	TierHigh
)

// TierForPercent maps a raw slider percentage to its icon tier. Zero and
// negative values are muted.
func TierForPercent(percent int) VolumeTier {
	switch {
	case percent >= 67:
		return TierHigh
	case percent >= 34:
		return TierMedium
	case percent >= 1:
		return TierLow
	default:
		return TierMuted
	}
}

// String implements fmt.Stringer.
func (t VolumeTier) String() string {
	switch t {
	case TierMuted:
		return "muted"
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Icon returns a terminal glyph for the tier.
func (t VolumeTier) Icon() string {
	switch t {
	case TierLow:
		return "🔈"
	case TierMedium:
		return "🔉"
	case TierHigh:
		return "🔊"
	default:
		return "🔇"
	}
}

// Asset returns the icon asset name, volume-level-0 through volume-level-3.
func (t VolumeTier) Asset() string {
	return fmt.Sprintf("volume-level-%d", int(t))
}
