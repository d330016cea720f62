package meme

import "testing"

func TestTierForPercent(t *testing.T) {
	tests := []struct {
		percent int
		want    VolumeTier
	}{
		{-5, TierMuted},
		{0, TierMuted},
		{1, TierLow},
		{33, TierLow},
		{34, TierMedium},
		{66, TierMedium},
		{67, TierHigh},
		{100, TierHigh},
	}

	for _, tt := range tests {
		if got := TierForPercent(tt.percent); got != tt.want {
			t.Errorf("TierForPercent(%d) = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestTierIsExhaustive(t *testing.T) {
	counts := map[VolumeTier]int{}
	for p := 0; p <= 100; p++ {
		counts[TierForPercent(p)]++
	}
	want := map[VolumeTier]int{TierMuted: 1, TierLow: 33, TierMedium: 33, TierHigh: 34}
	for tier, n := range want {
		if counts[tier] != n {
			t.Errorf("tier %v covers %d percentages, want %d", tier, counts[tier], n)
		}
	}
}

func TestVolumeFromPercent(t *testing.T) {
	tests := []struct {
		percent int
		want    Volume
	}{
		{0, 0},
		{50, 0.5},
		{100, 1},
		{150, 1},
		{-20, 0},
	}

	for _, tt := range tests {
		if got := VolumeFromPercent(tt.percent); got != tt.want {
			t.Errorf("VolumeFromPercent(%d) = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestVolumeChangedUpdatesController(t *testing.T) {
	c, _, _, _ := newTestController(t)

	c.VolumeChanged(34)
	if c.Volume() != 0.34 {
		t.Errorf("Volume() = %v, want 0.34", c.Volume())
	}
	if c.Tier() != TierMedium {
		t.Errorf("Tier() = %v, want medium", c.Tier())
	}
	if c.Volume().Percent() != 34 {
		t.Errorf("Percent() = %d, want 34", c.Volume().Percent())
	}
}

func TestTierAsset(t *testing.T) {
	if got := TierHigh.Asset(); got != "volume-level-3" {
		t.Errorf("Asset() = %q", got)
	}
	if got := TierMuted.Asset(); got != "volume-level-0" {
		t.Errorf("Asset() = %q", got)
	}
}
