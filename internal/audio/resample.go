package audio

import (
	"encoding/binary"
	"fmt"
)

// Resample converts mono signed 16-bit little endian PCM from one sample
// rate to another using linear interpolation.
func Resample(pcm []byte, from, to int) ([]byte, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", from, to)
	}
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("PCM length %d is not aligned to 2-byte samples", len(pcm))
	}
	if from == to || len(pcm) == 0 {
		return pcm, nil
	}

	in := len(pcm) / 2
	out := int(int64(in) * int64(to) / int64(from))
	if out == 0 {
		return []byte{}, nil
	}

	sample := func(i int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	buf := make([]byte, out*2)
	step := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		v := sample(j)
		if j+1 < in {
			frac := pos - float64(j)
			v += (sample(j+1) - v) * frac
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v)))
	}
	return buf, nil
}

// Silence returns the given number of seconds of mono 16-bit silence.
func Silence(seconds float64, rate int) []byte {
	return make([]byte, int(seconds*float64(rate))*2)
}
