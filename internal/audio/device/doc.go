// Package device plays PCM through the system audio device using oto.
//
// oto needs cgo and the ALSA headers on Linux. Build with -tags nocgo, or
// with CGO_ENABLED=0 on Linux, to get a player that reports
// audio.ErrNoDevice instead.
package device
