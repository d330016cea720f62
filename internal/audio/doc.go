// Package audio describes the signed 16-bit little endian PCM the speech
// pipeline produces, converts it between sample rates and provides a mock
// player for tests. The device-backed player lives in audio/device.
package audio
