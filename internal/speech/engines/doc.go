// Package engines provides the speech backends: Piper for offline
// synthesis, gTTS for Google's online voices, and a silent mock.
package engines
