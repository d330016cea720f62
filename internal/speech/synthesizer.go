// Package speech turns caption text into audio. A Synthesizer queues
// utterances and plays them one at a time through a Backend and a Player.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/audio"
	"github.com/dgnsrekt/memegen/internal/cache"
)

// DefaultTimeout bounds a single synthesis call.
const DefaultTimeout = 30 * time.Second

// Backend is a speech engine that renders text to PCM.
type Backend interface {
	// Synthesize renders text with voice, or the engine default when voice
	// is nil. The result is mono signed 16-bit little endian PCM at
	// Info().SampleRate.
	Synthesize(ctx context.Context, text string, voice *Voice) ([]byte, error)

	// Voices lists the voices the engine offers.
	Voices() []Voice

	// Info describes the engine's output.
	Info() EngineInfo

	// Validate checks that the engine can run on this machine.
	Validate() error

	// Close releases engine resources.
	Close() error
}

// Player plays PCM clips one at a time.
type Player interface {
	Play(pcm []byte) error
	Wait(ctx context.Context) error
	Stop() error
	SetVolume(volume float64) error
	Close() error
}

// Synthesizer queues utterances and speaks them in order on a single
// worker goroutine. It owns the backend and player it is given.
type Synthesizer struct {
	backend Backend
	player  Player
	cache   cache.Cache
	queue   *Queue

	outputRate int
	timeout    time.Duration

	errs    chan error
	pending atomic.Int64
	closed  atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	current context.CancelFunc
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithCache stores synthesized clips in c, keyed by engine, voice and
// text.
func WithCache(c cache.Cache) SynthesizerOption {
	return func(s *Synthesizer) {
		s.cache = c
	}
}

// WithOutputRate sets the sample rate the player expects. Backend output
// at other rates is resampled.
func WithOutputRate(rate int) SynthesizerOption {
	return func(s *Synthesizer) {
		s.outputRate = rate
	}
}

// WithTimeout bounds each synthesis call.
func WithTimeout(d time.Duration) SynthesizerOption {
	return func(s *Synthesizer) {
		s.timeout = d
	}
}

// WithQueueSize bounds how many utterances may wait.
func WithQueueSize(n int) SynthesizerOption {
	return func(s *Synthesizer) {
		s.queue = NewQueue(n)
	}
}

// NewSynthesizer starts the playback worker.
func NewSynthesizer(backend Backend, player Player, opts ...SynthesizerOption) (*Synthesizer, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend: %w", ErrEngineUnavailable)
	}
	if player == nil {
		return nil, errors.New("player cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Synthesizer{
		backend:    backend,
		player:     player,
		queue:      NewQueue(DefaultQueueSize),
		outputRate: audio.DefaultConfig().SampleRate,
		timeout:    DefaultTimeout,
		errs:       make(chan error, 16),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.run()
	return s, nil
}

// Voices returns the backend's voices.
func (s *Synthesizer) Voices() []Voice {
	return s.backend.Voices()
}

// Info returns the backend description.
func (s *Synthesizer) Info() EngineInfo {
	return s.backend.Info()
}

// Speak queues u and returns immediately. Blank text is ignored. Failures
// are logged and reported on Errors.
func (s *Synthesizer) Speak(u Utterance) {
	if strings.TrimSpace(u.Text) == "" {
		log.Debug("skipping empty utterance", "id", u.ID)
		return
	}
	if s.closed.Load() {
		s.report(NewError(CodeCanceled, u.ID, "speak after close", ErrSynthesizerClosed))
		return
	}

	s.pending.Add(1)
	if err := s.queue.Enqueue(u); err != nil {
		s.pending.Add(-1)
		code := CodeQueueFull
		if errors.Is(err, ErrQueueClosed) {
			code = CodeCanceled
		}
		s.report(NewError(code, u.ID, "unable to queue utterance", err))
		return
	}
	log.Debug("utterance queued", "id", u.ID, "voice", u.VoiceName(), "volume", u.Volume)
}

// Errors delivers failures from the worker. Errors are dropped when
// nobody reads them.
func (s *Synthesizer) Errors() <-chan error {
	return s.errs
}

// Busy reports whether any utterance is queued or playing.
func (s *Synthesizer) Busy() bool {
	return s.pending.Load() > 0
}

// Pending returns the number of utterances queued or playing.
func (s *Synthesizer) Pending() int {
	return int(s.pending.Load())
}

// Drain blocks until every queued utterance has been spoken or ctx is
// done.
func (s *Synthesizer) Drain(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for s.Busy() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Cancel drops queued utterances and stops the one playing.
func (s *Synthesizer) Cancel() {
	dropped := s.queue.Clear()
	s.pending.Add(-int64(dropped))

	s.mu.Lock()
	if s.current != nil {
		s.current()
	}
	s.mu.Unlock()

	if err := s.player.Stop(); err != nil {
		log.Debug("unable to stop player", "error", err)
	}
	log.Debug("speech cancelled", "dropped", dropped)
}

// Close stops the worker and releases the player and backend.
func (s *Synthesizer) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	dropped := s.queue.Clear()
	s.pending.Add(-int64(dropped))
	_ = s.queue.Close()
	s.cancel()
	s.wg.Wait()

	return errors.Join(s.player.Close(), s.backend.Close())
}

func (s *Synthesizer) run() {
	defer s.wg.Done()

	for {
		u, err := s.queue.Dequeue(s.ctx)
		if err != nil {
			return
		}
		s.process(u)
		s.pending.Add(-1)
	}
}

func (s *Synthesizer) process(u Utterance) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.current = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		cancel()
	}()

	pcm, err := s.synthesize(ctx, u)
	if err != nil {
		s.report(err)
		return
	}
	if ctx.Err() != nil {
		return
	}

	if err := s.player.SetVolume(clampVolume(u.Volume)); err != nil {
		s.report(NewError(CodeAudioFailure, u.ID, "unable to set volume", err))
		return
	}
	if err := s.player.Play(pcm); err != nil {
		s.report(NewError(CodeAudioFailure, u.ID, "unable to play audio", err))
		return
	}
	if err := s.player.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.report(NewError(CodeAudioFailure, u.ID, "playback interrupted", err))
		return
	}
	log.Debug("utterance spoken", "id", u.ID)
}

func (s *Synthesizer) synthesize(ctx context.Context, u Utterance) ([]byte, error) {
	info := s.backend.Info()

	voice := u.Voice
	if voice == nil {
		voice, _ = DefaultVoice(s.backend.Voices())
	}
	voiceName := ""
	if voice != nil {
		voiceName = voice.Name
	}

	key := cache.Key(info.Name, voiceName, u.Text)
	if s.cache != nil {
		if pcm, ok := s.cache.Get(key); ok {
			log.Debug("speech cache hit", "id", u.ID)
			return pcm, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	pcm, err := s.backend.Synthesize(ctx, u.Text, voice)
	if err != nil {
		code := CodeEngineFailure
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			code = CodeEngineTimeout
		case errors.Is(err, context.Canceled):
			code = CodeCanceled
		case errors.Is(err, ErrEngineUnavailable):
			code = CodeEngineUnavailable
		}
		return nil, NewError(code, u.ID, "synthesis failed", err)
	}

	if info.SampleRate > 0 && s.outputRate > 0 && info.SampleRate != s.outputRate {
		pcm, err = audio.Resample(pcm, info.SampleRate, s.outputRate)
		if err != nil {
			return nil, NewError(CodeAudioFailure, u.ID, "unable to resample audio", err)
		}
	}
	log.Debug("synthesized utterance", "id", u.ID, "engine", info.Name, "voice", voiceName, "bytes", len(pcm), "took", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Put(key, pcm); err != nil {
			log.Debug("unable to cache speech", "error", err)
		}
	}
	return pcm, nil
}

func (s *Synthesizer) report(err error) {
	var serr *Error
	if errors.As(err, &serr) && serr.Code == CodeCanceled {
		log.Debug("utterance cancelled", "error", err)
	} else {
		log.Error("speech failed", "error", err)
	}

	select {
	case s.errs <- err:
	default:
	}
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
