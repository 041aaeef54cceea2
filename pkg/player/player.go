// ABOUTME: Playback controller for the real-time audio output pipeline
// ABOUTME: Owns the session lifecycle, the ring buffer and the mixer hand-off
package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Profoundic/pmf-go/pkg/audio/output"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
	"github.com/google/uuid"
)

// ErrAlreadyPlaying is returned by StartPlayback while a session is active
var ErrAlreadyPlaying = errors.New("player: playback already started")

// Mixer renders mixed PCM into dst and returns the number of samples written.
// It runs in the application context and may take longer than a sample period.
type Mixer interface {
	Mix(dst []int16) int
}

// MixerFunc adapts a function to the Mixer interface
type MixerFunc func(dst []int16) int

// Mix calls f(dst)
func (f MixerFunc) Mix(dst []int16) int {
	return f(dst)
}

// Config holds playback controller configuration
type Config struct {
	// Driver is the output strategy selected for this build (required)
	Driver output.Driver

	// Buffer is the ring buffer shared with the driver (required)
	Buffer *ringbuf.Buffer

	// Mixer fills the ring buffer; without one MixBuffer writes nothing
	Mixer Mixer

	// OnRateChange is called at session start when the driver cannot play
	// the requested rate exactly. It runs without the player lock held and
	// may call back into the player.
	OnRateChange func(requested, actual uint32)
}

// Session describes one start/stop cycle
type Session struct {
	ID            string
	RequestedRate uint32
	ActualRate    uint32
	StartedAt     time.Time
}

// Stats contains playback statistics
type Stats struct {
	Emitted        uint64
	Underruns      uint64
	DroppedBlocks  uint64
	TransmitErrors uint64
	Buffered       int
	Sessions       uint64
	Playing        bool
}

// Player is the playback controller. There is one per output device.
type Player struct {
	config Config

	mu       sync.Mutex
	session  *Session
	sessions uint64
}

// NewPlayer creates a stopped player
func NewPlayer(config Config) (*Player, error) {
	if config.Driver == nil {
		return nil, errors.New("player: output driver is required")
	}
	if config.Buffer == nil {
		return nil, errors.New("player: ring buffer is required")
	}
	return &Player{config: config}, nil
}

// SamplingFreq returns the rate the output will actually play requested at.
// The mixer must render for this rate, not the requested one.
func (p *Player) SamplingFreq(requested uint32) uint32 {
	return p.config.Driver.SamplingFreq(requested)
}

// StartPlayback resets the ring buffer and starts the real-time feed
func (p *Player) StartPlayback(requested uint32) error {
	session, err := p.startSession(requested)
	if err != nil {
		return err
	}

	if session.ActualRate != requested {
		log.Printf("Output rate differs from request by %dHz, mixer must resample",
			int64(session.ActualRate)-int64(requested))
		if p.config.OnRateChange != nil {
			p.config.OnRateChange(requested, session.ActualRate)
		}
	}
	return nil
}

func (p *Player) startSession(requested uint32) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return Session{}, ErrAlreadyPlaying
	}

	actual := p.config.Driver.SamplingFreq(requested)

	p.config.Buffer.Reset()
	if err := p.config.Driver.Start(requested); err != nil {
		return Session{}, fmt.Errorf("failed to start output: %w", err)
	}

	p.session = &Session{
		ID:            uuid.New().String(),
		RequestedRate: requested,
		ActualRate:    actual,
		StartedAt:     time.Now(),
	}
	p.sessions++

	log.Printf("Playback started: session=%s requested=%dHz actual=%dHz buffer=%d samples",
		p.session.ID, requested, actual, p.config.Buffer.Cap())

	return *p.session, nil
}

// StopPlayback disables the real-time feed. Residual samples stay in the
// buffer until the next StartPlayback. Safe to call when not playing.
func (p *Player) StopPlayback() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return
	}

	p.config.Driver.Stop()

	stats := p.config.Driver.Stats()
	log.Printf("Playback stopped: session=%s duration=%v emitted=%d underruns=%d residual=%d",
		p.session.ID, time.Since(p.session.StartedAt).Round(time.Millisecond),
		stats.Emitted, p.config.Buffer.Underruns(), p.config.Buffer.Len())

	p.session = nil
}

// MixerBuffer returns the writable window of the ring buffer. The storage
// stays owned by the player.
func (p *Player) MixerBuffer() ringbuf.MixerBuffer {
	return p.config.Buffer.MixerBuffer()
}

// MixBuffer asks the mixer for up to numSamples samples into buf and
// publishes what it produced. Returns the number of samples committed.
func (p *Player) MixBuffer(buf ringbuf.MixerBuffer, numSamples int) int {
	if p.config.Mixer == nil || numSamples <= 0 {
		return 0
	}
	if numSamples > buf.Len() {
		numSamples = buf.Len()
	}

	n := p.config.Mixer.Mix(buf.Samples[:numSamples])
	if n < 0 {
		n = 0
	}
	if n > numSamples {
		n = numSamples
	}
	buf.Commit(n)
	return n
}

// Pump fills all currently free space in the ring buffer. The free region
// can wrap, so this takes up to two windows.
func (p *Player) Pump() int {
	total := 0
	for i := 0; i < 2; i++ {
		buf := p.MixerBuffer()
		if buf.Len() == 0 {
			break
		}
		n := p.MixBuffer(buf, buf.Len())
		total += n
		if n < buf.Len() {
			break
		}
	}
	return total
}

// Run pumps the mixer every interval until ctx is cancelled. Underruns
// counted by the real-time path are logged from here.
func (p *Player) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastUnderruns uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !p.Playing() {
				lastUnderruns = 0
				continue
			}
			p.Pump()

			underruns := p.config.Buffer.Underruns()
			if underruns < lastUnderruns {
				// buffer was reset by a new session
				lastUnderruns = 0
			}
			if underruns > lastUnderruns {
				log.Printf("Buffer underrun: %d samples repeated since last check", underruns-lastUnderruns)
				lastUnderruns = underruns
			}
		}
	}
}

// Playing reports whether a session is active
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Session returns the active session
func (p *Player) Session() (Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return Session{}, false
	}
	return *p.session, true
}

// Stats returns playback statistics
func (p *Player) Stats() Stats {
	p.mu.Lock()
	sessions := p.sessions
	playing := p.session != nil
	p.mu.Unlock()

	ds := p.config.Driver.Stats()
	return Stats{
		Emitted:        ds.Emitted,
		Underruns:      p.config.Buffer.Underruns(),
		DroppedBlocks:  ds.DroppedBlocks,
		TransmitErrors: ds.TransmitErrors,
		Buffered:       p.config.Buffer.Len(),
		Sessions:       sessions,
		Playing:        playing,
	}
}
