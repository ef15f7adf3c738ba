// Package audio plays the ambient drone that swells with the creature's agitation.
//
// Audio is best effort: if the output device cannot be opened, New returns a
// player that keeps the mute flag but makes no sound.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/squid/config"
)

// Spring parameters for the gain follower.
const (
	gainFrequency = 3.0
	gainDamping   = 1.0
)

// Player is the ambient audio surface driven by the host once per frame.
type Player interface {
	// Update feeds the current interaction level (agitation plus click pulse).
	Update(level float32)
	SetMuted(muted bool)
	Muted() bool
	Close()
}

// Engine drives a Drone through a spring-smoothed gain.
type Engine struct {
	mu     sync.Mutex
	drone  *Drone
	ctrl   *beep.Ctrl
	spring harmonica.Spring
	master float64

	gain, velocity float64
	muted          bool
	closed         bool
	onSpeaker      bool
}

// New opens the audio device and starts the drone. Failures are logged and
// yield a silent player.
func New(cfg config.AudioConfig, fps int) Player {
	if !cfg.Enabled {
		return &Silent{}
	}
	e, err := start(cfg, fps)
	if err != nil {
		slog.Warn("audio unavailable, continuing silent", "error", err)
		return &Silent{}
	}
	slog.Info("audio started", "sample_rate", cfg.SampleRate, "base_freq", cfg.BaseFreq)
	return e
}

func start(cfg config.AudioConfig, fps int) (*Engine, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	e := newEngine(cfg, fps)
	e.onSpeaker = true
	speaker.Play(e.ctrl)
	return e, nil
}

// newEngine builds an engine without touching the audio device.
func newEngine(cfg config.AudioConfig, fps int) *Engine {
	if fps < 1 {
		fps = 60
	}
	drone := NewDrone(beep.SampleRate(cfg.SampleRate), cfg.BaseFreq)
	return &Engine{
		drone:  drone,
		ctrl:   &beep.Ctrl{Streamer: drone},
		spring: harmonica.NewSpring(harmonica.FPS(fps), gainFrequency, gainDamping),
		master: cfg.MasterVolume,
	}
}

// targetGain maps the interaction level to a drone amplitude.
func (e *Engine) targetGain(level float32) float64 {
	if e.muted {
		return 0
	}
	l := float64(level) / 3
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	return e.master * (0.3 + 0.7*l)
}

func (e *Engine) Update(level float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	e.gain, e.velocity = e.spring.Update(e.gain, e.velocity, e.targetGain(level))
	if e.gain < 0 {
		e.gain = 0
	}
	e.drone.SetGain(e.gain)
}

func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.muted == muted {
		return
	}
	e.muted = muted
	slog.Info("audio mute", "muted", muted)
}

func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Gain returns the smoothed drone amplitude.
func (e *Engine) Gain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gain
}

// Close silences the drone and detaches it from the speaker.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.drone.SetGain(0)

	if e.onSpeaker {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
		speaker.Clear()
	} else {
		e.ctrl.Paused = true
	}
}

// Silent is a Player that only tracks the mute flag.
type Silent struct {
	muted bool
}

func (s *Silent) Update(float32)      {}
func (s *Silent) SetMuted(muted bool) { s.muted = muted }
func (s *Silent) Muted() bool         { return s.muted }
func (s *Silent) Close()              {}
