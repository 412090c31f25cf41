// Package audio plays short generated tones for game events and loops
// background music. A Player that cannot open the sound device stays silent;
// the game runs the same without it.
package audio

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/fop-maze/mazerunner/game/config"
	"github.com/fop-maze/mazerunner/game/engine"
)

// SampleRate is the rate of the speaker and of every generated tone
const SampleRate = beep.SampleRate(44100)

// Player owns the speaker. It is safe for concurrent use.
type Player struct {
	mu      sync.Mutex
	ready   bool
	effects bool
	music   *beep.Ctrl
	stream  beep.StreamSeekCloser
}

// New opens the speaker when audio is enabled. Failures are logged and
// leave the player silent.
func New(cfg config.AudioSettings) *Player {
	p := &Player{effects: cfg.Enabled && cfg.Effects}
	if !cfg.Enabled {
		return p
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio initialization failed: %v", err)
		return p
	}
	p.ready = true
	return p
}

// Silent returns a player that never touches the speaker
func Silent() *Player {
	return &Player{}
}

// Ready reports whether the speaker is open
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// PlayEvent plays the tone for a game event, if any
func (p *Player) PlayEvent(t engine.EventType) {
	p.mu.Lock()
	on := p.ready && p.effects
	p.mu.Unlock()
	if !on {
		return
	}
	if s := Tone(t); s != nil {
		speaker.Play(&effects.Volume{Streamer: s, Base: 2, Volume: -1})
	}
}

// StartMusic loops an mp3 file until Close. Calling it again replaces the
// current track.
func (p *Player) StartMusic(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready || path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open music: %w", err)
	}
	stream, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode music '%s': %w", path, err)
	}

	var s beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, s)
	}

	p.stopMusicLocked()
	p.stream = stream
	p.music = &beep.Ctrl{Streamer: &effects.Volume{Streamer: s, Base: 2, Volume: -2}}
	speaker.Play(p.music)
	return nil
}

// PauseMusic pauses or resumes the music
func (p *Player) PauseMusic(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.music == nil {
		return
	}
	speaker.Lock()
	p.music.Paused = paused
	speaker.Unlock()
}

func (p *Player) stopMusicLocked() {
	if p.music == nil {
		return
	}
	speaker.Lock()
	p.music.Streamer = nil
	speaker.Unlock()
	p.stream.Close()
	p.music = nil
	p.stream = nil
}

// Close stops the music and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	p.stopMusicLocked()
	speaker.Close()
	p.ready = false
}
