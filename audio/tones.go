package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/fop-maze/mazerunner/game/engine"
)

// note is a tone of freq hertz; freq 0 is a rest
type note struct {
	freq float64
	dur  time.Duration
}

var melodies = map[engine.EventType][]note{
	engine.EventKey:        {{660, 60 * time.Millisecond}, {880, 90 * time.Millisecond}},
	engine.EventLife:       {{523, 60 * time.Millisecond}, {659, 60 * time.Millisecond}, {784, 100 * time.Millisecond}},
	engine.EventPowerUp:    {{440, 50 * time.Millisecond}, {660, 50 * time.Millisecond}, {990, 80 * time.Millisecond}},
	engine.EventHit:        {{220, 120 * time.Millisecond}},
	engine.EventShield:     {{440, 40 * time.Millisecond}, {0, 20 * time.Millisecond}, {440, 40 * time.Millisecond}},
	engine.EventExitLocked: {{330, 70 * time.Millisecond}, {0, 30 * time.Millisecond}, {330, 70 * time.Millisecond}},
	engine.EventVictory:    {{523, 100 * time.Millisecond}, {659, 100 * time.Millisecond}, {784, 100 * time.Millisecond}, {1046, 250 * time.Millisecond}},
	engine.EventGameOver:   {{392, 150 * time.Millisecond}, {330, 150 * time.Millisecond}, {262, 300 * time.Millisecond}},
}

// Tone returns the streamer for an event, nil when the event has no sound
func Tone(t engine.EventType) beep.Streamer {
	notes, ok := melodies[t]
	if !ok {
		return nil
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := SampleRate.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		sine, err := generators.SineTone(SampleRate, n.freq)
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(samples, sine))
	}
	return beep.Seq(parts...)
}

// Duration is the length of an event's tone
func Duration(t engine.EventType) time.Duration {
	var d time.Duration
	for _, n := range melodies[t] {
		d += n.dur
	}
	return d
}
