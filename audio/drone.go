package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// Partials of the drone relative to the base frequency, with their weights.
var droneRatios = [...]float64{1, 1.5, 2, 3.01}
var droneWeights = [...]float64{0.5, 0.25, 0.17, 0.08}

// Drone is an endless layered sine pad. Its gain can be changed from any
// goroutine while the speaker streams it.
type Drone struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	phase [len(droneRatios)]float64
	gain  atomic.Uint64 // math.Float64bits
}

// NewDrone creates a silent drone at the given base frequency.
func NewDrone(sr beep.SampleRate, freq float64) *Drone {
	return &Drone{sr: sr, freq: freq}
}

// SetGain sets the output amplitude, clamped to [0, 1].
func (d *Drone) SetGain(g float64) {
	if g < 0 || math.IsNaN(g) {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	d.gain.Store(math.Float64bits(g))
}

// Gain returns the current amplitude.
func (d *Drone) Gain() float64 {
	return math.Float64frombits(d.gain.Load())
}

func (d *Drone) Stream(samples [][2]float64) (n int, ok bool) {
	gain := d.Gain()
	rate := float64(d.sr)
	for i := range samples {
		t := float64(d.pos) / rate

		// Slow breathing swell and a slight stereo drift
		swell := 0.75 + 0.25*math.Sin(2*math.Pi*0.07*t)
		pan := 0.5 + 0.2*math.Sin(2*math.Pi*0.03*t)

		var v float64
		for k, ratio := range droneRatios {
			v += droneWeights[k] * math.Sin(d.phase[k])
			d.phase[k] += 2 * math.Pi * d.freq * ratio / rate
			if d.phase[k] > 2*math.Pi {
				d.phase[k] -= 2 * math.Pi
			}
		}
		v *= gain * swell

		samples[i][0] = v * (1 - pan)
		samples[i][1] = v * pan
		d.pos++
	}
	return len(samples), true
}

func (d *Drone) Err() error { return nil }
