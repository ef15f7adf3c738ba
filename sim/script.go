package sim

import (
	"math"

	"github.com/pthm-cable/squid/components"
)

// ScriptedPointer drives the pointer along a Lissajous curve for headless runs.
// It periodically leaves the viewport, clicks, and double-clicks so every
// steering mode and the follow toggle get exercised without a window.
type ScriptedPointer struct {
	// Cycle lengths in seconds
	AwayEvery   float32 // pointer leaves the viewport once per cycle
	AwayFor     float32
	ClickEvery  float32
	DoubleEvery float32
	DoubleGap   float32 // seconds between the two clicks of a double-click

	lastClickSlot  int
	lastDoubleSlot int
	secondPending  bool
	secondAt       float32
}

// NewScriptedPointer returns a pointer script with the default cadence.
func NewScriptedPointer() *ScriptedPointer {
	return &ScriptedPointer{
		AwayEvery:      40,
		AwayFor:        8,
		ClickEvery:     4,
		DoubleEvery:    25,
		DoubleGap:      0.2,
		lastClickSlot:  -1,
		lastDoubleSlot: -1,
	}
}

// At returns the input for simulated time now. Calls must be in time order.
func (p *ScriptedPointer) At(now float32) Input {
	t := float64(now)
	sig := components.InteractionSignal{
		NDCX: float32(0.8 * math.Sin(0.31*t)),
		NDCY: float32(0.6 * math.Sin(0.47*t+math.Pi/3)),
	}

	// Drift out past the right edge for a while each cycle
	if p.AwayEvery > 0 && float32(math.Mod(t, float64(p.AwayEvery))) >= p.AwayEvery-p.AwayFor {
		sig.NDCX = 1.5
	}
	sig.Active = sig.NDCX >= -1 && sig.NDCX <= 1 && sig.NDCY >= -1 && sig.NDCY <= 1

	in := Input{Pointer: sig}

	if p.secondPending && now >= p.secondAt {
		p.secondPending = false
		in.Click = true
		return in
	}

	if p.DoubleEvery > 0 {
		slot := int(now / p.DoubleEvery)
		if slot != p.lastDoubleSlot {
			p.lastDoubleSlot = slot
			if slot > 0 {
				in.Click = true
				p.secondPending = true
				p.secondAt = now + p.DoubleGap
				// Swallow a single click due in the same slot
				if p.ClickEvery > 0 {
					p.lastClickSlot = int(now / p.ClickEvery)
				}
				return in
			}
		}
	}

	if p.ClickEvery > 0 {
		slot := int(now / p.ClickEvery)
		if slot != p.lastClickSlot {
			p.lastClickSlot = slot
			in.Click = slot > 0
		}
	}
	return in
}
