package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

// ClipPosition is where dead particles are moved at evaluation time.
// It lies far outside any view frustum, so no compaction is needed.
var ClipPosition = mgl32.Vec3{0, -1e6, 0}

// FadeCurve shapes alpha over a particle's normalized age.
type FadeCurve uint8

const (
	FadeLinear FadeCurve = iota // trail ink
	FadeFast                    // bubbles pop quickly
)

// Emitter writes particles into a fixed-capacity ring buffer.
type Emitter struct {
	ring     *Ring[components.ParticlePoint]
	lifetime float32
	fade     FadeCurve
	rng      *rand.Rand
}

// NewEmitter creates an emitter whose slots all start dead.
func NewEmitter(capacity int, lifetime float32, fade FadeCurve, rng *rand.Rand) *Emitter {
	return &Emitter{
		ring:     NewRing(capacity, components.ParticlePoint{Birth: components.NeverBorn}),
		lifetime: lifetime,
		fade:     fade,
		rng:      rng,
	}
}

// Emit writes one particle at the next slot, overwriting whatever was there.
func (e *Emitter) Emit(position mgl32.Vec3, timestamp float32, drift mgl32.Vec3, attr components.PointAttr) {
	slot := e.ring.Next()
	slot.Position = position
	slot.Birth = timestamp
	slot.Drift = drift
	slot.Attr = attr
}

// Points returns the backing slots for rendering. Liveness is decided by Evaluate.
func (e *Emitter) Points() []components.ParticlePoint {
	return e.ring.Slots()
}

// Ring exposes the underlying buffer.
func (e *Emitter) Ring() *Ring[components.ParticlePoint] {
	return e.ring
}

// Lifetime returns the particle lifetime in seconds.
func (e *Emitter) Lifetime() float32 {
	return e.lifetime
}

// Fade returns the emitter's fade curve.
func (e *Emitter) Fade() FadeCurve {
	return e.fade
}

// Live counts slots whose age is within the lifetime window at now.
func (e *Emitter) Live(now float32) int {
	n := 0
	for i := range e.ring.slots {
		if isAlive(e.ring.slots[i].Birth, now, e.lifetime) {
			n++
		}
	}
	return n
}

// Evaluate returns the draw-time position and alpha of p at now.
// Dead particles come back clipped with zero alpha.
func Evaluate(p *components.ParticlePoint, now, lifetime float32, fade FadeCurve) (mgl32.Vec3, float32) {
	if !isAlive(p.Birth, now, lifetime) {
		return ClipPosition, 0
	}
	age := now - p.Birth
	t := age / lifetime

	pos := p.Position.Add(p.Drift.Mul(age))

	var alpha float32
	switch fade {
	case FadeFast:
		// Bubbles wobble sideways as they rise
		phase := p.Attr.Seed*2*math.Pi + age*18
		pos[0] += sinf(phase) * 0.15
		pos[2] += cosf(phase) * 0.15
		alpha = (1 - t) * (1 - t)
	default:
		alpha = 1 - t
	}
	return pos, alpha
}

func isAlive(birth, now, lifetime float32) bool {
	age := now - birth
	return age >= 0 && age < lifetime
}

// TrailEmitter releases ink behind the creature every tick.
type TrailEmitter struct {
	*Emitter
	perFrame int
	offset   float32
	jitter   float32
}

// NewTrailEmitter creates the ink trail.
func NewTrailEmitter(cfg config.TrailConfig, rng *rand.Rand) *TrailEmitter {
	return &TrailEmitter{
		Emitter:  NewEmitter(cfg.Capacity, float32(cfg.Lifetime), FadeLinear, rng),
		perFrame: cfg.PerFrame,
		offset:   float32(cfg.Offset),
		jitter:   float32(cfg.Jitter),
	}
}

// Update emits the per-frame ink count behind the creature's local backward axis.
func (t *TrailEmitter) Update(anchor components.Transform, now float32) int {
	back := anchor.Orientation.Rotate(mgl32.Vec3{0, 0, -t.offset})
	origin := anchor.Position.Add(back)

	for i := 0; i < t.perFrame; i++ {
		pos := origin.Add(mgl32.Vec3{
			randSigned(t.rng, t.jitter),
			randSigned(t.rng, t.jitter),
			randSigned(t.rng, t.jitter),
		})
		// Ink spreads slowly outward
		drift := mgl32.Vec3{randSigned(t.rng, 0.3), randSigned(t.rng, 0.3), randSigned(t.rng, 0.3)}
		t.Emit(pos, now, drift, components.PointAttr{
			Size:     randRange(t.rng, 0.6, 1.4),
			ColorMix: t.rng.Float32(),
			Region:   components.RegionNone,
			Seed:     t.rng.Float32(),
		})
	}
	return t.perFrame
}

// BubbleEmitter releases bubbles along the pointer path when it moves fast.
type BubbleEmitter struct {
	*Emitter
	maxPerFrame    int
	speedFactor    float32
	speedThreshold float32
	minDT          float32
	jitter         float32
}

// NewBubbleEmitter creates the cursor bubble emitter.
func NewBubbleEmitter(cfg config.BubblesConfig, rng *rand.Rand) *BubbleEmitter {
	return &BubbleEmitter{
		Emitter:        NewEmitter(cfg.Capacity, float32(cfg.Lifetime), FadeFast, rng),
		maxPerFrame:    cfg.MaxPerFrame,
		speedFactor:    float32(cfg.SpeedFactor),
		speedThreshold: float32(cfg.SpeedThreshold),
		minDT:          float32(cfg.MinDT),
		jitter:         float32(cfg.Jitter),
	}
}

// BurstCount returns how many bubbles a pointer moving dist units in dt seconds emits.
// A near-zero dt yields no bubbles rather than an unbounded speed.
func (b *BubbleEmitter) BurstCount(dist, dt float32) int {
	if dt < b.minDT {
		return 0
	}
	speed := dist / dt
	if speed <= b.speedThreshold {
		return 0
	}
	n := int(math.Floor(float64(speed * b.speedFactor)))
	if n > b.maxPerFrame {
		n = b.maxPerFrame
	}
	return n
}

// Update emits bubbles interpolated between the previous and current pointer positions.
func (b *BubbleEmitter) Update(prev, curr mgl32.Vec3, dt, now float32) int {
	n := b.BurstCount(curr.Sub(prev).Len(), dt)
	for i := 0; i < n; i++ {
		// Spread evenly along the segment so fast strokes leave no gaps
		f := (float32(i) + b.rng.Float32()) / float32(n)
		pos := prev.Add(curr.Sub(prev).Mul(f)).Add(mgl32.Vec3{
			randSigned(b.rng, b.jitter),
			randSigned(b.rng, b.jitter),
			randSigned(b.rng, b.jitter),
		})
		rise := mgl32.Vec3{randSigned(b.rng, 0.5), randRange(b.rng, 2, 6), randSigned(b.rng, 0.5)}
		// Stagger births inside the frame so a burst does not fade in lockstep
		birth := now - b.rng.Float32()*dt*0.5
		b.Emit(pos, birth, rise, components.PointAttr{
			Size:   randRange(b.rng, 0.3, 1.0),
			Region: components.RegionNone,
			Seed:   b.rng.Float32(),
		})
	}
	return n
}
