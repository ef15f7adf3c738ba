package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

// ScreenToNDC maps pixel coordinates to normalized device coordinates.
// Y grows upward in NDC. The signal is active only inside the viewport.
func ScreenToNDC(x, y, width, height float32) components.InteractionSignal {
	if width <= 0 || height <= 0 {
		return components.InteractionSignal{}
	}
	nx := x/width*2 - 1
	ny := 1 - y/height*2
	return components.InteractionSignal{
		NDCX:   nx,
		NDCY:   ny,
		Active: nx >= -1 && nx <= 1 && ny >= -1 && ny <= 1,
	}
}

// RayHit reports whether any point lies within radius of the ray, in the
// local frame of anchor. Points behind the ray origin are ignored.
// Point clouds have no surface, so this is a nearest-point proximity test.
func RayHit(ray components.Ray, anchor components.Transform, points []components.ParticlePoint, radius float32) (bool, float32) {
	inv := anchor.Orientation.Conjugate()
	origin := inv.Rotate(ray.Origin.Sub(anchor.Position))
	dir := safeNormalize(inv.Rotate(ray.Direction), mgl32.Vec3{0, 0, -1})

	best := float32(-1)
	r2 := radius * radius
	for i := range points {
		rel := points[i].Position.Sub(origin)
		along := rel.Dot(dir)
		if along < 0 {
			continue
		}
		d2 := rel.Dot(rel) - along*along
		if d2 <= r2 && (best < 0 || along < best) {
			best = along
		}
	}
	return best >= 0, best
}

// InteractionLayer turns clicks into click pulses and the follow toggle.
type InteractionLayer struct {
	palette          []mgl32.Vec3
	hitRadius        float32
	pulseDuration    float32
	pulseBlend       float32
	doubleClickDelay float32

	pulse     components.ClickPulse
	following bool

	// Pending single click awaiting a possible second click
	pendingClick bool
	lastClickAt  float32

	rng *rand.Rand
}

// NewInteractionLayer creates the layer with no active pulse.
func NewInteractionLayer(cfg config.InteractionConfig, rng *rand.Rand) *InteractionLayer {
	palette := make([]mgl32.Vec3, len(cfg.Palette))
	for i, c := range cfg.Palette {
		palette[i] = vec3From(c)
	}
	return &InteractionLayer{
		palette:          palette,
		hitRadius:        float32(cfg.HitRadius),
		pulseDuration:    float32(cfg.PulseDuration),
		pulseBlend:       float32(cfg.PulseBlend),
		doubleClickDelay: float32(cfg.DoubleClickDelay),
		following:        cfg.FollowOnStart,
		pulse:            components.ClickPulse{ColorIndex: -1},
		rng:              rng,
	}
}

// HitRadius returns the picking radius in creature units.
func (l *InteractionLayer) HitRadius() float32 {
	return l.hitRadius
}

// Pulse returns the current click pulse.
func (l *InteractionLayer) Pulse() components.ClickPulse {
	return l.pulse
}

// Following reports whether follow mode is enabled.
func (l *InteractionLayer) Following() bool {
	return l.following
}

// SetFollowing forces follow mode, used by the HUD toggle.
func (l *InteractionLayer) SetFollowing(on bool) {
	l.following = on
}

// Click registers a click at time now. hit is the result of the creature hit test.
// It returns true when the click completed a double-click.
func (l *InteractionLayer) Click(now float32, hit bool) bool {
	if hit {
		l.Trigger()
	}

	if l.pendingClick && now-l.lastClickAt <= l.doubleClickDelay {
		l.pendingClick = false
		l.following = !l.following
		return true
	}
	l.pendingClick = true
	l.lastClickAt = now
	return false
}

// Trigger starts or replaces the click pulse with a new palette color.
func (l *InteractionLayer) Trigger() {
	idx := l.nextColor()
	l.pulse.Active = true
	l.pulse.ColorIndex = idx
	l.pulse.Color = l.palette[idx]
	l.pulse.Expiry = l.pulseDuration
}

// nextColor picks a palette index different from the previous one.
func (l *InteractionLayer) nextColor() int {
	n := len(l.palette)
	prev := l.pulse.ColorIndex
	if n < 2 || prev < 0 {
		return l.rng.Intn(n)
	}
	idx := l.rng.Intn(n - 1)
	if idx >= prev {
		idx++
	}
	return idx
}

// Update ages the pulse and eases its value toward the active state.
func (l *InteractionLayer) Update(now, dt float32) {
	if l.pulse.Active {
		l.pulse.Expiry -= dt
		if l.pulse.Expiry <= 0 {
			l.pulse.Expiry = 0
			l.pulse.Active = false
		}
	}

	target := float32(0)
	if l.pulse.Active {
		target = 1
	}
	l.pulse.Value = approach(l.pulse.Value, target, l.pulseBlend, dt)

	// A lone click older than the window can no longer pair up
	if l.pendingClick && now-l.lastClickAt > l.doubleClickDelay {
		l.pendingClick = false
	}
}

// Reset clears the pulse and any pending click so nothing fires after shutdown.
func (l *InteractionLayer) Reset() {
	l.pulse = components.ClickPulse{ColorIndex: -1}
	l.pendingClick = false
}
