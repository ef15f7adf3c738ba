package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

// Axis offsets decorrelate the per-axis noise channels.
var driftAxisOffsets = [3]float64{0, 113.7, 271.3}

// fbm sums octaves of simplex noise normalized back to roughly [-1, 1].
func fbm(n opensimplex.Noise, x, y float64, octaves int, persistence float64) float64 {
	var total, frequency, amplitude, maxValue float64 = 0, 1, 1, 0
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxValue
}

// SchoolDrift moves the roaming school's anchor along a smooth noise path.
type SchoolDrift struct {
	noise  opensimplex.Noise
	speed  float64
	extent mgl32.Vec3

	anchor components.Transform
	primed bool
}

// NewSchoolDrift creates a drift path from the school config.
func NewSchoolDrift(cfg config.SchoolConfig) *SchoolDrift {
	return &SchoolDrift{
		noise:  opensimplex.New(cfg.Seed),
		speed:  cfg.Speed,
		extent: vec3From(cfg.Extent),
		anchor: components.Transform{Orientation: mgl32.QuatIdent()},
	}
}

// PositionAt samples the path at time now. It is a pure function of now.
func (d *SchoolDrift) PositionAt(now float32) mgl32.Vec3 {
	t := float64(now) * d.speed
	var pos mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		pos[axis] = d.extent[axis] * float32(fbm(d.noise, t, driftAxisOffsets[axis], 3, 0.5))
	}
	return pos
}

// Update advances the anchor and turns it to face its direction of travel.
func (d *SchoolDrift) Update(now, dt float32) components.Transform {
	pos := d.PositionAt(now)
	if d.primed {
		heading := pos.Sub(d.anchor.Position)
		if heading.Len() > epsilon {
			ideal := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, heading.Normalize())
			next := mgl32.QuatSlerp(d.anchor.Orientation, ideal, BlendFactor(0.05, dt)).Normalize()
			if isFiniteQuat(next) {
				d.anchor.Orientation = next
			}
		}
	}
	d.anchor.Position = pos
	d.primed = true
	return d.anchor
}

// Anchor returns the current school transform.
func (d *SchoolDrift) Anchor() components.Transform {
	return d.anchor
}

// AmbientDrift displaces ambient field points at draw time without mutating them.
type AmbientDrift struct {
	noise     opensimplex.Noise
	amplitude float32
	scale     float64
	rate      float64
}

// NewAmbientDrift creates a drift field. Amplitude is in world units.
func NewAmbientDrift(seed int64, amplitude float32) *AmbientDrift {
	return &AmbientDrift{
		noise:     opensimplex.New(seed),
		amplitude: amplitude,
		scale:     0.02,
		rate:      0.05,
	}
}

// Offset returns the displacement of a point at base position p at time now.
func (a *AmbientDrift) Offset(p mgl32.Vec3, now float32) mgl32.Vec3 {
	x, y, z := float64(p[0])*a.scale, float64(p[1])*a.scale, float64(p[2])*a.scale
	w := float64(now) * a.rate
	var off mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		o := driftAxisOffsets[axis]
		off[axis] = a.amplitude * float32(a.noise.Eval4(x+o, y, z, w))
	}
	// Gentle upward bias reads as suspended matter settling against a current
	off[1] += a.amplitude * 0.2 * sinf(now*0.1+p[0]*0.01)
	return off
}
