package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
)

// Agitation thresholds.
const (
	agitationSpeedFloor = 1.2  // speed above this adds agitation
	jitterThreshold     = 0.05 // agitation below this adds no global jitter
)

// Uniforms are the per-frame scalars shared by every deformed point.
type Uniforms struct {
	Time       float32
	Speed      float32
	Hover      float32
	Turn       float32
	ClickPulse float32
}

// Agitation combines hover, excess speed and turning into one excitement level.
func (u Uniforms) Agitation() float32 {
	return u.Hover + max(0, u.Speed-agitationSpeedFloor) + 2*u.Turn
}

// Glow maps agitation and the click pulse to emissive intensity in [0, 2].
func (u Uniforms) Glow() float32 {
	return clampFloat(0.35+0.4*u.Agitation()+0.8*u.ClickPulse, 0, 2)
}

// DeformationEngine displaces creature points so static geometry appears to swim.
// It only reads the noise table, so one engine may be shared across workers.
type DeformationEngine struct {
	noise *NoiseField
}

// NewDeformationEngine creates an engine sampling the given noise field.
func NewDeformationEngine(noise *NoiseField) *DeformationEngine {
	return &DeformationEngine{noise: noise}
}

// Deform returns the displaced local-space position of p for this frame.
func (e *DeformationEngine) Deform(p *components.ParticlePoint, u Uniforms) mgl32.Vec3 {
	var out mgl32.Vec3
	switch p.Attr.Region {
	case components.RegionMantle:
		out = e.mantle(p, u)
	case components.RegionFins:
		out = e.fin(p, u)
	case components.RegionTentacleShort:
		out = e.tentacle(p, u, 1)
	case components.RegionTentacleLong:
		out = e.tentacle(p, u, 1.6)
	case components.RegionSkirt:
		out = e.skirt(p, u)
	default:
		out = p.Position
	}

	if a := u.Agitation(); a > jitterThreshold {
		amp := (a - jitterThreshold) * 0.08
		q := out.Mul(2.1)
		ts := u.Time * 6
		out[0] += amp * e.noise.Noise3f(q[0]+ts, q[1], q[2])
		out[1] += amp * e.noise.Noise3f(q[0], q[1]+ts, q[2]+17.3)
		out[2] += amp * e.noise.Noise3f(q[0]+31.7, q[1], q[2]+ts)
	}
	return out
}

// DeformRange writes displaced positions for points[lo:hi] into out[lo:hi].
func (e *DeformationEngine) DeformRange(points []components.ParticlePoint, out []mgl32.Vec3, u Uniforms, lo, hi int) {
	for i := lo; i < hi; i++ {
		out[i] = e.Deform(&points[i], u)
	}
}

// mantle contracts radially with a pulse traveling from base to tip.
func (e *DeformationEngine) mantle(p *components.ParticlePoint, u Uniforms) mgl32.Vec3 {
	h := p.Attr.Param
	wave := 0.5 + 0.5*sinf(u.Time*1.6-h*3)
	pulse := wave * wave * wave
	slow := 0.75 + 0.25*sinf(u.Time*0.37)
	shape := sinf(h * math.Pi) // strongest mid-body
	contraction := pulse * slow * shape * 0.18

	ripple := 0.03 * sinf(u.Time*12+h*20+p.Attr.Angle*3)
	scale := 1 - contraction + ripple

	pos := p.Position
	pos[0] *= scale
	pos[1] *= scale
	return pos
}

// fin runs a single traveling wave across the flattened axis.
func (e *DeformationEngine) fin(p *components.ParticlePoint, u Uniforms) mgl32.Vec3 {
	amp := p.Attr.Spread * (0.4 + 0.6*u.Speed)
	pos := p.Position
	pos[1] += sinf(u.Time*4-p.Attr.Param*6) * amp
	return pos
}

// tentacle splays tips apart, undulates each strand, drags under speed and adds eddies.
func (e *DeformationEngine) tentacle(p *components.ParticlePoint, u Uniforms, reach float32) mgl32.Vec3 {
	t := p.Attr.Param
	angle := p.Attr.Angle
	pos := p.Position

	// Splay grows toward the tip and with excitement
	splay := t * t * (0.6 + 1.5*u.Hover + 2*u.Turn) * reach
	radial := mgl32.Vec3{cosf(angle), sinf(angle), 0}
	pos = pos.Add(radial.Mul(splay))

	// Two desynchronized undulations keyed to the strand angle
	w1 := sinf(u.Time*2.3+t*4+angle*1.7) * 0.8
	w2 := sinf(u.Time*3.7+t*7+angle*2.9) * 0.4
	c1 := cosf(u.Time*2.1+t*5+angle*1.3) * 0.8
	pos[0] += (w1 + w2) * t * reach
	pos[1] += c1 * t * reach

	// Speed pulls strands back and together
	drag := min(0.5, u.Speed*0.2*t)
	pos[0] *= 1 - drag
	pos[1] *= 1 - drag
	pos[2] -= u.Speed * t * t * 1.5 * reach

	// Three noise octaves at decreasing weight
	b := p.Position
	ts := u.Time * 0.2
	var eddy mgl32.Vec3
	weight := float32(1)
	scale := float32(0.15)
	for octave := 0; octave < 3; octave++ {
		eddy[0] += weight * e.noise.Noise3f(b[0]*scale+ts, b[1]*scale, b[2]*scale)
		eddy[1] += weight * e.noise.Noise3f(b[0]*scale, b[1]*scale+ts, b[2]*scale+11.1)
		eddy[2] += weight * e.noise.Noise3f(b[0]*scale+23.9, b[1]*scale, b[2]*scale+ts)
		weight *= 0.5
		scale *= 2.7
	}
	return pos.Add(eddy.Mul(1.2 * t * reach))
}

// skirt ripples around the rim and along the body axis.
func (e *DeformationEngine) skirt(p *components.ParticlePoint, u Uniforms) mgl32.Vec3 {
	angle := p.Attr.Angle
	ripple := sinf(angle*8+u.Time*3) * 0.25
	flow := sinf(p.Attr.Param*5-u.Time*4) * 0.15
	amp := (ripple + flow) * p.Attr.Param * (0.5 + 0.5*u.Speed)

	pos := p.Position
	pos[0] += cosf(angle) * amp
	pos[1] += sinf(angle) * amp
	pos[2] += flow * 0.5 * p.Attr.Param
	return pos
}
