// Package geometry generates the static point clouds: the creature's anatomical
// regions, the ambient particle field and the roaming school.
//
// Every generator uses an analytic parametrization, so counts are exact and no
// sample is rejected. Creature points are in the creature's local frame with
// forward along +Z: the mantle spans z in [0, MantleLength] and the arms trail
// toward -Z.
package geometry

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

// Arm layout.
const (
	ShortArmCount = 8
	LongArmCount  = 2

	armRootRing    = 1.2  // radius of the ring the arms grow from
	armRootZ       = -0.6 // arms start just behind the skirt
	shortArmRadius = 0.35
	longArmRadius  = 0.22
	clubStart      = 0.9 // fraction of long arm length where the club begins
	clubWidth      = 0.45
	eyeRadius      = 0.6
	finStart       = 0.55 // fins occupy the rear of the mantle
)

// Factory builds point sets from the geometry config.
type Factory struct {
	cfg config.GeometryConfig
	rng *rand.Rand
}

// NewFactory creates a factory drawing from rng.
func NewFactory(cfg config.GeometryConfig, rng *rand.Rand) *Factory {
	return &Factory{cfg: cfg, rng: rng}
}

// Creature generates every region in a fixed order: mantle, eyes, fins,
// skirt, short arms, long arms.
func (f *Factory) Creature() []components.ParticlePoint {
	c := f.cfg
	total := c.MantlePoints + 2*c.EyePoints + 2*c.FinPoints + c.SkirtPoints +
		ShortArmCount*c.ShortArmPoints + LongArmCount*c.LongArmPoints
	points := make([]components.ParticlePoint, 0, total)

	points = append(points, f.Mantle(c.MantlePoints)...)
	points = append(points, f.Eyes(c.EyePoints)...)
	points = append(points, f.Fins(c.FinPoints)...)
	points = append(points, f.Skirt(c.SkirtPoints)...)
	points = append(points, f.ShortArms(c.ShortArmPoints)...)
	points = append(points, f.LongArms(c.LongArmPoints)...)
	return points
}

// MantleRadius is the bullet profile radius at height h before noise.
func (f *Factory) MantleRadius(h float32) float32 {
	l := float32(f.cfg.MantleLength)
	t := clamp01(h / l)
	return float32(f.cfg.MantleRadius) * (1 - pow(t, 1.5))
}

// Mantle fills the body with points biased toward the outer surface.
func (f *Factory) Mantle(n int) []components.ParticlePoint {
	l := float32(f.cfg.MantleLength)
	points := make([]components.ParticlePoint, n)
	for i := range points {
		h := f.rng.Float32() * l
		r := f.MantleRadius(h) * (1 + f.signed(0.1))

		// hollow^0.1 is close to 1 for most draws, crisping the silhouette
		hollow := pow(f.rng.Float32(), 0.1)
		r *= hollow

		theta := f.rng.Float32() * 2 * math.Pi
		points[i] = components.ParticlePoint{
			Position: mgl32.Vec3{r * cos(theta), r * sin(theta), h},
			Attr: components.PointAttr{
				Size:     0.8 + f.rng.Float32()*0.6,
				ColorMix: f.rng.Float32() * 0.3 * (1 - hollow*0.5),
				Region:   components.RegionMantle,
				Param:    h / l,
				Angle:    theta,
				Spread:   hollow,
				Seed:     f.rng.Float32(),
			},
		}
	}
	return points
}

// EyeCenters returns the left and right eye positions.
func (f *Factory) EyeCenters() [2]mgl32.Vec3 {
	z := float32(1.2)
	x := f.MantleRadius(z) * 0.95
	return [2]mgl32.Vec3{{-x, 0.4, z}, {x, 0.4, z}}
}

// Eyes generates two dense spherical clusters of n points each.
func (f *Factory) Eyes(n int) []components.ParticlePoint {
	points := make([]components.ParticlePoint, 0, 2*n)
	for side, center := range f.EyeCenters() {
		for i := 0; i < n; i++ {
			dir := f.unitVector()
			// Square root radius packs the cluster toward its core
			d := eyeRadius * sqrt(f.rng.Float32())
			points = append(points, components.ParticlePoint{
				Position: center.Add(dir.Mul(d)),
				Attr: components.PointAttr{
					Size:     1.0 + f.rng.Float32()*0.4,
					ColorMix: 1,
					Region:   components.RegionEyes,
					Param:    d / eyeRadius,
					Angle:    float32(side) * math.Pi,
					Seed:     f.rng.Float32(),
				},
			})
		}
	}
	return points
}

// Fins generates two flat leaf-shaped fins along the rear of the mantle, n points each.
func (f *Factory) Fins(n int) []components.ParticlePoint {
	l := float32(f.cfg.MantleLength)
	w0 := float32(f.cfg.FinWidth)
	start := l * finStart
	span := l - start

	points := make([]components.ParticlePoint, 0, 2*n)
	for _, side := range [2]float32{-1, 1} {
		for i := 0; i < n; i++ {
			u := f.rng.Float32()
			maxWidth := w0 * sin(u*math.Pi)
			w := f.rng.Float32() * maxWidth
			z := start + u*span
			x := side * (f.MantleRadius(z) + w)

			angle := float32(0)
			if side < 0 {
				angle = math.Pi
			}
			points = append(points, components.ParticlePoint{
				Position: mgl32.Vec3{x, f.signed(0.08), z},
				Attr: components.PointAttr{
					Size:     0.6 + f.rng.Float32()*0.5,
					ColorMix: 0.2 + 0.5*(w/w0),
					Region:   components.RegionFins,
					Param:    u,
					Angle:    angle,
					Spread:   w / w0,
					Seed:     f.rng.Float32(),
				},
			})
		}
	}
	return points
}

// Skirt generates the bell-shaped frill around the mantle opening.
func (f *Factory) Skirt(n int) []components.ParticlePoint {
	base := float32(f.cfg.SkirtBase)
	flare := float32(f.cfg.SkirtFlare)
	points := make([]components.ParticlePoint, n)
	for i := range points {
		t := f.rng.Float32()
		r := base + pow(t, 0.8)*flare
		theta := f.rng.Float32() * 2 * math.Pi
		z := -t*1.2 + f.signed(0.05)
		points[i] = components.ParticlePoint{
			Position: mgl32.Vec3{r * cos(theta), r * sin(theta), z},
			Attr: components.PointAttr{
				Size:     0.5 + f.rng.Float32()*0.5,
				ColorMix: 0.4 + 0.6*t,
				Region:   components.RegionSkirt,
				Param:    t,
				Angle:    theta,
				Seed:     f.rng.Float32(),
			},
		}
	}
	return points
}

// ArmRoot returns the root position of an arm at the given angle.
func ArmRoot(angle float32) mgl32.Vec3 {
	return mgl32.Vec3{armRootRing * cos(angle), armRootRing * sin(angle), armRootZ}
}

// ShortArmAngle returns the root angle of short arm k.
func ShortArmAngle(k int) float32 {
	return float32(k) * 2 * math.Pi / ShortArmCount
}

// LongArmAngle returns the root angle of long arm k. Both sit on the ventral side.
func LongArmAngle(k int) float32 {
	return -math.Pi/2 + float32(2*k-1)*0.35
}

// ShortArms generates eight twisted tapering arms of n points each.
func (f *Factory) ShortArms(n int) []components.ParticlePoint {
	length := float32(f.cfg.ShortArmLength)
	points := make([]components.ParticlePoint, 0, ShortArmCount*n)
	for k := 0; k < ShortArmCount; k++ {
		angle := ShortArmAngle(k)
		root := ArmRoot(angle)
		outward := mgl32.Vec3{cos(angle), sin(angle), 0}
		for i := 0; i < n; i++ {
			t := f.rng.Float32()

			// Arms flare out slightly as they trail back
			center := root.Add(outward.Mul(t * 0.8))
			center[2] -= t * length

			radius := shortArmRadius * (1 - 0.8*t)
			twist := t*3*math.Pi + f.rng.Float32()*2*math.Pi
			d := radius * sqrt(f.rng.Float32())
			points = append(points, components.ParticlePoint{
				Position: center.Add(mgl32.Vec3{d * cos(twist), d * sin(twist), 0}),
				Attr: components.PointAttr{
					Size:     0.9 - 0.5*t + f.rng.Float32()*0.3,
					ColorMix: 0.3 + 0.4*t,
					Region:   components.RegionTentacleShort,
					Param:    t,
					Angle:    angle,
					Spread:   d / shortArmRadius,
					Seed:     f.rng.Float32(),
				},
			})
		}
	}
	return points
}

// LongArmRadius is the long arm thickness at parameter t, widening into the club.
func LongArmRadius(t float32) float32 {
	if t < clubStart {
		return longArmRadius
	}
	c := (t - clubStart) / (1 - clubStart)
	return longArmRadius + clubWidth*sin(c*math.Pi)
}

// LongArms generates the two hunting arms with a wavy path and a club tip.
func (f *Factory) LongArms(n int) []components.ParticlePoint {
	length := float32(f.cfg.LongArmLength)
	points := make([]components.ParticlePoint, 0, LongArmCount*n)
	for k := 0; k < LongArmCount; k++ {
		angle := LongArmAngle(k)
		root := ArmRoot(angle)
		phase := float32(k) * math.Pi
		for i := 0; i < n; i++ {
			t := f.rng.Float32()
			center := root.Add(mgl32.Vec3{
				sin(t*3*math.Pi+phase) * 0.8 * t,
				cos(t*2*math.Pi+phase) * 0.5 * t,
				-t * length,
			})

			radius := LongArmRadius(t)
			around := f.rng.Float32() * 2 * math.Pi
			d := radius * sqrt(f.rng.Float32())
			mix := float32(0.4)
			if t >= clubStart {
				mix = 0.9
			}
			points = append(points, components.ParticlePoint{
				Position: center.Add(mgl32.Vec3{d * cos(around), d * sin(around), 0}),
				Attr: components.PointAttr{
					Size:     0.7 + f.rng.Float32()*0.4,
					ColorMix: mix,
					Region:   components.RegionTentacleLong,
					Param:    t,
					Angle:    angle,
					Spread:   d / (longArmRadius + clubWidth),
					Seed:     f.rng.Float32(),
				},
			})
		}
	}
	return points
}

// Ambient scatters n points uniformly through the configured box around the origin.
func (f *Factory) Ambient(n int) []components.ParticlePoint {
	ext := f.cfg.AmbientExtent
	points := make([]components.ParticlePoint, n)
	for i := range points {
		points[i] = components.ParticlePoint{
			Position: mgl32.Vec3{
				f.signed(float32(ext[0])),
				f.signed(float32(ext[1])),
				f.signed(float32(ext[2])),
			},
			Attr: components.PointAttr{
				Size:     0.3 + f.rng.Float32()*0.7,
				ColorMix: f.rng.Float32(),
				Region:   components.RegionNone,
				Seed:     f.rng.Float32(),
			},
		}
	}
	return points
}

// School generates a dense cluster of n points around the school anchor.
func (f *Factory) School(n int) []components.ParticlePoint {
	radius := float32(f.cfg.SchoolRadius)
	points := make([]components.ParticlePoint, n)
	for i := range points {
		// Flattened along Y so the school reads as a shoal
		p := mgl32.Vec3{
			float32(f.rng.NormFloat64()) * radius * 0.5,
			float32(f.rng.NormFloat64()) * radius * 0.2,
			float32(f.rng.NormFloat64()) * radius * 0.5,
		}
		if l := p.Len(); l > radius {
			p = p.Mul(radius / l)
		}
		points[i] = components.ParticlePoint{
			Position: p,
			Attr: components.PointAttr{
				Size:     0.5 + f.rng.Float32()*0.5,
				ColorMix: f.rng.Float32(),
				Region:   components.RegionNone,
				Param:    p.Len() / radius,
				Seed:     f.rng.Float32(),
			},
		}
	}
	return points
}

// unitVector returns a uniformly distributed direction.
func (f *Factory) unitVector() mgl32.Vec3 {
	z := f.signed(1)
	theta := f.rng.Float32() * 2 * math.Pi
	r := sqrt(1 - z*z)
	return mgl32.Vec3{r * cos(theta), r * sin(theta), z}
}

func (f *Factory) signed(amp float32) float32 {
	return (f.rng.Float32()*2 - 1) * amp
}

func sin(x float32) float32    { return float32(math.Sin(float64(x))) }
func cos(x float32) float32    { return float32(math.Cos(float64(x))) }
func sqrt(x float32) float32   { return float32(math.Sqrt(float64(x))) }
func pow(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
