// Package systems contains the per-frame simulation systems: noise, steering,
// emitters, deformation and interaction.
package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// ReferenceFPS is the frame rate at which per-frame blend factors are specified.
const ReferenceFPS = 60

// epsilon guards normalisation of near-zero vectors.
const epsilon = 1e-6

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BlendFactor converts a per-frame exponential blend k (at ReferenceFPS)
// into the equivalent fraction for a tick of dt seconds.
// At dt = 1/ReferenceFPS it returns k exactly.
func BlendFactor(k, dt float32) float32 {
	if dt <= 0 {
		return 0
	}
	frames := float64(dt) * ReferenceFPS
	if math.Abs(frames-1) < 1e-6 {
		return k
	}
	return float32(1 - math.Pow(1-float64(k), frames))
}

// approach eases current toward target by the per-frame blend k.
func approach(current, target, k, dt float32) float32 {
	return current + (target-current)*BlendFactor(k, dt)
}

// approachVec eases a vector toward target by the per-frame blend k.
func approachVec(current, target mgl32.Vec3, k, dt float32) mgl32.Vec3 {
	return current.Add(target.Sub(current).Mul(BlendFactor(k, dt)))
}

// safeNormalize returns v normalized, or fallback when v is too short.
func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < epsilon {
		return fallback
	}
	return v.Mul(1 / l)
}

// randRange returns a uniform value in [lo, hi).
func randRange(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// randSigned returns a uniform value in [-amp, amp).
func randSigned(rng *rand.Rand, amp float32) float32 {
	return (rng.Float32()*2 - 1) * amp
}

// randInBox returns a uniform point inside an axis-aligned box of given half-extents.
func randInBox(rng *rand.Rand, center, half mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		center[0] + randSigned(rng, half[0]),
		center[1] + randSigned(rng, half[1]),
		center[2] + randSigned(rng, half[2]),
	}
}

// vec3From converts a config triple.
func vec3From(a [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(a[0]), float32(a[1]), float32(a[2])}
}

func sinf(x float32) float32    { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32    { return float32(math.Cos(float64(x))) }
func powf(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

func isFiniteQuat(q mgl32.Quat) bool {
	for _, f := range []float32{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}
