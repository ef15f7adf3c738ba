package systems

import "math"

// DefaultNoiseSeed is the seed used when none is configured.
const DefaultNoiseSeed uint32 = 1337

// NoiseField generates coherent 3D noise. It is immutable after construction
// and safe for concurrent use.
type NoiseField struct {
	perm [512]int
}

// NewNoiseField builds the permutation table with a linear-congruential shuffle.
func NewNoiseField(seed uint32) *NoiseField {
	n := &NoiseField{}

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Numerical Recipes LCG; wraps mod 2^32 through uint32 overflow
	state := seed
	for i := len(perm) - 1; i > 0; i-- {
		state = state*1664525 + 1013904223
		j := int(state % uint32(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate so corner hashing never needs a bounds wrap
	for i := 0; i < 256; i++ {
		n.perm[i] = perm[i]
		n.perm[i+256] = perm[i]
	}

	return n
}

// Noise3D returns a noise value in approximately [-1, 1].
func (n *NoiseField) Noise3D(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)

	// Find unit cube
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	// Relative position in cube
	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	// Hash coordinates of cube corners
	A := n.perm[X] + Y
	AA := n.perm[A] + Z
	AB := n.perm[A+1] + Z
	B := n.perm[X+1] + Y
	BA := n.perm[B] + Z
	BB := n.perm[B+1] + Z

	// Blend results from 8 corners
	return lerp(w, lerp(v, lerp(u, grad3D(n.perm[AA], x, y, z),
		grad3D(n.perm[BA], x-1, y, z)),
		lerp(u, grad3D(n.perm[AB], x, y-1, z),
			grad3D(n.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3D(n.perm[AA+1], x, y, z-1),
			grad3D(n.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3D(n.perm[AB+1], x, y-1, z-1),
				grad3D(n.perm[BB+1], x-1, y-1, z-1))))
}

// Noise3f is Noise3D for float32 callers on the deformation hot path.
func (n *NoiseField) Noise3f(x, y, z float32) float32 {
	return float32(n.Noise3D(float64(x), float64(y), float64(z)))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
