// Package components defines the data shared between simulation systems and the renderer.
package components

import "github.com/go-gl/mathgl/mgl32"

// Region identifies the anatomical region a creature point belongs to.
// It is fixed at generation time and selects the deformation rule.
type Region uint8

const (
	RegionMantle Region = iota
	RegionEyes
	RegionFins
	RegionTentacleShort
	RegionTentacleLong
	RegionSkirt
	RegionNone // ambient, school and emitted particles
)

// String returns the region name used in logs and telemetry.
func (r Region) String() string {
	switch r {
	case RegionMantle:
		return "mantle"
	case RegionEyes:
		return "eyes"
	case RegionFins:
		return "fins"
	case RegionTentacleShort:
		return "tentacle_short"
	case RegionTentacleLong:
		return "tentacle_long"
	case RegionSkirt:
		return "skirt"
	default:
		return "none"
	}
}

// NeverBorn marks a slot that has never been written.
// Any lifetime check against it reports the slot as dead.
const NeverBorn float32 = -1e9

// PointAttr holds the per-point attributes consumed by deformation and drawing.
type PointAttr struct {
	Size     float32
	ColorMix float32 // 0 = body color, 1 = accent color
	Region   Region
	Param    float32 // normalized position along the region's own axis (0 at root)
	Angle    float32 // radial angle around the body axis
	Spread   float32 // normalized lateral offset (fin width, arm thickness)
	Seed     float32 // per-point phase in [0,1)
}

// ParticlePoint is a single point of a point set.
type ParticlePoint struct {
	Position mgl32.Vec3
	Birth    float32    // seconds; NeverBorn for static or unwritten points
	Drift    mgl32.Vec3 // units/s applied at evaluation time (emitted particles only)
	Attr     PointAttr
}
