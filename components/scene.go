package components

import "github.com/go-gl/mathgl/mgl32"

// LayerKind identifies a renderable point set.
type LayerKind uint8

const (
	LayerCreature LayerKind = iota
	LayerTrail
	LayerBubbles
	LayerSchool
	LayerAmbient
)

// String returns the layer name.
func (k LayerKind) String() string {
	switch k {
	case LayerCreature:
		return "creature"
	case LayerTrail:
		return "trail"
	case LayerBubbles:
		return "bubbles"
	case LayerSchool:
		return "school"
	case LayerAmbient:
		return "ambient"
	default:
		return "unknown"
	}
}

// Transform places a layer in the world.
type Transform struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// Layer is a renderable point set. Points aliases the owning buffer's storage,
// so emitters writing in place are visible without copying.
type Layer struct {
	Kind     LayerKind
	Points   []ParticlePoint
	Lifetime float32 // 0 for static layers
}

// Deformable marks layers whose points are displaced by the deformation engine
// before drawing. Deformed holds the per-frame output, parallel to Layer.Points.
type Deformable struct {
	Deformed []mgl32.Vec3
}
