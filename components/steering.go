package components

import "github.com/go-gl/mathgl/mgl32"

// SteeringMode is the conceptual locomotion state of the creature.
type SteeringMode uint8

const (
	ModeWandering SteeringMode = iota
	ModeFollowing
	ModeHovering
	ModeBurst
)

// String returns the mode name.
func (m SteeringMode) String() string {
	switch m {
	case ModeWandering:
		return "wandering"
	case ModeFollowing:
		return "following"
	case ModeHovering:
		return "hovering"
	case ModeBurst:
		return "burst"
	default:
		return "unknown"
	}
}

// SteeringState is the complete locomotion state of the creature.
// Owned by a single SteeringController and mutated once per tick.
type SteeringState struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Velocity    mgl32.Vec3
	Target      mgl32.Vec3

	Speed       float32 // smoothed speed scalar
	TargetSpeed float32 // speed the controller is easing toward
	TurnRate    float32 // slerp fraction applied this tick
	HoverLevel  float32 // 0..1, smoothed pointer proximity
	Turn        float32 // smoothed turn angle (radians), the agitation driver

	BurstTimer float32 // seconds of burst remaining
	SinceBurst float32 // seconds since the last burst ended
	// BurstStarted is set only on the tick a burst begins, whatever Mode reports
	BurstStarted bool

	Mode      SteeringMode
	Following bool // pointer is driving the target this tick
}

// Forward returns the creature's local +Z axis in world space.
func (s *SteeringState) Forward() mgl32.Vec3 {
	return s.Orientation.Rotate(mgl32.Vec3{0, 0, 1})
}
