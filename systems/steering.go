package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

// antiparallelDot is the forward·direction threshold below which the
// shortest-arc rotation is ill-defined and a half turn about up is used instead.
const antiparallelDot = -0.99

// largeTurnAngle is the course correction (radians) above which turning slows to half rate.
const largeTurnAngle = 1.0

// Projector maps world positions to normalized device coordinates.
type Projector interface {
	ProjectNDC(world mgl32.Vec3) (ndc mgl32.Vec2, visible bool)
}

// SteeringParams holds steering constants as float32 for the per-tick path.
type SteeringParams struct {
	BaseSpeed, FarSpeed, NearSpeed, MidSpeed float32
	FarDistance, NearDistance                float32
	HoverCap, HoverThreshold, HoverFalloff   float32
	BurstSpeed, BurstCooldown                float32
	BurstChance, BurstDuration               float32
	Thrust, TurnRate                         float32
	SpeedBlend, VelocityBlend                float32
	HoverBlend, TurnBlend                    float32
	ArriveDistance                           float32
	CloseUpChance, CloseUpDistance           float32
	WanderExtent                             mgl32.Vec3
}

// NewSteeringParams converts the loaded config.
func NewSteeringParams(c config.SteeringConfig) SteeringParams {
	return SteeringParams{
		BaseSpeed:       float32(c.BaseSpeed),
		FarSpeed:        float32(c.FarSpeed),
		NearSpeed:       float32(c.NearSpeed),
		MidSpeed:        float32(c.MidSpeed),
		FarDistance:     float32(c.FarDistance),
		NearDistance:    float32(c.NearDistance),
		HoverCap:        float32(c.HoverCap),
		HoverThreshold:  float32(c.HoverThreshold),
		HoverFalloff:    float32(c.HoverFalloff),
		BurstSpeed:      float32(c.BurstSpeed),
		BurstCooldown:   float32(c.BurstCooldown),
		BurstChance:     float32(c.BurstChance),
		BurstDuration:   float32(c.BurstDuration),
		Thrust:          float32(c.Thrust),
		TurnRate:        float32(c.TurnRate),
		SpeedBlend:      float32(c.SpeedBlend),
		VelocityBlend:   float32(c.VelocityBlend),
		HoverBlend:      float32(c.HoverBlend),
		TurnBlend:       float32(c.TurnBlend),
		ArriveDistance:  float32(c.ArriveDistance),
		CloseUpChance:   float32(c.CloseUpChance),
		CloseUpDistance: float32(c.CloseUpDistance),
		WanderExtent:    vec3From(c.WanderExtent),
	}
}

// SteeringInput is everything the controller reads in one tick.
type SteeringInput struct {
	DT            float32
	Pointer       components.InteractionSignal
	PointerTarget mgl32.Vec3 // world point under the pointer
	FollowEnabled bool
	Viewpoint     mgl32.Vec3 // camera eye, for close-up wander targets
	ViewDir       mgl32.Vec3 // camera forward
}

// SteeringController turns a target point into creature position, orientation
// and the speed/hover/turn scalars that drive deformation.
type SteeringController struct {
	params    SteeringParams
	state     components.SteeringState
	projector Projector
	rng       *rand.Rand
}

// NewSteeringController creates a controller at the origin facing +Z.
func NewSteeringController(params SteeringParams, projector Projector, rng *rand.Rand) *SteeringController {
	c := &SteeringController{
		params:    params,
		projector: projector,
		rng:       rng,
	}
	c.state = components.SteeringState{
		Orientation: mgl32.QuatIdent(),
		Speed:       params.BaseSpeed,
		TargetSpeed: params.BaseSpeed,
		TurnRate:    params.TurnRate,
		Mode:        components.ModeWandering,
	}
	c.state.Target = randInBox(rng, mgl32.Vec3{}, params.WanderExtent)
	return c
}

// State returns a copy of the current steering state.
func (c *SteeringController) State() components.SteeringState {
	return c.state
}

// Transform returns the creature anchor transform.
func (c *SteeringController) Transform() components.Transform {
	return components.Transform{Position: c.state.Position, Orientation: c.state.Orientation}
}

// Update advances the steering state by one tick.
func (c *SteeringController) Update(in SteeringInput) {
	s := &c.state
	p := &c.params
	dt := in.DT

	// 1. Hover proximity from the projected creature position
	s.HoverLevel = approach(s.HoverLevel, c.hoverProximity(in.Pointer), p.HoverBlend, dt)

	// Target selection
	s.Following = in.FollowEnabled && in.Pointer.Active
	if s.Following {
		s.Target = in.PointerTarget
	} else if s.Target.Sub(s.Position).Len() < p.ArriveDistance {
		s.Target = c.pickWanderTarget(in)
	}
	dist := s.Target.Sub(s.Position).Len()

	// 2. Target speed
	s.TargetSpeed = c.targetSpeed(dist, dt)

	// 3. First-order lag toward target speed
	s.Speed = approach(s.Speed, s.TargetSpeed, p.SpeedBlend, dt)

	// 4. Steering direction and turn angle
	forward := s.Forward()
	dir := safeNormalize(s.Target.Sub(s.Position), forward)
	dot := clampFloat(forward.Dot(dir), -1, 1)
	angle := float32(math.Acos(float64(dot)))

	var ideal mgl32.Quat
	if dot < antiparallelDot {
		// Half turn about the creature's own up axis
		ideal = s.Orientation.Mul(mgl32.QuatRotate(math.Pi, mgl32.Vec3{0, 1, 0}))
	} else {
		ideal = mgl32.QuatBetweenVectors(forward, dir).Mul(s.Orientation)
	}
	// q and -q are the same rotation; take the short way round
	if s.Orientation.Dot(ideal) < 0 {
		ideal = ideal.Scale(-1)
	}

	// 5. Large corrections turn at half rate
	s.TurnRate = p.TurnRate
	if angle > largeTurnAngle {
		s.TurnRate *= 0.5
	}

	// 6. Slerp toward the ideal orientation
	next := mgl32.QuatSlerp(s.Orientation, ideal, BlendFactor(s.TurnRate, dt)).Normalize()
	if isFiniteQuat(next) {
		s.Orientation = next
	}

	// 7. Velocity drifts toward thrust along the new forward axis
	desired := s.Forward().Mul(s.Speed * p.Thrust)
	s.Velocity = approachVec(s.Velocity, desired, p.VelocityBlend, dt)

	// 8. Integrate
	s.Position = s.Position.Add(s.Velocity.Mul(dt))

	// 9. Smoothed turn drives agitation
	s.Turn = approach(s.Turn, angle, p.TurnBlend, dt)

	s.Mode = c.mode()
}

// hoverProximity is the inverse NDC distance between the projected creature
// and the pointer, clamped to [0, 1].
func (c *SteeringController) hoverProximity(ptr components.InteractionSignal) float32 {
	if !ptr.Active || c.projector == nil {
		return 0
	}
	ndc, ok := c.projector.ProjectNDC(c.state.Position)
	if !ok {
		return 0
	}
	d := ndc.Sub(mgl32.Vec2{ptr.NDCX, ptr.NDCY}).Len()
	if d < epsilon {
		return 1
	}
	return clamp01(c.params.HoverFalloff / d)
}

// targetSpeed applies the follow distance bands, bursts and the hover cap.
func (c *SteeringController) targetSpeed(dist, dt float32) float32 {
	s := &c.state
	p := &c.params

	s.BurstStarted = false
	target := p.BaseSpeed
	if s.Following {
		switch {
		case dist > p.FarDistance:
			target = p.FarSpeed
		case dist < p.NearDistance:
			target = p.NearSpeed
		default:
			target = p.MidSpeed
		}
		s.BurstTimer = 0
	}

	if s.BurstTimer > 0 {
		s.BurstTimer -= dt
		target = p.BurstSpeed
		if s.BurstTimer <= 0 {
			s.BurstTimer = 0
			s.SinceBurst = 0
		}
	} else {
		s.SinceBurst += dt
		if !s.Following && s.SinceBurst >= p.BurstCooldown && c.rng.Float32() < BlendFactor(p.BurstChance, dt) {
			s.BurstTimer = p.BurstDuration
			s.BurstStarted = true
			target = p.BurstSpeed
		}
	}

	// Hover caps speed regardless of the rules above
	if s.HoverLevel > p.HoverThreshold && target > p.HoverCap {
		target = p.HoverCap
	}
	return target
}

// pickWanderTarget chooses the next autonomous destination.
func (c *SteeringController) pickWanderTarget(in SteeringInput) mgl32.Vec3 {
	p := &c.params
	if c.rng.Float32() < p.CloseUpChance {
		viewDir := safeNormalize(in.ViewDir, mgl32.Vec3{0, 0, -1})
		center := in.Viewpoint.Add(viewDir.Mul(p.CloseUpDistance))
		return randInBox(c.rng, center, mgl32.Vec3{4, 3, 4})
	}
	return randInBox(c.rng, mgl32.Vec3{}, p.WanderExtent)
}

func (c *SteeringController) mode() components.SteeringMode {
	s := &c.state
	switch {
	case s.HoverLevel > c.params.HoverThreshold:
		return components.ModeHovering
	case s.BurstTimer > 0:
		return components.ModeBurst
	case s.Following:
		return components.ModeFollowing
	default:
		return components.ModeWandering
	}
}
