package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

// fixedProjector projects every world point to the same NDC position.
type fixedProjector struct {
	ndc mgl32.Vec2
}

func (p fixedProjector) ProjectNDC(mgl32.Vec3) (mgl32.Vec2, bool) {
	return p.ndc, true
}

func testSteeringParams(t *testing.T) SteeringParams {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return NewSteeringParams(cfg.Steering)
}

const tick = float32(1.0 / 60.0)

// ---------- BlendFactor ----------

func TestBlendFactor_ExactAtReferenceRate(t *testing.T) {
	for _, k := range []float32{0.05, 0.1, 0.5} {
		if got := BlendFactor(k, tick); got != k {
			t.Errorf("expected %f at 60 Hz, got %f", k, got)
		}
	}
}

func TestBlendFactor_SubstepsMatchOneFrame(t *testing.T) {
	k := float32(0.1)
	half := BlendFactor(k, tick/2)
	// Two half ticks must leave the same remainder as one full tick
	remainder := (1 - half) * (1 - half)
	if math.Abs(float64(remainder-(1-k))) > 1e-5 {
		t.Errorf("expected remainder %f, got %f", 1-k, remainder)
	}
}

func TestBlendFactor_ZeroDT(t *testing.T) {
	if got := BlendFactor(0.1, 0); got != 0 {
		t.Errorf("expected 0 for zero dt, got %f", got)
	}
}

// ---------- SteeringController ----------

func TestSteering_QuaternionStaysUnit(t *testing.T) {
	params := testSteeringParams(t)
	rng := rand.New(rand.NewSource(42))
	c := NewSteeringController(params, fixedProjector{ndc: mgl32.Vec2{0.5, 0.5}}, rng)

	input := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		in := SteeringInput{
			DT:        tick,
			Viewpoint: mgl32.Vec3{0, 6, 80},
			ViewDir:   mgl32.Vec3{0, 0, -1},
		}
		// Alternate between wandering and chasing a jumping pointer
		if (i/500)%2 == 1 {
			in.FollowEnabled = true
			in.Pointer = components.InteractionSignal{NDCX: 0.1, NDCY: 0.1, Active: true}
			in.PointerTarget = mgl32.Vec3{
				randSigned(input, 50),
				randSigned(input, 30),
				randSigned(input, 40),
			}
		}
		c.Update(in)

		n := c.State().Orientation.Len()
		if math.Abs(float64(n-1)) > 1e-4 {
			t.Fatalf("tick %d: expected unit quaternion, got norm %f", i, n)
		}
	}
}

func TestSteering_AntiparallelTurnsAboutUp(t *testing.T) {
	params := testSteeringParams(t)
	c := NewSteeringController(params, fixedProjector{ndc: mgl32.Vec2{5, 5}}, rand.New(rand.NewSource(1)))

	beforeState := c.State()
	before := beforeState.Forward()
	if before.Sub(mgl32.Vec3{0, 0, 1}).Len() > 1e-6 {
		t.Fatalf("expected initial forward +Z, got %v", before)
	}

	c.Update(SteeringInput{
		DT:            tick,
		FollowEnabled: true,
		Pointer:       components.InteractionSignal{Active: true},
		PointerTarget: mgl32.Vec3{0, 0, -1},
	})

	q := c.State().Orientation
	if !isFiniteQuat(q) {
		t.Fatalf("expected finite orientation, got %v", q)
	}
	afterState := c.State()
	after := afterState.Forward()
	if after[2] >= 1 {
		t.Errorf("expected creature to begin turning, forward still %v", after)
	}
	if math.Abs(float64(after[0])) < 1e-6 {
		t.Errorf("expected sideways component after turning, got %v", after)
	}
	if math.Abs(float64(after[1])) > 1e-5 {
		t.Errorf("expected turn about the up axis, got vertical component %f", after[1])
	}
}

func TestSteering_HoverCapsSpeed(t *testing.T) {
	params := testSteeringParams(t)
	c := NewSteeringController(params, fixedProjector{ndc: mgl32.Vec2{0, 0}}, rand.New(rand.NewSource(3)))
	c.state.Speed = 2.0
	c.state.HoverLevel = 1.0

	in := SteeringInput{
		DT:      tick,
		Pointer: components.InteractionSignal{NDCX: 0, NDCY: 0, Active: true},
	}
	for i := 0; i < 300; i++ {
		c.Update(in)
		if c.State().TargetSpeed > params.HoverCap {
			t.Fatalf("tick %d: expected target speed <= %f, got %f", i, params.HoverCap, c.State().TargetSpeed)
		}
	}

	s := c.State()
	if math.Abs(float64(s.Speed-0.6)) > 0.01 {
		t.Errorf("expected speed within 0.01 of 0.6, got %f", s.Speed)
	}
	if s.Mode != components.ModeHovering {
		t.Errorf("expected hovering mode, got %s", s.Mode)
	}
}

func TestSteering_FollowSpeedBands(t *testing.T) {
	params := testSteeringParams(t)
	c := NewSteeringController(params, fixedProjector{ndc: mgl32.Vec2{5, 5}}, rand.New(rand.NewSource(4)))

	tests := []struct {
		target mgl32.Vec3
		want   float32
	}{
		{mgl32.Vec3{0, 0, 50}, params.FarSpeed},
		{mgl32.Vec3{0, 0, 5}, params.NearSpeed},
		{mgl32.Vec3{0, 0, 15}, params.MidSpeed},
	}
	for _, tt := range tests {
		c.state.Position = mgl32.Vec3{}
		c.Update(SteeringInput{
			DT:            tick,
			FollowEnabled: true,
			Pointer:       components.InteractionSignal{Active: true},
			PointerTarget: tt.target,
		})
		if got := c.State().TargetSpeed; got != tt.want {
			t.Errorf("target %v: expected target speed %f, got %f", tt.target, tt.want, got)
		}
		if c.State().Mode != components.ModeFollowing {
			t.Errorf("expected following mode, got %s", c.State().Mode)
		}
	}
}

func TestSteering_PointerLeavingStopsFollowing(t *testing.T) {
	params := testSteeringParams(t)
	c := NewSteeringController(params, fixedProjector{ndc: mgl32.Vec2{5, 5}}, rand.New(rand.NewSource(5)))

	c.Update(SteeringInput{DT: tick, FollowEnabled: true, Pointer: components.InteractionSignal{Active: true}, PointerTarget: mgl32.Vec3{0, 0, 30}})
	if !c.State().Following {
		t.Fatal("expected following while pointer is active")
	}
	c.Update(SteeringInput{DT: tick, FollowEnabled: true})
	if c.State().Following {
		t.Error("expected wandering once the pointer leaves the viewport")
	}
}

func TestSteering_WanderPicksNewTargetOnArrival(t *testing.T) {
	params := testSteeringParams(t)
	c := NewSteeringController(params, nil, rand.New(rand.NewSource(6)))

	c.state.Target = mgl32.Vec3{1, 0, 0} // within the arrive distance
	c.Update(SteeringInput{DT: tick, Viewpoint: mgl32.Vec3{0, 6, 80}, ViewDir: mgl32.Vec3{0, 0, -1}})

	if c.State().Target == (mgl32.Vec3{1, 0, 0}) {
		t.Error("expected a new wander target after arriving")
	}
}

func TestSteering_BurstAfterCooldown(t *testing.T) {
	params := testSteeringParams(t)
	params.BurstChance = 1 // trigger as soon as allowed
	c := NewSteeringController(params, nil, rand.New(rand.NewSource(8)))

	sawBurst := false
	for i := 0; i < int(params.BurstCooldown*60)+10; i++ {
		c.Update(SteeringInput{DT: tick})
		if c.State().Mode == components.ModeBurst {
			sawBurst = true
			if c.State().TargetSpeed != params.BurstSpeed {
				t.Errorf("expected burst target speed %f, got %f", params.BurstSpeed, c.State().TargetSpeed)
			}
			break
		}
		if i < int(params.BurstCooldown*60)-1 && c.State().BurstTimer > 0 {
			t.Fatalf("tick %d: burst before cooldown elapsed", i)
		}
	}
	if !sawBurst {
		t.Error("expected a burst once the cooldown elapsed")
	}
}

func TestSteering_LargeTurnHalvesRate(t *testing.T) {
	params := testSteeringParams(t)
	c := NewSteeringController(params, fixedProjector{ndc: mgl32.Vec2{5, 5}}, rand.New(rand.NewSource(9)))
	chase := SteeringInput{
		DT:            tick,
		FollowEnabled: true,
		Pointer:       components.InteractionSignal{Active: true},
		PointerTarget: mgl32.Vec3{200, 0, 0}, // 90 degrees off the initial +Z forward
	}

	c.Update(chase)
	if got := c.State().TurnRate; got != params.TurnRate*0.5 {
		t.Errorf("expected half turn rate %f for a 90 degree correction, got %f", params.TurnRate*0.5, got)
	}

	for i := 0; i < 600; i++ {
		c.Update(chase)
	}
	s := c.State()
	dir := chase.PointerTarget.Sub(s.Position).Normalize()
	if s.Forward().Dot(dir) < float32(math.Cos(0.2)) {
		t.Fatalf("expected creature nearly aligned after 10s, forward %v toward %v", s.Forward(), dir)
	}
	if s.TurnRate != params.TurnRate {
		t.Errorf("expected full turn rate %f once aligned, got %f", params.TurnRate, s.TurnRate)
	}
}

func TestSteering_CloseUpWanderTarget(t *testing.T) {
	params := testSteeringParams(t)
	params.CloseUpChance = 1
	c := NewSteeringController(params, nil, rand.New(rand.NewSource(10)))

	in := SteeringInput{DT: tick, Viewpoint: mgl32.Vec3{0, 6, 80}, ViewDir: mgl32.Vec3{0, 0, -1}}
	center := in.Viewpoint.Add(in.ViewDir.Mul(params.CloseUpDistance))
	half := mgl32.Vec3{4, 3, 4}

	for i := 0; i < 20; i++ {
		c.state.Target = c.state.Position // arrived, forces a new pick
		c.Update(in)

		d := c.State().Target.Sub(center)
		for axis := 0; axis < 3; axis++ {
			if float32(math.Abs(float64(d[axis]))) > half[axis] {
				t.Fatalf("pick %d: expected target within %v of %v, got %v", i, half, center, c.State().Target)
			}
		}
	}
}

func TestSteering_WanderTargetInsideVolume(t *testing.T) {
	params := testSteeringParams(t)
	params.CloseUpChance = 0
	c := NewSteeringController(params, nil, rand.New(rand.NewSource(11)))

	in := SteeringInput{DT: tick, Viewpoint: mgl32.Vec3{0, 6, 80}, ViewDir: mgl32.Vec3{0, 0, -1}}
	for i := 0; i < 20; i++ {
		c.state.Target = c.state.Position
		c.Update(in)

		target := c.State().Target
		for axis := 0; axis < 3; axis++ {
			if float32(math.Abs(float64(target[axis]))) > params.WanderExtent[axis] {
				t.Fatalf("pick %d: expected target inside %v, got %v", i, params.WanderExtent, target)
			}
		}
	}
}

func TestSteering_BurstStartedWhileHovering(t *testing.T) {
	params := testSteeringParams(t)
	params.BurstChance = 1
	// Pointer sits on the projected creature, so hover saturates while follow is off
	c := NewSteeringController(params, fixedProjector{ndc: mgl32.Vec2{0, 0}}, rand.New(rand.NewSource(12)))
	in := SteeringInput{DT: tick, Pointer: components.InteractionSignal{Active: true}}

	starts := 0
	for i := 0; i < int(params.BurstCooldown*60)+20; i++ {
		c.Update(in)
		s := c.State()
		if !s.BurstStarted {
			continue
		}
		starts++
		if s.Mode != components.ModeHovering {
			t.Errorf("expected burst to start while hovering, mode %s", s.Mode)
		}
		if s.BurstTimer <= 0 {
			t.Errorf("expected burst timer running on start, got %f", s.BurstTimer)
		}
	}
	if starts != 1 {
		t.Errorf("expected exactly 1 burst start, got %d", starts)
	}
}

func BenchmarkSteeringUpdate(b *testing.B) {
	cfg, _ := config.Load("")
	c := NewSteeringController(NewSteeringParams(cfg.Steering), fixedProjector{}, rand.New(rand.NewSource(1)))
	in := SteeringInput{DT: tick}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Update(in)
	}
}
