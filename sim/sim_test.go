package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
	"github.com/pthm-cable/squid/systems"
)

const tick = float32(1.0 / 60)

func testSimulation(t testing.TB) (*Simulation, *config.Config) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	s := New(cfg, Options{Seed: 42, Workers: 4})
	t.Cleanup(s.Close)
	return s, cfg
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// aimAtCreature returns a pointer signal over the creature's mantle tip.
func aimAtCreature(t *testing.T, s *Simulation) components.InteractionSignal {
	t.Helper()
	anchor := s.steering.Transform()
	world := anchor.Position.Add(anchor.Orientation.Rotate(mgl32.Vec3{0, 0, 11}))
	ndc, visible := s.Camera().ProjectNDC(world)
	if !visible {
		t.Fatal("expected creature to be in front of the camera")
	}
	return components.InteractionSignal{NDCX: ndc.X(), NDCY: ndc.Y(), Active: true}
}

func TestTickAdvancesTime(t *testing.T) {
	s, _ := testSimulation(t)

	for i := 0; i < 60; i++ {
		s.Tick(tick, Input{})
	}
	if math.Abs(float64(s.Time())-1) > 1e-3 {
		t.Errorf("expected 1s of simulated time, got %f", s.Time())
	}
	if s.Frame().Time != s.Time() {
		t.Errorf("expected frame time %f, got %f", s.Time(), s.Frame().Time)
	}
}

func TestTickEmitsTrail(t *testing.T) {
	s, cfg := testSimulation(t)

	s.Tick(tick, Input{})
	if got := s.Report().TrailEmitted; got != cfg.Trail.PerFrame {
		t.Errorf("expected %d trail points per tick, got %d", cfg.Trail.PerFrame, got)
	}
	if got := s.Trail().Live(s.Time()); got != cfg.Trail.PerFrame {
		t.Errorf("expected %d live trail points, got %d", cfg.Trail.PerFrame, got)
	}
}

func TestTickNoBubblesWithoutPointer(t *testing.T) {
	s, _ := testSimulation(t)

	for i := 0; i < 30; i++ {
		s.Tick(tick, Input{})
		if s.Report().BubblesEmitted != 0 {
			t.Fatalf("expected no bubbles without a pointer, got %d", s.Report().BubblesEmitted)
		}
	}
}

func TestTickBubblesFromFastPointer(t *testing.T) {
	s, _ := testSimulation(t)

	s.Tick(tick, Input{Pointer: components.InteractionSignal{NDCX: -0.8, Active: true}})
	s.Tick(tick, Input{Pointer: components.InteractionSignal{NDCX: 0.8, Active: true}})
	if s.Report().BubblesEmitted == 0 {
		t.Error("expected bubbles from a fast pointer sweep")
	}
}

func TestStationaryPointerEmitsNoBubbles(t *testing.T) {
	s, _ := testSimulation(t)
	s.SetFollowing(false)
	in := Input{Pointer: components.InteractionSignal{NDCX: 0.9, NDCY: 0.8, Active: true}}

	fwd := s.Camera().Forward()
	minDepth, maxDepth := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	total := 0
	for i := 0; i < 7200; i++ {
		s.Tick(tick, in)
		total += s.Report().BubblesEmitted
		d := s.Steering().Position.Dot(fwd)
		minDepth, maxDepth = min(minDepth, d), max(maxDepth, d)
	}

	if maxDepth-minDepth < 1 {
		t.Fatalf("expected the wandering creature to change depth, got range %f", maxDepth-minDepth)
	}
	if total != 0 {
		t.Errorf("expected no bubbles from a stationary pointer, got %d", total)
	}
}

func TestDeformationMatchesSerial(t *testing.T) {
	s, cfg := testSimulation(t)

	for i := 0; i < 10; i++ {
		s.Tick(tick, Input{})
	}

	var creature LayerView
	for _, v := range s.Layers() {
		if v.Kind == components.LayerCreature {
			creature = v
		}
	}
	if creature.Deformed == nil {
		t.Fatal("expected deformed creature layer")
	}
	if len(creature.Deformed) != cfg.Derived.CreaturePoints {
		t.Fatalf("expected %d deformed points, got %d", cfg.Derived.CreaturePoints, len(creature.Deformed))
	}

	f := s.Frame()
	u := systems.Uniforms{Time: f.Time, Speed: f.Speed, Hover: f.Hover, Turn: f.Turn, ClickPulse: f.ClickPulse}
	engine := systems.NewDeformationEngine(systems.NewNoiseField(cfg.Noise.Seed))
	for i := range creature.Points {
		want := engine.Deform(&creature.Points[i], u)
		if creature.Deformed[i] != want {
			t.Fatalf("point %d: expected %v, got %v", i, want, creature.Deformed[i])
		}
	}
}

func TestLayersOrdered(t *testing.T) {
	s, _ := testSimulation(t)
	s.Tick(tick, Input{})

	views := s.Layers()
	if len(views) != 5 {
		t.Fatalf("expected 5 layers, got %d", len(views))
	}
	for i, v := range views {
		if v.Kind != components.LayerKind(i) {
			t.Errorf("expected layer %d to be %v, got %v", i, components.LayerKind(i), v.Kind)
		}
	}
	if views[components.LayerTrail].Lifetime == 0 {
		t.Error("expected trail layer to carry its lifetime")
	}
	if views[components.LayerAmbient].Deformed != nil {
		t.Error("expected ambient layer to be drawn at base positions")
	}
}

func TestClickOnCreatureStartsPulse(t *testing.T) {
	s, _ := testSimulation(t)

	s.Tick(tick, Input{Pointer: aimAtCreature(t, s), Click: true})

	if !s.Report().Clicked || !s.Report().Hit {
		t.Fatalf("expected click to hit the creature, got %+v", s.Report())
	}
	if !s.Pulse().Active {
		t.Error("expected active click pulse after a hit")
	}
}

func TestClickMissNoPulse(t *testing.T) {
	s, _ := testSimulation(t)

	ptr := components.InteractionSignal{NDCX: 0.98, NDCY: 0.98, Active: true}
	s.Tick(tick, Input{Pointer: ptr, Click: true})

	if s.Report().Hit {
		t.Error("expected corner click to miss")
	}
	if s.Pulse().Active {
		t.Error("expected no pulse after a miss")
	}
}

func TestDoubleClickTogglesFollow(t *testing.T) {
	s, _ := testSimulation(t)
	start := s.Following()

	ptr := components.InteractionSignal{NDCX: 0.98, NDCY: 0.98, Active: true}
	s.Tick(tick, Input{Pointer: ptr, Click: true})
	s.Tick(tick, Input{Pointer: ptr})
	s.Tick(tick, Input{Pointer: ptr, Click: true})

	if !s.Report().DoubleClick {
		t.Error("expected double click to be reported")
	}
	if s.Following() == start {
		t.Errorf("expected following to toggle from %v", start)
	}
	if s.Frame().Following != s.Following() {
		t.Error("expected frame to reflect follow state")
	}
}

func TestCloseIdempotent(t *testing.T) {
	s, _ := testSimulation(t)
	s.Tick(tick, Input{Pointer: aimAtCreature(t, s), Click: true})

	s.Close()
	s.Close()

	if !s.Closed() {
		t.Error("expected closed simulation")
	}
	if s.Pulse().Active {
		t.Error("expected pulse cleared on close")
	}
	if len(s.Layers()) != 0 {
		t.Errorf("expected no layers after close, got %d", len(s.Layers()))
	}

	before := s.Time()
	s.Tick(tick, Input{})
	if s.Time() != before {
		t.Error("expected tick after close to be a no-op")
	}
}

func TestNegativeDTClamped(t *testing.T) {
	s, _ := testSimulation(t)
	s.Tick(-1, Input{})
	if s.Time() != 0 {
		t.Errorf("expected negative dt ignored, got time %f", s.Time())
	}
}

func TestResizeKeepsState(t *testing.T) {
	s, _ := testSimulation(t)
	s.Tick(tick, Input{})
	before := s.Steering()

	s.Resize(640, 640)
	if s.Camera().Aspect() != 1 {
		t.Errorf("expected aspect 1 after resize, got %f", s.Camera().Aspect())
	}
	if s.Steering() != before {
		t.Error("expected resize to leave steering untouched")
	}
}

func TestHeadlessSoak(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping soak in short mode")
	}
	s, _ := testSimulation(t)
	script := NewScriptedPointer()

	var clicks, doubles int
	for i := 0; i < 60*60; i++ {
		s.Tick(tick, script.At(s.Time()+tick))
		r := s.Report()
		if r.Clicked {
			clicks++
		}
		if r.DoubleClick {
			doubles++
		}

		st := s.Steering()
		q := st.Orientation
		norm := math.Sqrt(float64(q.W*q.W + q.V.Dot(q.V)))
		if math.Abs(norm-1) > 1e-3 {
			t.Fatalf("tick %d: orientation norm %f", i, norm)
		}
		if !finite(st.Position) || !finite(st.Velocity) {
			t.Fatalf("tick %d: non-finite steering state %+v", i, st)
		}
	}

	if clicks == 0 {
		t.Error("expected scripted clicks")
	}
	if doubles == 0 {
		t.Error("expected a scripted double click")
	}
	for _, v := range s.Layers() {
		for i, p := range v.Deformed {
			if !finite(p) {
				t.Fatalf("%v point %d not finite", v.Kind, i)
			}
		}
	}
}

func TestTickReportSample(t *testing.T) {
	r := TickReport{
		Frame:          FrameUniforms{Speed: 1.5, Agitation: 2, Mode: components.ModeBurst},
		TrailEmitted:   2,
		BubblesEmitted: 4,
		BurstStarted:   true,
		Clicked:        true,
	}
	s := r.Sample()
	if s.Speed != 1.5 || s.Agitation != 2 || s.Mode != uint8(components.ModeBurst) {
		t.Errorf("expected frame values copied, got %+v", s)
	}
	if s.TrailEmitted != 2 || s.BubblesEmitted != 4 || !s.BurstStarted || !s.Clicked || s.Hit {
		t.Errorf("expected events copied, got %+v", s)
	}
}

func BenchmarkTick(b *testing.B) {
	s, _ := testSimulation(b)
	script := NewScriptedPointer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Tick(tick, script.At(s.Time()+tick))
	}
}
