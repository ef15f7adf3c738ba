package systems

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

// ---------- Ring ----------

func TestRing_CursorStaysInBounds(t *testing.T) {
	r := NewRing(7, 0)
	for i := 0; i < 100; i++ {
		idx := r.Push(i)
		if idx < 0 || idx >= r.Cap() {
			t.Fatalf("write %d: cursor %d out of [0, %d)", i, idx, r.Cap())
		}
		if idx != i%7 {
			t.Errorf("write %d: expected slot %d, got %d", i, i%7, idx)
		}
	}
	if r.Written() != 100 {
		t.Errorf("expected 100 writes, got %d", r.Written())
	}
}

func TestRing_ZeroCapacityClamped(t *testing.T) {
	r := NewRing(0, "x")
	if r.Cap() != 1 {
		t.Errorf("expected capacity clamped to 1, got %d", r.Cap())
	}
}

// ---------- Emitter liveness ----------

func TestEmitter_StartsDead(t *testing.T) {
	e := NewEmitter(16, 2, FadeLinear, rand.New(rand.NewSource(1)))
	if n := e.Live(0); n != 0 {
		t.Errorf("expected no live particles before any emission, got %d", n)
	}
}

func TestEmitter_LastCapacityWritesLive(t *testing.T) {
	const capacity = 50
	for _, k := range []int{0, 1, 17, capacity, 3*capacity + 5} {
		e := NewEmitter(capacity, 100, FadeLinear, rand.New(rand.NewSource(1)))

		total := capacity + k
		for i := 0; i < total; i++ {
			e.Emit(mgl32.Vec3{float32(i), 0, 0}, float32(i)*0.01, mgl32.Vec3{}, components.PointAttr{})
		}
		now := float32(total-1) * 0.01

		if n := e.Live(now); n != capacity {
			t.Errorf("k=%d: expected %d live, got %d", k, capacity, n)
		}

		// Every surviving slot must be one of the most recent writes
		for _, p := range e.Points() {
			idx := int(p.Position[0])
			if idx < total-capacity {
				t.Errorf("k=%d: stale write %d survived", k, idx)
			}
		}
	}
}

func TestEmitter_LifetimeExpires(t *testing.T) {
	e := NewEmitter(8, 2, FadeLinear, rand.New(rand.NewSource(1)))
	e.Emit(mgl32.Vec3{}, 1.0, mgl32.Vec3{}, components.PointAttr{})

	if e.Live(2.9) != 1 {
		t.Error("expected particle alive within its lifetime")
	}
	if e.Live(3.0) != 0 {
		t.Error("expected particle dead at the end of its lifetime")
	}
}

// ---------- Evaluate ----------

func TestEvaluate_DeadIsClipped(t *testing.T) {
	p := components.ParticlePoint{Position: mgl32.Vec3{1, 2, 3}, Birth: components.NeverBorn}
	pos, alpha := Evaluate(&p, 10, 2, FadeLinear)
	if pos != ClipPosition {
		t.Errorf("expected clipped position, got %v", pos)
	}
	if alpha != 0 {
		t.Errorf("expected zero alpha, got %f", alpha)
	}
}

func TestEvaluate_LinearFade(t *testing.T) {
	p := components.ParticlePoint{Position: mgl32.Vec3{0, 0, 0}, Birth: 0, Drift: mgl32.Vec3{1, 0, 0}}

	pos, alpha := Evaluate(&p, 1, 2, FadeLinear)
	if alpha != 0.5 {
		t.Errorf("expected alpha 0.5 at half life, got %f", alpha)
	}
	if pos[0] != 1 {
		t.Errorf("expected drift of 1 unit after 1s, got %f", pos[0])
	}
}

func TestEvaluate_FastFadeBelowLinear(t *testing.T) {
	p := components.ParticlePoint{Birth: 0}
	_, fast := Evaluate(&p, 0.1, 0.25, FadeFast)
	_, linear := Evaluate(&p, 0.1, 0.25, FadeLinear)
	if fast >= linear {
		t.Errorf("expected fast fade %f below linear %f", fast, linear)
	}
}

// ---------- Trail ----------

func TestTrail_EmitsBehindCreature(t *testing.T) {
	cfg := testConfig(t)
	trail := NewTrailEmitter(cfg.Trail, rand.New(rand.NewSource(2)))

	anchor := components.Transform{Position: mgl32.Vec3{10, 0, 0}, Orientation: mgl32.QuatIdent()}
	if n := trail.Update(anchor, 1.0); n != cfg.Trail.PerFrame {
		t.Fatalf("expected %d trail particles, got %d", cfg.Trail.PerFrame, n)
	}

	jitter := float32(cfg.Trail.Jitter) + 1e-4
	offset := float32(cfg.Trail.Offset)
	for i := 0; i < cfg.Trail.PerFrame; i++ {
		p := trail.Ring().At(i)
		if p.Birth != 1.0 {
			t.Errorf("expected birth 1.0, got %f", p.Birth)
		}
		want := mgl32.Vec3{10, 0, -offset}
		d := p.Position.Sub(want)
		if abs32(d[0]) > jitter || abs32(d[1]) > jitter || abs32(d[2]) > jitter {
			t.Errorf("expected trail near %v, got %v", want, p.Position)
		}
	}
}

func TestTrail_FollowsOrientation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trail.Jitter = 0
	trail := NewTrailEmitter(cfg.Trail, rand.New(rand.NewSource(2)))

	// Facing +X, so behind is -X
	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	trail.Update(components.Transform{Orientation: q}, 0)

	p := trail.Ring().At(0)
	if p.Position[0] > -float32(cfg.Trail.Offset)+1e-3 {
		t.Errorf("expected trail on -X, got %v", p.Position)
	}
}

// ---------- Bubbles ----------

func TestBubbles_FastStrokeEmitsTenInterpolated(t *testing.T) {
	cfg := testConfig(t)
	bubbles := NewBubbleEmitter(cfg.Bubbles, rand.New(rand.NewSource(3)))

	prev := mgl32.Vec3{0, 0, 0}
	curr := mgl32.Vec3{10, 0, 0}
	n := bubbles.Update(prev, curr, 0.05, 1.0)
	if n != 10 {
		t.Fatalf("expected exactly 10 bubbles, got %d", n)
	}

	jitter := float32(cfg.Bubbles.Jitter) + 1e-4
	for i := 0; i < n; i++ {
		p := bubbles.Ring().At(i)
		if p.Position[0] < -jitter || p.Position[0] > 10+jitter {
			t.Errorf("bubble %d: x %f outside the stroke", i, p.Position[0])
		}
		if abs32(p.Position[1]) > jitter || abs32(p.Position[2]) > jitter {
			t.Errorf("bubble %d: expected within jitter of the stroke, got %v", i, p.Position)
		}
		// Bubble i lies in the i-th tenth of the stroke before jitter
		lo := float32(i) - jitter
		hi := float32(i+1) + jitter
		if p.Position[0] < lo || p.Position[0] > hi {
			t.Errorf("bubble %d: expected x in [%f, %f], got %f", i, lo, hi, p.Position[0])
		}
	}
	if live := bubbles.Live(1.0); live != 10 {
		t.Errorf("expected 10 live bubbles, got %d", live)
	}
}

func TestBubbles_BurstCount(t *testing.T) {
	cfg := testConfig(t)
	bubbles := NewBubbleEmitter(cfg.Bubbles, rand.New(rand.NewSource(4)))

	tests := []struct {
		name string
		dist float32
		dt   float32
		want int
	}{
		{"slow pointer", 0.1, 0.05, 0},
		{"just above threshold", 0.6, 0.05, 1},
		{"fast pointer capped", 100, 0.05, 10},
		{"stalled clock", 10, 0.0001, 0},
		{"zero dt", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bubbles.BurstCount(tt.dist, tt.dt); got != tt.want {
				t.Errorf("expected %d bubbles, got %d", tt.want, got)
			}
		})
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
