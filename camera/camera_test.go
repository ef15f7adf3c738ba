package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/config"
)

func testCamera(t *testing.T) *Camera {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return New(cfg.Camera, 1280, 800)
}

func TestNew(t *testing.T) {
	cam := testCamera(t)

	if cam.Eye != (mgl32.Vec3{0, 6, 80}) {
		t.Errorf("expected eye (0, 6, 80), got %v", cam.Eye)
	}
	if math.Abs(float64(cam.Aspect()-1.6)) > 1e-6 {
		t.Errorf("expected aspect 1.6, got %f", cam.Aspect())
	}
}

func TestProjectTargetCentered(t *testing.T) {
	cam := testCamera(t)

	// Look-at target should map to screen center
	ndc, visible := cam.ProjectNDC(cam.Target)
	if !visible {
		t.Fatal("expected target visible")
	}
	if math.Abs(float64(ndc[0])) > 1e-4 || math.Abs(float64(ndc[1])) > 1e-4 {
		t.Errorf("expected NDC (0, 0), got %v", ndc)
	}

	sx, sy, _ := cam.WorldToScreen(cam.Target)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-400)) > 0.01 {
		t.Errorf("expected screen center (640, 400), got (%f, %f)", sx, sy)
	}
}

func TestProjectBehindEyeInvisible(t *testing.T) {
	cam := testCamera(t)
	if _, visible := cam.ProjectNDC(mgl32.Vec3{0, 6, 120}); visible {
		t.Error("expected point behind the eye to be invisible")
	}
}

func TestRayRoundtrip(t *testing.T) {
	cam := testCamera(t)

	testCases := []mgl32.Vec2{
		{0, 0},       // center
		{-0.8, 0.7},  // top-left
		{0.6, -0.45}, // bottom-right
	}

	for _, tc := range testCases {
		ray := cam.Ray(tc[0], tc[1])
		if math.Abs(float64(ray.Direction.Len()-1)) > 1e-4 {
			t.Errorf("expected unit direction, got length %f", ray.Direction.Len())
		}
		// Any point along the ray projects back to the same NDC
		p := ray.Origin.Add(ray.Direction.Mul(40))
		ndc, _ := cam.ProjectNDC(p)
		if math.Abs(float64(ndc[0]-tc[0])) > 1e-3 || math.Abs(float64(ndc[1]-tc[1])) > 1e-3 {
			t.Errorf("roundtrip failed: %v -> %v -> %v", tc, p, ndc)
		}
	}
}

func TestPointerTargetOnAnchorPlane(t *testing.T) {
	cam := testCamera(t)
	anchor := mgl32.Vec3{5, -3, 10}

	target := cam.PointerTarget(0.3, -0.2, anchor)

	// Target lies on the plane through anchor facing the camera
	d := target.Sub(anchor).Dot(cam.Forward())
	if math.Abs(float64(d)) > 1e-3 {
		t.Errorf("expected target on the anchor plane, off by %f", d)
	}
	ndc, _ := cam.ProjectNDC(target)
	if math.Abs(float64(ndc[0]-0.3)) > 1e-3 || math.Abs(float64(ndc[1]+0.2)) > 1e-3 {
		t.Errorf("expected target under the pointer, got NDC %v", ndc)
	}
}

func TestPointerTargetAnchorBehindEye(t *testing.T) {
	cam := testCamera(t)
	target := cam.PointerTarget(0, 0, mgl32.Vec3{0, 6, 200})
	if _, visible := cam.ProjectNDC(target); !visible {
		t.Errorf("expected fallback target in front of the camera, got %v", target)
	}
}

func TestResizeChangesAspect(t *testing.T) {
	cam := testCamera(t)
	p := mgl32.Vec3{20, 0, 0}
	before, _ := cam.ProjectNDC(p)

	cam.Resize(800, 800)
	if cam.Aspect() != 1 {
		t.Errorf("expected aspect 1, got %f", cam.Aspect())
	}
	after, _ := cam.ProjectNDC(p)
	if after[0] <= before[0] {
		t.Errorf("expected narrower viewport to push x outward, before %f after %f", before[0], after[0])
	}
	if math.Abs(float64(after[1]-before[1])) > 1e-5 {
		t.Errorf("expected vertical NDC unchanged, before %f after %f", before[1], after[1])
	}
}

func TestResizeIgnoresEmptyViewport(t *testing.T) {
	cam := testCamera(t)
	cam.Resize(0, 0)
	if cam.ViewportW != 1280 || cam.ViewportH != 800 {
		t.Errorf("expected viewport kept at 1280x800, got %fx%f", cam.ViewportW, cam.ViewportH)
	}
}
