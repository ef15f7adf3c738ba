// Package camera provides the fixed perspective camera that looks into the scene.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
)

// fallbackDepth is used when a pointer ray runs parallel to the target plane.
const fallbackDepth = 60

// Camera is a perspective view with a fixed eye and target.
// Only the viewport, and so the aspect ratio, changes at runtime.
type Camera struct {
	// Eye position and look-at target in world coordinates
	Eye, Target mgl32.Vec3
	Up          mgl32.Vec3

	// Vertical field of view in radians
	FovY float32

	// Clip planes
	Near, Far float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	view, proj, viewProj, invViewProj mgl32.Mat4
}

// New creates a camera from config for the given viewport.
func New(cfg config.CameraConfig, viewportW, viewportH float32) *Camera {
	c := &Camera{
		Eye:       vec3(cfg.Eye),
		Target:    vec3(cfg.Target),
		Up:        mgl32.Vec3{0, 1, 0},
		FovY:      mgl32.DegToRad(float32(cfg.FovY)),
		Near:      float32(cfg.Near),
		Far:       float32(cfg.Far),
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
	c.update()
	return c
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float32 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Eye)
	if d.Len() < 1e-6 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the camera-to-clip matrix.
func (c *Camera) Projection() mgl32.Mat4 { return c.proj }

// ViewProjection returns the combined world-to-clip matrix.
func (c *Camera) ViewProjection() mgl32.Mat4 { return c.viewProj }

// Resize updates viewport dimensions and the projection aspect.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	if viewportW <= 0 || viewportH <= 0 {
		// Minimized windows report zero; keep the last usable aspect
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.update()
}

// ProjectNDC converts a world position to normalized device coordinates.
// visible is false for points behind the eye or outside the frustum.
func (c *Camera) ProjectNDC(world mgl32.Vec3) (mgl32.Vec2, bool) {
	clip := c.viewProj.Mul4x1(world.Vec4(1))
	if clip[3] <= 1e-6 {
		return mgl32.Vec2{}, false
	}
	ndc := mgl32.Vec3{clip[0], clip[1], clip[2]}.Mul(1 / clip[3])
	visible := absf(ndc[0]) <= 1 && absf(ndc[1]) <= 1 && absf(ndc[2]) <= 1
	return mgl32.Vec2{ndc[0], ndc[1]}, visible
}

// WorldToScreen converts a world position to pixel coordinates.
func (c *Camera) WorldToScreen(world mgl32.Vec3) (sx, sy float32, visible bool) {
	ndc, visible := c.ProjectNDC(world)
	sx = (ndc[0] + 1) / 2 * c.ViewportW
	sy = (1 - ndc[1]) / 2 * c.ViewportH
	return sx, sy, visible
}

// Ray returns the world-space ray from the eye through an NDC position.
func (c *Camera) Ray(ndcX, ndcY float32) components.Ray {
	near := c.unproject(ndcX, ndcY, -1)
	far := c.unproject(ndcX, ndcY, 1)
	dir := far.Sub(near)
	if dir.Len() < 1e-6 {
		dir = c.Forward()
	} else {
		dir = dir.Normalize()
	}
	return components.Ray{Origin: near, Direction: dir}
}

// PointerTarget returns where the pointer ray crosses the plane facing the
// camera through anchor. The creature follows this point.
func (c *Camera) PointerTarget(ndcX, ndcY float32, anchor mgl32.Vec3) mgl32.Vec3 {
	ray := c.Ray(ndcX, ndcY)
	normal := c.Forward()
	denom := ray.Direction.Dot(normal)
	if absf(denom) < 1e-6 {
		return ray.Origin.Add(ray.Direction.Mul(fallbackDepth))
	}
	t := anchor.Sub(ray.Origin).Dot(normal) / denom
	if t < c.Near {
		// Anchor behind the eye; keep the target in front
		t = fallbackDepth
	}
	return ray.Origin.Add(ray.Direction.Mul(t))
}

func (c *Camera) unproject(ndcX, ndcY, ndcZ float32) mgl32.Vec3 {
	p := c.invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, ndcZ, 1})
	if absf(p[3]) < 1e-9 {
		return c.Eye
	}
	return p.Vec3().Mul(1 / p[3])
}

func (c *Camera) update() {
	c.view = mgl32.LookAtV(c.Eye, c.Target, c.Up)
	c.proj = mgl32.Perspective(c.FovY, c.Aspect(), c.Near, c.Far)
	c.viewProj = c.proj.Mul4(c.view)
	c.invViewProj = c.viewProj.Inv()
}

func vec3(a [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(a[0]), float32(a[1]), float32(a[2])}
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
