package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/camera"
	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/sim"
	"github.com/pthm-cable/squid/systems"
)

// pointScale converts a point's Size attribute into world units of radius.
const pointScale = 0.12

// minRadius keeps far points visible as single pixels.
const minRadius = 0.6

// PointRenderer draws every layer of the scene as screen-space dots.
type PointRenderer struct {
	cam   *camera.Camera
	drift *systems.AmbientDrift
}

// NewPointRenderer creates a renderer projecting through cam. drift may be nil.
func NewPointRenderer(cam *camera.Camera, drift *systems.AmbientDrift) *PointRenderer {
	return &PointRenderer{cam: cam, drift: drift}
}

// Draw renders the layers back to front: ambient, school, trail, creature, bubbles.
func (r *PointRenderer) Draw(layers []sim.LayerView, f sim.FrameUniforms) {
	order := [...]components.LayerKind{
		components.LayerAmbient,
		components.LayerSchool,
		components.LayerTrail,
		components.LayerCreature,
		components.LayerBubbles,
	}
	for _, kind := range order {
		for i := range layers {
			if layers[i].Kind == kind {
				r.drawLayer(&layers[i], f)
			}
		}
	}
}

func (r *PointRenderer) drawLayer(l *sim.LayerView, f sim.FrameUniforms) {
	for i := range l.Points {
		p := &l.Points[i]

		world, alpha, ok := r.pointWorld(l, i, f.Time)
		if !ok {
			continue
		}

		var c mgl32.Vec3
		if l.Kind == components.LayerCreature {
			c = creatureColor(p.Attr, f)
			alpha *= creatureAlpha
		} else {
			var a float32
			c, a = layerColor(l.Kind, p.Attr)
			alpha *= a
		}
		if alpha <= 0 {
			continue
		}

		sx, sy, visible := r.cam.WorldToScreen(world)
		if !visible {
			continue
		}
		radius := r.screenRadius(p.Attr.Size, world)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, toColor(c, alpha))
	}
}

// pointWorld returns where point i of l is drawn at time now, with its alpha.
// ok is false for dead emitter slots.
func (r *PointRenderer) pointWorld(l *sim.LayerView, i int, now float32) (mgl32.Vec3, float32, bool) {
	p := &l.Points[i]
	switch l.Kind {
	case components.LayerCreature:
		local := p.Position
		if l.Deformed != nil {
			local = l.Deformed[i]
		}
		return applyTransform(l.Transform, local), 1, true

	case components.LayerTrail, components.LayerBubbles:
		pos, alpha := systems.Evaluate(p, now, l.Lifetime, fadeFor(l.Kind))
		return pos, alpha, alpha > 0

	case components.LayerSchool:
		return applyTransform(l.Transform, p.Position), 1, true

	default:
		pos := p.Position
		if r.drift != nil {
			pos = pos.Add(r.drift.Offset(pos, now))
		}
		return pos, 1, true
	}
}

// screenRadius is the perspective-scaled pixel radius of a point.
func (r *PointRenderer) screenRadius(size float32, world mgl32.Vec3) float32 {
	dist := world.Sub(r.cam.Eye).Len()
	if dist < 1e-3 {
		dist = 1e-3
	}
	focal := r.cam.ViewportH / (2 * float32(math.Tan(float64(r.cam.FovY)/2)))
	radius := size * pointScale * focal / dist
	if radius < minRadius {
		radius = minRadius
	}
	return radius
}

// fadeFor returns the fade curve used by an emitter layer.
func fadeFor(kind components.LayerKind) systems.FadeCurve {
	if kind == components.LayerBubbles {
		return systems.FadeFast
	}
	return systems.FadeLinear
}

func applyTransform(t components.Transform, local mgl32.Vec3) mgl32.Vec3 {
	return t.Position.Add(t.Orientation.Rotate(local))
}
