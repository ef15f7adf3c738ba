package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/sim"
)

// Base colors as linear RGB in [0,1].
var (
	bodyColor    = mgl32.Vec3{0.95, 0.55, 0.45}
	accentColor  = mgl32.Vec3{0.35, 0.85, 1.0}
	inkColor     = mgl32.Vec3{0.15, 0.1, 0.25}
	bubbleColor  = mgl32.Vec3{0.8, 0.95, 1.0}
	schoolColor  = mgl32.Vec3{0.6, 0.85, 0.8}
	ambientColor = mgl32.Vec3{0.45, 0.6, 0.7}
)

// Alpha ceilings per layer.
const (
	creatureAlpha = 0.9
	inkAlpha      = 0.55
	bubbleAlpha   = 0.8
	schoolAlpha   = 0.6
	ambientAlpha  = 0.35
)

// creatureColor blends body and accent by the point's mix, brightens with glow
// and tints toward the click color while a pulse is active.
func creatureColor(attr components.PointAttr, f sim.FrameUniforms) mgl32.Vec3 {
	c := lerp3(bodyColor, accentColor, attr.ColorMix)
	if attr.Region == components.RegionEyes {
		c = accentColor
	}
	c = c.Mul(0.6 + 0.4*f.Glow)
	if f.ClickPulse > 0 {
		c = lerp3(c, f.ClickColor, 0.6*f.ClickPulse)
	}
	return c
}

// layerColor returns the color and alpha of a point in a non-creature layer.
func layerColor(kind components.LayerKind, attr components.PointAttr) (mgl32.Vec3, float32) {
	switch kind {
	case components.LayerTrail:
		return inkColor, inkAlpha
	case components.LayerBubbles:
		return bubbleColor, bubbleAlpha
	case components.LayerSchool:
		return lerp3(schoolColor, accentColor, attr.ColorMix*0.3), schoolAlpha
	default:
		return lerp3(ambientColor, bubbleColor, attr.ColorMix*0.5), ambientAlpha
	}
}

// toColor converts a linear color and alpha to a raylib color, clamping each channel.
func toColor(c mgl32.Vec3, alpha float32) rl.Color {
	return rl.Color{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: channel(alpha),
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
