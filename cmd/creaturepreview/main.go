// Creature preview tool - a static creature driven by deformation sliders.
//
// Usage: go run ./cmd/creaturepreview [-config path] [-seed 42]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/camera"
	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
	"github.com/pthm-cable/squid/geometry"
	"github.com/pthm-cable/squid/renderer"
	"github.com/pthm-cable/squid/sim"
	"github.com/pthm-cable/squid/systems"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	panelWidth   = 300
	pulseDecay   = 1.0 / 3.0 // per second
)

// previewParams holds the slider-driven deformation inputs.
type previewParams struct {
	Speed    float32
	Hover    float32
	Turn     float32
	Yaw      float32 // degrees
	Spinning bool
	Paused   bool
}

func defaultParams() previewParams {
	return previewParams{Speed: 0.8, Yaw: 90}
}

func main() {
	configPath := flag.String("config", "", "Path to config file (empty uses embedded defaults)")
	seed := flag.Int64("seed", 42, "Geometry seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Creature Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	factory := geometry.NewFactory(cfg.Geometry, rand.New(rand.NewSource(*seed)))
	points := factory.Creature()
	deformed := make([]mgl32.Vec3, len(points))

	engine := systems.NewDeformationEngine(systems.NewNoiseField(cfg.Noise.Seed))
	cam := camera.New(cfg.Camera, windowWidth-panelWidth, windowHeight)
	points3D := renderer.NewPointRenderer(cam, nil)

	params := defaultParams()
	var t, pulse float32
	palette := cfg.Interaction.Palette
	colorIndex := 0

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		if !params.Paused {
			t += dt
		}
		if params.Spinning {
			params.Yaw = float32(math.Mod(float64(params.Yaw+20*dt), 360))
		}
		pulse = max(0, pulse-pulseDecay*dt)

		u := systems.Uniforms{
			Time:       t,
			Speed:      params.Speed,
			Hover:      params.Hover,
			Turn:       params.Turn,
			ClickPulse: pulse,
		}
		engine.DeformRange(points, deformed, u, 0, len(points))

		c := palette[colorIndex]
		frame := sim.FrameUniforms{
			Time:       t,
			Speed:      u.Speed,
			Hover:      u.Hover,
			Turn:       u.Turn,
			Agitation:  u.Agitation(),
			Glow:       u.Glow(),
			ClickPulse: pulse,
			ClickColor: mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])},
		}
		layer := sim.LayerView{
			Kind: components.LayerCreature,
			Transform: components.Transform{
				Orientation: mgl32.QuatRotate(mgl32.DegToRad(params.Yaw), mgl32.Vec3{0, 1, 0}),
			},
			Points:   points,
			Deformed: deformed,
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 10, G: 40, B: 70, A: 255})

		points3D.Draw([]sim.LayerView{layer}, frame)

		rl.DrawText(fmt.Sprintf("Points: %d  Agitation: %.2f  Glow: %.2f", len(points), frame.Agitation, frame.Glow), 10, windowHeight-50, 16, rl.RayWhite)
		rl.DrawText(fmt.Sprintf("Time: %.1f  FPS: %d", t, rl.GetFPS()), 10, windowHeight-28, 16, rl.RayWhite)

		// Control panel
		panelX := float32(windowWidth - panelWidth)
		rl.DrawRectangle(int32(panelX), 0, panelWidth, windowHeight, rl.Color{R: 235, G: 235, B: 235, A: 255})
		panelX += 10
		panelY := float32(10)

		rl.DrawText("Deformation Inputs", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		params.Speed, panelY = slider(panelX, panelY, "Speed (swim rate)", params.Speed, 0, 3)
		params.Hover, panelY = slider(panelX, panelY, "Hover (pointer proximity)", params.Hover, 0, 1)
		params.Turn, panelY = slider(panelX, panelY, "Turn (angular agitation)", params.Turn, 0, 1)
		params.Yaw, panelY = slider(panelX, panelY, "Yaw (degrees)", params.Yaw, 0, 360)

		params.Spinning = gui.CheckBox(rl.Rectangle{X: panelX, Y: panelY, Width: 18, Height: 18}, "Spin", params.Spinning)
		params.Paused = gui.CheckBox(rl.Rectangle{X: panelX + 120, Y: panelY, Width: 18, Height: 18}, "Freeze time", params.Paused)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 130, Height: 30}, "Pulse") {
			colorIndex = (colorIndex + 1) % len(palette)
			pulse = 1
		}
		if gui.Button(rl.Rectangle{X: panelX + 140, Y: panelY, Width: 130, Height: 30}, "Reset") {
			params = defaultParams()
			t, pulse = 0, 0
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 270, Height: 30}, "New Geometry") {
			factory = geometry.NewFactory(cfg.Geometry, rand.New(rand.NewSource(rand.Int63())))
			points = factory.Creature()
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and returns its value and the next row's y.
func slider(x, y float32, label string, value, lo, hi float32) (float32, float32) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	value = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 80, Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.2f", value), int32(x+panelWidth-70), int32(y+2), 16, rl.DarkGray)
	return value, y + 35
}
