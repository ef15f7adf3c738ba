// Shader debug tool - renders the background shader to a PNG file for inspection.
//
// Usage: go run ./cmd/shaderdebug -glow 1.2 -pulse 0.8 -out debug.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/squid/renderer"
)

func main() {
	shaderPath := flag.String("shader", "", "Path to fragment shader (empty uses the built-in background)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	t := flag.Float64("time", 0, "Value of the time uniform")
	glow := flag.Float64("glow", 0.35, "Value of the glow uniform")
	pulse := flag.Float64("pulse", 0, "Value of the pulse uniform")
	flag.Parse()

	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	var shader rl.Shader
	if *shaderPath == "" {
		shader = rl.LoadShaderFromMemory("", renderer.BackgroundShaderSource())
	} else {
		shader = rl.LoadShader("", *shaderPath)
	}
	if shader.ID == 0 {
		fmt.Fprintf(os.Stderr, "Failed to load shader: %q\n", *shaderPath)
		os.Exit(1)
	}
	defer rl.UnloadShader(shader)

	// Locations that a custom shader does not declare come back as -1 and are ignored by raylib
	set := func(name string, v []float32, kind rl.ShaderUniformDataType) {
		rl.SetShaderValue(shader, rl.GetShaderLocation(shader, name), v, kind)
	}
	set("time", []float32{float32(*t)}, rl.ShaderUniformFloat)
	set("resolution", []float32{float32(*width), float32(*height)}, rl.ShaderUniformVec2)
	set("baseColor", []float32{10.0 / 255, 40.0 / 255, 70.0 / 255}, rl.ShaderUniformVec3)
	set("glow", []float32{float32(*glow)}, rl.ShaderUniformFloat)
	set("pulse", []float32{float32(*pulse)}, rl.ShaderUniformFloat)
	set("pulseColor", []float32{1.0, 0.35, 0.55}, rl.ShaderUniformVec3)

	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(shader)
	rl.DrawRectangle(0, 0, int32(*width), int32(*height), rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()

	// Flip to undo the OpenGL origin
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Shader rendered to: %s (%dx%d)\n", *outPath, *width, *height)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
