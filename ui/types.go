// Package ui draws the heads-up display and the toggle panels over the scene.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI colors and metrics.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	Accent      rl.Color // section headers
	Text        rl.Color
	BarTrack    rl.Color

	// BarScale colors a bar by fill: calm, excited, frantic.
	BarScale [3]rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns a deep-water palette.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:     rl.Color{R: 8, G: 18, B: 28, A: 220},
		PanelBorder: rl.Color{R: 40, G: 80, B: 100, A: 255},
		Accent:      rl.Color{R: 120, G: 220, B: 255, A: 255},
		Text:        rl.LightGray,
		BarTrack:    rl.Color{R: 30, G: 40, B: 50, A: 255},
		BarScale: [3]rl.Color{
			{R: 90, G: 200, B: 230, A: 255},
			{R: 230, G: 190, B: 90, A: 255},
			{R: 240, G: 100, B: 120, A: 255},
		},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
