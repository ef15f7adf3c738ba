package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the result of one frame of the controls panel.
type ControlsState struct {
	Following bool
	Muted     bool
}

// ControlsPanel renders the follow and mute checkboxes plus the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	lastHeight int32 // height drawn last frame, for hit testing
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies over the panel, so clicks
// there are not passed to the scene.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.lastHeight)
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	r := c.renderer
	rows := int32(3) // title + two checkboxes
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	return rows*(r.Theme.LineHeight+4) + r.Theme.Padding*2
}

// Draw renders the panel and returns the state chosen this frame.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsState {
	if !c.visible {
		return state
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight + 4

	c.lastHeight = c.height(overlays)
	r.DrawPanel(c.x, c.y, c.width, c.lastHeight)

	x := float32(c.x + padding)
	y := c.y + padding

	rl.DrawText("Controls", int32(x), y, 16, rl.White)
	y += lineHeight

	box := func(y int32) rl.Rectangle {
		return rl.Rectangle{X: x, Y: float32(y), Width: 12, Height: 12}
	}

	state.Following = gui.CheckBox(box(y), "Follow pointer [double-click]", state.Following)
	y += lineHeight
	state.Muted = gui.CheckBox(box(y), "Mute audio [M]", state.Muted)
	y += lineHeight

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), int32(x), y, r.Theme.HeaderFontSize, r.Theme.Accent)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			if next := gui.CheckBox(box(y), label, enabled); next != enabled {
				overlays.SetEnabled(desc.ID, next)
			}
			y += lineHeight
		}
	}

	return state
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case CategoryLayers:
		return "Layers"
	case CategoryDebug:
		return "Debug"
	default:
		return cat
	}
}
