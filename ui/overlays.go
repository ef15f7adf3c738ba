package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/squid/components"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Overlay IDs.
const (
	OverlayTrail         OverlayID = "trail"
	OverlayBubbles       OverlayID = "bubbles"
	OverlaySchool        OverlayID = "school"
	OverlayAmbient       OverlayID = "ambient"
	OverlayWanderTarget  OverlayID = "wander_target"
	OverlayPointerTarget OverlayID = "pointer_target"
	OverlayPerf          OverlayID = "perf"
)

// Overlay categories, in panel order.
const (
	CategoryLayers = "layers"
	CategoryDebug  = "debug"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // 0 = no key
	KeyLabel string // shown in the controls panel
	Category string
	Default  bool

	// Layer is the point layer hidden when the overlay is off. Only read when HasLayer.
	Layer    components.LayerKind
	HasLayer bool
}

// defaultOverlays lists every built-in overlay. Point layers start visible, debug views hidden.
var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayTrail, Name: "Ink Trail", Key: rl.KeyT, KeyLabel: "T", Category: CategoryLayers, Default: true,
		Layer: components.LayerTrail, HasLayer: true},
	{ID: OverlayBubbles, Name: "Bubbles", Key: rl.KeyB, KeyLabel: "B", Category: CategoryLayers, Default: true,
		Layer: components.LayerBubbles, HasLayer: true},
	{ID: OverlaySchool, Name: "School", Key: rl.KeyS, KeyLabel: "S", Category: CategoryLayers, Default: true,
		Layer: components.LayerSchool, HasLayer: true},
	{ID: OverlayAmbient, Name: "Marine Snow", Key: rl.KeyA, KeyLabel: "A", Category: CategoryLayers, Default: true,
		Layer: components.LayerAmbient, HasLayer: true},
	{ID: OverlayWanderTarget, Name: "Steering Target", Key: rl.KeyG, KeyLabel: "G", Category: CategoryDebug},
	{ID: OverlayPointerTarget, Name: "Pointer Ray", Key: rl.KeyR, KeyLabel: "R", Category: CategoryDebug},
	{ID: OverlayPerf, Name: "Performance", Key: rl.KeyP, KeyLabel: "P", Category: CategoryDebug},
}

// OverlayRegistry holds overlay descriptors and their on/off state.
type OverlayRegistry struct {
	descs   []OverlayDescriptor
	enabled []bool
	index   map[OverlayID]int
}

// NewOverlayRegistry creates a registry holding the built-in overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{index: make(map[OverlayID]int, len(defaultOverlays))}
	for _, d := range defaultOverlays {
		r.Register(d)
	}
	return r
}

// Register adds an overlay. Registering an existing ID replaces its descriptor and state.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	if i, ok := r.index[desc.ID]; ok {
		r.descs[i] = desc
		r.enabled[i] = desc.Default
		return
	}
	r.index[desc.ID] = len(r.descs)
	r.descs = append(r.descs, desc)
	r.enabled = append(r.enabled, desc.Default)
}

// Toggle flips an overlay and returns its new state. Unknown IDs stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.enabled[i] = !r.enabled[i]
	return r.enabled[i]
}

// SetEnabled sets an overlay's state. Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	if i, ok := r.index[id]; ok {
		r.enabled[i] = on
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	i, ok := r.index[id]
	return ok && r.enabled[i]
}

// ByCategory returns the overlays of one category in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descs {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.descs {
		seen := false
		for _, c := range cats {
			if c == d.Category {
				seen = true
				break
			}
		}
		if !seen {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key.
// It returns the overlay, its new state and whether any overlay matched.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	if key == 0 {
		return "", false, false
	}
	for i, d := range r.descs {
		if d.Key == key {
			r.enabled[i] = !r.enabled[i]
			return d.ID, r.enabled[i], true
		}
	}
	return "", false, false
}

// LayerVisible reports whether a point layer should be drawn.
// Layers without an overlay, such as the creature, are always visible.
func (r *OverlayRegistry) LayerVisible(kind components.LayerKind) bool {
	for i, d := range r.descs {
		if d.HasLayer && d.Layer == kind {
			return r.enabled[i]
		}
	}
	return true
}
