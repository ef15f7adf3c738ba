package components

import "github.com/go-gl/mathgl/mgl32"

// InteractionSignal is the pointer state for one frame. It has no identity across frames.
type InteractionSignal struct {
	NDCX, NDCY float32
	Active     bool // both axes within [-1, 1]
}

// ClickPulse is the transient highlight started by clicking the creature.
type ClickPulse struct {
	Active     bool
	Value      float32 // eases toward 1 while active, back to 0 afterwards
	Color      mgl32.Vec3
	ColorIndex int     // palette index of Color, -1 before the first click
	Expiry     float32 // seconds until Active clears
}

// Ray is a world-space half line used for picking.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // unit length
}
