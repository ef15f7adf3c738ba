package systems

// Ring is a fixed-capacity circular buffer. Writes never fail: once the cursor
// wraps, the oldest slot is overwritten.
type Ring[T any] struct {
	slots   []T
	cursor  int
	written uint64
}

// NewRing allocates a ring with every slot set to init.
func NewRing[T any](capacity int, init T) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	slots := make([]T, capacity)
	for i := range slots {
		slots[i] = init
	}
	// Start one slot before zero so the first write lands in slot 0
	return &Ring[T]{slots: slots, cursor: capacity - 1}
}

// Next advances the cursor and returns the slot to overwrite.
func (r *Ring[T]) Next() *T {
	r.cursor = (r.cursor + 1) % len(r.slots)
	r.written++
	return &r.slots[r.cursor]
}

// Push overwrites the next slot with v and returns its index.
func (r *Ring[T]) Push(v T) int {
	*r.Next() = v
	return r.cursor
}

// Cursor returns the index of the most recently written slot.
func (r *Ring[T]) Cursor() int {
	return r.cursor
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.slots)
}

// Written returns the total number of writes since creation.
func (r *Ring[T]) Written() uint64 {
	return r.written
}

// Slots exposes the backing storage in slot order (not write order).
func (r *Ring[T]) Slots() []T {
	return r.slots
}

// At returns the slot at index i.
func (r *Ring[T]) At(i int) *T {
	return &r.slots[i]
}
