package quads

import "golang.org/x/image/math/f32"

// Batch accumulates quads for one draw. It keeps its backing array
// across Reset, so a per-frame batch settles into a steady allocation.
// Not safe for concurrent use.
type Batch struct {
	quads []Quad
}

// Add appends a quad. Quads draw in the order they were added.
func (b *Batch) Add(q Quad) {
	b.quads = append(b.quads, q)
}

// AddRect appends a plain filled rectangle with no border.
func (b *Batch) AddRect(x, y, w, h float32, color f32.Vec4) {
	b.quads = append(b.quads, Quad{
		Position: f32.Vec2{x, y},
		Size:     f32.Vec2{w, h},
		Color:    color,
	})
}

// Len returns the number of quads in the batch.
func (b *Batch) Len() int {
	return len(b.quads)
}

// Quads returns the accumulated quads in insertion order. The slice
// aliases the batch's storage and is invalidated by Add and Reset.
func (b *Batch) Quads() []Quad {
	return b.quads
}

// Reset empties the batch, keeping capacity.
func (b *Batch) Reset() {
	b.quads = b.quads[:0]
}
