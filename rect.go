package quads

// Scalar constrains the coordinate types a Rectangle can carry.
type Scalar interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Rectangle is an axis-aligned rectangle with origin at (X, Y).
type Rectangle[T Scalar] struct {
	X      T
	Y      T
	Width  T
	Height T
}

// Empty reports whether the rectangle covers no area.
func (r Rectangle[T]) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
