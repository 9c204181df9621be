package quads

import "errors"

// Sentinel errors for programmer-error conditions. They are wrapped with
// context by the functions that return them; match with errors.Is.
var (
	ErrNilDevice     = errors.New("quads: nil device")
	ErrNilQueue      = errors.New("quads: nil queue")
	ErrNilEncoder    = errors.New("quads: nil encoder")
	ErrNilBelt       = errors.New("quads: nil staging belt")
	ErrBeltDestroyed = errors.New("quads: staging belt destroyed")
	ErrWriteTooLarge = errors.New("quads: write exceeds target buffer size")
)
