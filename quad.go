package quads

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// QuadStride is the byte size of one packed Quad instance.
const QuadStride = 68

// Byte offsets of each field within a packed instance. The GPU vertex
// layout in quadInstanceLayout must agree with these.
const (
	quadOffsetPosition     = 0
	quadOffsetSize         = 8
	quadOffsetColor        = 16
	quadOffsetBorderColor  = 32
	quadOffsetBorderRadius = 48
	quadOffsetBorderWidth  = 64
)

// Quad describes one rectangle to draw. Position and Size are in logical
// pixels; Draw multiplies both by its scale argument before projecting.
// Colors are linear RGBA in [0, 1]. BorderRadius holds one radius per
// corner in the order top-left, top-right, bottom-right, bottom-left.
// A zero BorderWidth draws no border.
type Quad struct {
	Position     f32.Vec2
	Size         f32.Vec2
	Color        f32.Vec4
	BorderColor  f32.Vec4
	BorderRadius f32.Vec4
	BorderWidth  float32
}

// putQuad packs q into buf, which must be at least QuadStride bytes.
// Layout is little-endian IEEE 754, matching the instance vertex layout.
func putQuad(buf []byte, q *Quad) {
	putF32(buf[quadOffsetPosition:], q.Position[0])
	putF32(buf[quadOffsetPosition+4:], q.Position[1])
	putF32(buf[quadOffsetSize:], q.Size[0])
	putF32(buf[quadOffsetSize+4:], q.Size[1])
	for i, v := range q.Color {
		putF32(buf[quadOffsetColor+i*4:], v)
	}
	for i, v := range q.BorderColor {
		putF32(buf[quadOffsetBorderColor+i*4:], v)
	}
	for i, v := range q.BorderRadius {
		putF32(buf[quadOffsetBorderRadius+i*4:], v)
	}
	putF32(buf[quadOffsetBorderWidth:], q.BorderWidth)
}

// buildInstanceData packs quads into a contiguous instance buffer image,
// preserving slice order.
func buildInstanceData(quads []Quad) []byte {
	data := make([]byte, len(quads)*QuadStride)
	for i := range quads {
		putQuad(data[i*QuadStride:], &quads[i])
	}
	return data
}

func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}
