package quads

import "golang.org/x/image/math/f32"

// Transformation is a 4x4 projection matrix in column-major order, the
// layout WGSL expects for a mat4x4<f32> uniform.
type Transformation f32.Mat4

// Identity returns the identity transformation.
func Identity() Transformation {
	return Transformation{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Orthographic returns a projection that maps the pixel rectangle
// [0, width] x [0, height] onto clip space, with the origin at the top
// left and y growing downward.
func Orthographic(width, height float32) Transformation {
	return Transformation{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
}

// Translation returns a transformation that offsets by (x, y).
func Translation(x, y float32) Transformation {
	return Transformation{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, 0, 1,
	}
}

// Scale returns a uniform scale in x and y.
func Scale(s float32) Transformation {
	return Transformation{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns t * o, applying o first.
func (t Transformation) Mul(o Transformation) Transformation {
	var out Transformation
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += t[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}
