package quads

// uniformsSize is the byte size of the shader's Globals uniform block:
// a mat4x4<f32> followed by the scale factor, padded to a 16-byte
// multiple as std140 requires.
const uniformsSize = 80

// makeUniformData packs the projection matrix and scale factor into the
// Globals uniform layout.
func makeUniformData(transform Transformation, scale float32) []byte {
	data := make([]byte, uniformsSize)
	for i, v := range transform {
		putF32(data[i*4:], v)
	}
	putF32(data[64:], scale)
	return data
}
