package quads

import _ "embed"

//go:embed shaders/quad.wgsl
var quadShaderWGSL string
