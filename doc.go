// Package quads implements a batched quad renderer for GPU-accelerated
// terminal UIs, built on gogpu/wgpu.
//
// # Overview
//
// A Quad is one axis-aligned rectangle with a fill color, border color,
// per-corner border radii, and a border width. The renderer draws an
// ordered slice of quads into a target texture view with a single render
// pipeline: one instanced indexed draw of a unit quad per chunk, where the
// per-instance attributes position, size, and color each rectangle. Later
// quads draw on top of earlier ones (painter's algorithm), so overlapping
// UI layers -- cell backgrounds, selection overlays, the cursor block --
// compose by submission order alone.
//
// # Quick Start
//
//	pipeline, err := quads.New(device, queue, gputypes.TextureFormatBGRA8Unorm)
//	if err != nil {
//	    return err
//	}
//	defer pipeline.Destroy()
//
//	belt := quads.NewStagingBelt(device, queue, 0)
//	defer belt.Destroy()
//
//	// Per frame:
//	err = pipeline.Draw(encoder, view, belt, frame.Quads(),
//	    quads.Orthographic(width, height), scale,
//	    quads.Rectangle[uint32]{Width: width, Height: height})
//	// ... submit the encoder, then:
//	belt.Recall()
//
// # Ownership
//
// The Pipeline owns its GPU resources (pipeline, uniform buffer and bind
// group, unit-quad geometry, instance buffer) for its whole lifetime; the
// device, queue, command encoder, and target view are borrowed. Quad
// slices are copied into GPU memory during Draw and never retained.
//
// Neither Pipeline nor StagingBelt supports concurrent Draw calls: the
// uniform and instance buffers are single-buffered and overwritten in
// place each call.
package quads
