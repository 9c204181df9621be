package quads

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// span is a half-open index range into the instance slice.
type span struct {
	start int
	end   int
}

// instanceSpans partitions n instances into contiguous in-order chunks of
// at most capacity each.
func instanceSpans(n, capacity int) []span {
	if n <= 0 {
		return nil
	}
	spans := make([]span, 0, (n+capacity-1)/capacity)
	for start := 0; start < n; start += capacity {
		end := start + capacity
		if end > n {
			end = n
		}
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}

// Draw records render passes on encoder that paint instances into view,
// in slice order. The projection transform and scale factor are uploaded
// as uniforms for this draw; instance data goes through belt, so the
// caller must Recall the belt after submitting the encoder.
//
// Instance runs larger than the configured MaxInstances are split into
// consecutive passes, preserving order. Every pass loads the existing
// target contents, so quads composite over whatever was rendered before.
//
// A call with no instances records nothing at all: no passes and no
// uniform upload, since nothing would read the uniforms.
//
// bounds carries the target region in physical pixels. It is currently
// not applied.
// TODO: scissor passes to bounds once the fragment edge smoothing can be
// inset to match, so clipped quads keep hard edges at the clip border.
func (p *Pipeline) Draw(
	encoder hal.CommandEncoder,
	view hal.TextureView,
	belt *StagingBelt,
	instances []Quad,
	transform Transformation,
	scale float32,
	bounds Rectangle[uint32],
) error {
	if len(instances) == 0 {
		return nil
	}
	if encoder == nil {
		return fmt.Errorf("draw quads: %w", ErrNilEncoder)
	}
	if belt == nil {
		return fmt.Errorf("draw quads: %w", ErrNilBelt)
	}

	Logger().Debug("draw quads",
		"instances", len(instances),
		"transform", [16]float32(transform),
		"scale", scale,
		"bounds_w", bounds.Width, "bounds_h", bounds.Height)

	uniformData := makeUniformData(transform, scale)
	if err := belt.Write(encoder, p.uniformBuf, 0, uniformData); err != nil {
		return fmt.Errorf("draw quads: upload uniforms: %w", err)
	}

	for _, s := range instanceSpans(len(instances), p.maxInstances) {
		chunk := instances[s.start:s.end]
		data := buildInstanceData(chunk)
		if len(data) > p.maxInstances*QuadStride {
			return fmt.Errorf("draw quads: chunk of %d bytes: %w", len(data), ErrWriteTooLarge)
		}
		if err := belt.Write(encoder, p.instances, 0, data); err != nil {
			return fmt.Errorf("draw quads: upload instances [%d:%d]: %w", s.start, s.end, err)
		}

		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "quad_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:    view,
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			}},
		})
		rp.SetPipeline(p.pipeline)
		rp.SetBindGroup(0, p.uniforms, nil)
		rp.SetIndexBuffer(p.indices, gputypes.IndexFormatUint16, 0)
		rp.SetVertexBuffer(0, p.vertices, 0)
		rp.SetVertexBuffer(1, p.instances, 0)
		rp.DrawIndexed(indexCount, uint32(len(chunk)), 0, 0, 0)
		rp.End()
	}

	return nil
}
