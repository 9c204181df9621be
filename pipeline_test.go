package quads

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func TestNewPipeline(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := New(device, queue, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer p.Destroy()

	if p.maxInstances != DefaultMaxInstances {
		t.Errorf("maxInstances = %d, want %d", p.maxInstances, DefaultMaxInstances)
	}
	if p.shader == nil {
		t.Error("expected non-nil shader")
	}
	if p.uniformLayout == nil {
		t.Error("expected non-nil uniform layout")
	}
	if p.pipeLayout == nil {
		t.Error("expected non-nil pipeline layout")
	}
	if p.pipeline == nil {
		t.Error("expected non-nil render pipeline")
	}
	if p.uniformBuf == nil {
		t.Error("expected non-nil uniform buffer")
	}
	if p.uniforms == nil {
		t.Error("expected non-nil bind group")
	}
	if p.vertices == nil {
		t.Error("expected non-nil vertex buffer")
	}
	if p.indices == nil {
		t.Error("expected non-nil index buffer")
	}
	if p.instances == nil {
		t.Error("expected non-nil instance buffer")
	}
}

func TestNewPipelineNilDevice(t *testing.T) {
	_, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := New(nil, queue, gputypes.TextureFormatBGRA8Unorm); !errors.Is(err, ErrNilDevice) {
		t.Errorf("err = %v, want ErrNilDevice", err)
	}
}

func TestNewPipelineNilQueue(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := New(device, nil, gputypes.TextureFormatBGRA8Unorm); !errors.Is(err, ErrNilQueue) {
		t.Errorf("err = %v, want ErrNilQueue", err)
	}
}

func TestNewPipelineConfigDefaults(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := NewWithConfig(device, queue, gputypes.TextureFormatBGRA8Unorm, Config{MaxInstances: -1})
	if err != nil {
		t.Fatalf("NewWithConfig failed: %v", err)
	}
	defer p.Destroy()

	if p.MaxInstances() != DefaultMaxInstances {
		t.Errorf("MaxInstances = %d, want %d", p.MaxInstances(), DefaultMaxInstances)
	}
}

func TestPipelineDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := New(device, queue, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	p.Destroy()

	if p.shader != nil || p.uniformLayout != nil || p.pipeLayout != nil || p.pipeline != nil {
		t.Error("pipeline resources not cleared after Destroy")
	}
	if p.uniformBuf != nil || p.uniforms != nil || p.vertices != nil || p.indices != nil || p.instances != nil {
		t.Error("buffer resources not cleared after Destroy")
	}

	// Second destroy is a no-op.
	p.Destroy()
}

func TestPipelineDestroyZeroValue(t *testing.T) {
	var p Pipeline
	p.Destroy()
}

func TestQuadBlendState(t *testing.T) {
	blend := quadBlendState()

	// src over dst: an opaque source replaces the destination color.
	over := func(src, dst, srcA float32) float32 {
		return src*srcFactor(blend.Color, srcA) + dst*dstFactor(blend.Color, srcA)
	}
	if got := over(0.8, 0.3, 1.0); !approxEq(got, 0.8) {
		t.Errorf("opaque src: got %v, want 0.8", got)
	}
	// Fully transparent source leaves the destination untouched.
	if got := over(0.8, 0.3, 0.0); !approxEq(got, 0.3) {
		t.Errorf("transparent src: got %v, want 0.3", got)
	}
	// Half-transparent source mixes linearly.
	if got := over(1.0, 0.0, 0.5); !approxEq(got, 0.5) {
		t.Errorf("half src: got %v, want 0.5", got)
	}

	// Alpha accumulates coverage: a = srcA + dstA * (1 - srcA).
	alpha := func(srcA, dstA float32) float32 {
		return srcA*alphaFactor(blend.Alpha.SrcFactor, srcA) + dstA*alphaFactor(blend.Alpha.DstFactor, srcA)
	}
	if got := alpha(1.0, 0.4); !approxEq(got, 1.0) {
		t.Errorf("opaque alpha: got %v, want 1.0", got)
	}
	if got := alpha(0.0, 0.4); !approxEq(got, 0.4) {
		t.Errorf("transparent alpha: got %v, want 0.4", got)
	}
}

func srcFactor(c gputypes.BlendComponent, srcA float32) float32 {
	return alphaFactor(c.SrcFactor, srcA)
}

func dstFactor(c gputypes.BlendComponent, srcA float32) float32 {
	return alphaFactor(c.DstFactor, srcA)
}

// alphaFactor evaluates the blend factors the pipeline configures.
func alphaFactor(f gputypes.BlendFactor, srcA float32) float32 {
	switch f {
	case gputypes.BlendFactorOne:
		return 1
	case gputypes.BlendFactorSrcAlpha:
		return srcA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - srcA
	default:
		return 0
	}
}
