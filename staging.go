package quads

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// defaultBeltChunkSize is the minimum staging buffer allocation. Small
// writes (uniforms, short instance runs) share this size so recycled
// buffers fit most frames without growing.
const defaultBeltChunkSize uint64 = 64 * 1024

// StagingBelt uploads data to GPU buffers through recycled staging
// buffers. Each Write takes its own staging buffer and records a copy
// into the target on the command encoder, so multiple writes to the same
// target within one command buffer each keep their bytes: queue writes
// all land before the command buffer runs, but every recorded copy reads
// from a distinct staging buffer.
//
// Usage per frame: any number of Write calls while recording, submit the
// encoder, then Recall to return the staging buffers to the free list.
// Not safe for concurrent use.
type StagingBelt struct {
	device    hal.Device
	queue     hal.Queue
	chunkSize uint64

	free     []beltBuffer
	inFlight []beltBuffer

	destroyed bool
}

type beltBuffer struct {
	buf  hal.Buffer
	size uint64
}

// NewStagingBelt creates a belt on device and queue. chunkSize is the
// minimum staging allocation in bytes; pass 0 for a sensible default.
func NewStagingBelt(device hal.Device, queue hal.Queue, chunkSize uint64) *StagingBelt {
	if chunkSize == 0 {
		chunkSize = defaultBeltChunkSize
	}
	return &StagingBelt{
		device:    device,
		queue:     queue,
		chunkSize: chunkSize,
	}
}

// Write uploads data to target at offset. The bytes are staged through a
// dedicated buffer and the copy is recorded on encoder, making the write
// visible to commands recorded after it. The staging buffer stays in
// flight until Recall.
func (b *StagingBelt) Write(encoder hal.CommandEncoder, target hal.Buffer, offset uint64, data []byte) error {
	if b.destroyed {
		return ErrBeltDestroyed
	}
	if encoder == nil {
		return fmt.Errorf("staging belt write: %w", ErrNilEncoder)
	}
	if len(data) == 0 {
		return nil
	}

	staging, err := b.acquire(uint64(len(data)))
	if err != nil {
		return fmt.Errorf("staging belt write: %w", err)
	}

	if err := b.queue.WriteBuffer(staging.buf, 0, data); err != nil {
		b.free = append(b.free, staging)
		return fmt.Errorf("staging belt write: %w", err)
	}
	encoder.CopyBufferToBuffer(staging.buf, target, []hal.BufferCopy{{
		SrcOffset: 0,
		DstOffset: offset,
		Size:      uint64(len(data)),
	}})

	b.inFlight = append(b.inFlight, staging)
	return nil
}

// acquire returns a free staging buffer of at least n bytes, creating
// one when none fits.
func (b *StagingBelt) acquire(n uint64) (beltBuffer, error) {
	for i, fb := range b.free {
		if fb.size >= n {
			b.free = append(b.free[:i], b.free[i+1:]...)
			return fb, nil
		}
	}

	size := nextPowerOfTwo(max(n, b.chunkSize))
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_staging",
		Size:  size,
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return beltBuffer{}, fmt.Errorf("create staging buffer (%d bytes): %w", size, err)
	}
	Logger().Debug("staging belt allocated buffer", "size", size)
	return beltBuffer{buf: buf, size: size}, nil
}

// Recall returns all in-flight staging buffers to the free list. Call it
// after the command buffer holding their copies has been submitted.
func (b *StagingBelt) Recall() {
	if b.destroyed {
		return
	}
	b.free = append(b.free, b.inFlight...)
	b.inFlight = b.inFlight[:0]
}

// Pending returns the number of writes recorded since the last Recall.
func (b *StagingBelt) Pending() int {
	return len(b.inFlight)
}

// Destroy releases all staging buffers. The belt must not be used
// afterwards. Safe to call more than once.
func (b *StagingBelt) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	for _, fb := range b.inFlight {
		b.device.DestroyBuffer(fb.buf)
	}
	for _, fb := range b.free {
		b.device.DestroyBuffer(fb.buf)
	}
	b.inFlight = nil
	b.free = nil
}

func nextPowerOfTwo(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}
