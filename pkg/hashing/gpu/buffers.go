package gpu

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// bufferSet holds the three buffers a mining batch needs: the padded header
// words (read-only storage, written by the host), the per-lane output
// (read-write storage, written by the shader) and the staging buffer the
// host maps to read the output back.
type bufferSet struct {
	header  hal.Buffer
	output  hal.Buffer
	staging hal.Buffer

	bindGroupLayout hal.BindGroupLayout
	bindGroup       hal.BindGroup

	batchSize uint32
}

// headerBufferSize is the padded block size in bytes (128 bytes = 32 words).
const headerBufferSize = 128

func newBufferSet(device hal.Device, batchSize uint32) (*bufferSet, error) {
	if batchSize == 0 {
		return nil, ErrInvalidBatchSize
	}
	if batchSize > math.MaxUint32/4 {
		return nil, ErrBatchOverflow
	}

	outputSize := uint64(batchSize) * 4

	header, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "header_buffer",
		Size:  headerBufferSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: header buffer: %v", ErrBufferCreation, err)
	}

	output, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "output_buffer",
		Size:  outputSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		device.DestroyBuffer(header)
		return nil, fmt.Errorf("%w: output buffer: %v", ErrBufferCreation, err)
	}

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "staging_buffer",
		Size:  outputSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		device.DestroyBuffer(header)
		device.DestroyBuffer(output)
		return nil, fmt.Errorf("%w: staging buffer: %v", ErrBufferCreation, err)
	}

	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mining_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
			},
		},
	})
	if err != nil {
		device.DestroyBuffer(header)
		device.DestroyBuffer(output)
		device.DestroyBuffer(staging)
		return nil, fmt.Errorf("%w: bind group layout: %v", ErrBufferCreation, err)
	}

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "mining_bind_group",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: header.NativeHandle(), Offset: 0, Size: headerBufferSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: output.NativeHandle(), Offset: 0, Size: outputSize}},
		},
	})
	if err != nil {
		device.DestroyBuffer(header)
		device.DestroyBuffer(output)
		device.DestroyBuffer(staging)
		device.DestroyBindGroupLayout(layout)
		return nil, fmt.Errorf("%w: bind group: %v", ErrBufferCreation, err)
	}

	return &bufferSet{
		header:          header,
		output:          output,
		staging:         staging,
		bindGroupLayout: layout,
		bindGroup:       bindGroup,
		batchSize:       batchSize,
	}, nil
}

func (b *bufferSet) destroy(device hal.Device) {
	device.DestroyBindGroup(b.bindGroup)
	device.DestroyBindGroupLayout(b.bindGroupLayout)
	device.DestroyBuffer(b.staging)
	device.DestroyBuffer(b.output)
	device.DestroyBuffer(b.header)
}
