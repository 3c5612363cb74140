package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// pipelineSet bundles the shader module and the compute pipeline built from
// it for a given workgroup size. Built once per size autotuning tries; the
// fastest one is kept as is and the others are destroyed.
type pipelineSet struct {
	shader         hal.ShaderModule
	pipelineLayout hal.PipelineLayout
	pipeline       hal.ComputePipeline
	wgSize         uint32
}

func newPipelineSet(device hal.Device, layout hal.BindGroupLayout, wgSize uint32) (*pipelineSet, error) {
	shader, err := assembleShader(device, wgSize)
	if err != nil {
		return nil, fmt.Errorf("assemble shader (wg_size=%d): %w", wgSize, err)
	}

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "mining_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "mining_pipeline",
		Layout:  pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		device.DestroyPipelineLayout(pipeLayout)
		device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}

	return &pipelineSet{shader: shader, pipelineLayout: pipeLayout, pipeline: pipeline, wgSize: wgSize}, nil
}

func (p *pipelineSet) destroy(device hal.Device) {
	device.DestroyComputePipeline(p.pipeline)
	device.DestroyPipelineLayout(p.pipelineLayout)
	device.DestroyShaderModule(p.shader)
}
