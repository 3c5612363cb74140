package gpu

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/apollolongship/gpuminer/pkg/hashing/header"
)

// batchMapTimeout bounds the single suspension point inside runBatch: the
// fence wait for the GPU to finish the dispatch and the copy-out.
const batchMapTimeout = 30 * time.Second

// BatchResult is the outcome of one dispatched batch: at most one lane
// reports a nonce, chosen by ascending lane index when more than one lane's
// output satisfies the kernel's predicate.
type BatchResult struct {
	Nonce uint32
	Found bool
}

// runBatch uploads the padded header words, dispatches batchSize/wgSize
// workgroups, copies the output buffer back through the staging buffer, and
// scans it for the first (lowest-lane) non-zero entry.
//
// This mirrors wgpu-rs's write_buffer -> dispatch -> copy_buffer_to_buffer
// -> submit -> map_async/poll(Wait) -> get_mapped_range sequence; the
// gogpu/wgpu/hal binding exposes that same ordering contract synchronously
// through Submit+Wait+ReadBuffer instead of a mapping callback.
func runBatch(device hal.Device, queue hal.Queue, bufs *bufferSet, pipeline *pipelineSet, words header.HeaderWords) (BatchResult, error) {
	headerBytes := wordsToBytes(words)
	if err := queue.WriteBuffer(bufs.header, 0, headerBytes); err != nil {
		return BatchResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mining_encoder"})
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: create command encoder: %v", ErrSubmitFailed, err)
	}
	if err := encoder.BeginEncoding("mining_batch"); err != nil {
		return BatchResult{}, fmt.Errorf("%w: begin encoding: %v", ErrSubmitFailed, err)
	}

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mining_pass"})
	computePass.SetPipeline(pipeline.pipeline)
	computePass.SetBindGroup(0, bufs.bindGroup, nil)
	workgroups := bufs.batchSize / pipeline.wgSize
	if workgroups == 0 {
		workgroups = 1
	}
	computePass.Dispatch(workgroups, 1, 1)
	computePass.End()

	outputSize := uint64(bufs.batchSize) * 4
	encoder.CopyBufferToBuffer(bufs.output, bufs.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outputSize},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: end encoding: %v", ErrSubmitFailed, err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: create fence: %v", ErrSubmitFailed, err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return BatchResult{}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	ok, err := device.Wait(fence, 1, batchMapTimeout)
	if err != nil || !ok {
		return BatchResult{}, fmt.Errorf("%w: wait ok=%v err=%v", ErrMapFailed, ok, err)
	}

	raw := make([]byte, outputSize)
	if err := queue.ReadBuffer(bufs.staging, 0, raw); err != nil {
		return BatchResult{}, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}

	for lane := uint32(0); lane < bufs.batchSize; lane++ {
		nonce := binary.LittleEndian.Uint32(raw[lane*4 : lane*4+4])
		if nonce != 0 {
			return BatchResult{Nonce: nonce, Found: true}, nil
		}
	}

	return BatchResult{}, nil
}

// wordsToBytes serializes the 32 header words for GPU upload. Each element
// of HeaderWords is a u32 value already derived from the header's bytes
// (big-endian, per header.ParseWords); the wire transfer to the GPU's
// storage buffer writes those values in the host's native order, exactly as
// wgpu-rs's bytemuck::cast_slice(words) does, so the shader's u32 reads
// reproduce the same word values the host computed.
func wordsToBytes(words header.HeaderWords) []byte {
	raw := make([]byte, 128)
	for i, word := range words {
		binary.LittleEndian.PutUint32(raw[i*4:i*4+4], word)
	}
	return raw
}
