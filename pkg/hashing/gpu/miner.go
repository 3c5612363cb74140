// Package gpu drives a portable GPU compute API (a wgpu/WebGPU-style
// instance/adapter/device/queue stack) to search a Bitcoin-family block
// header's nonce space via a double-SHA-256 compute shader. It realizes
// components C3 through C8: GPU context, buffer fabric, shader assembly,
// the mining pipeline, the batch executor and the workgroup-size autotuner.
package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/apollolongship/gpuminer/pkg/hashing/header"
)

// Miner owns a GPU context, its buffer fabric and the compute pipeline
// tuned for it. It is the realization of the spec's MinerState: one
// instance per logical mining session, single-threaded except for the two
// suspension points documented on New and RunBatch.
type Miner struct {
	mu sync.Mutex

	ctx       *Context
	bufs      *bufferSet
	pipeline  *pipelineSet
	batchSize uint32
	wgSize    uint32
}

// New opens a GPU context on the given backend, allocates the buffer
// fabric for batchSize lanes, and builds an initial pipeline at a default
// workgroup size of 64 (matching the reference miner's startup default).
// Call Autotune afterward to replace it with the fastest size for this
// device. The only suspension point here is the adapter/device request
// inside NewContext.
func New(backend gputypes.Backend, batchSize uint32) (*Miner, error) {
	if batchSize == 0 {
		return nil, ErrInvalidBatchSize
	}

	ctx, err := NewContext(backend)
	if err != nil {
		return nil, err
	}

	bufs, err := newBufferSet(ctx.Device(), batchSize)
	if err != nil {
		ctx.Close()
		return nil, err
	}

	const defaultWGSize = 64
	pipeline, err := newPipelineSet(ctx.Device(), bufs.bindGroupLayout, defaultWGSize)
	if err != nil {
		bufs.destroy(ctx.Device())
		ctx.Close()
		return nil, err
	}

	return &Miner{
		ctx:       ctx,
		bufs:      bufs,
		pipeline:  pipeline,
		batchSize: batchSize,
		wgSize:    defaultWGSize,
	}, nil
}

// Autotune replaces the miner's pipeline with the fastest power-of-two
// workgroup size found by sweeping candidates against an all-zero header.
func (m *Miner) Autotune() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	best, size, err := autotune(m.ctx, m.bufs)
	if err != nil {
		return err
	}

	m.pipeline.destroy(m.ctx.Device())
	m.pipeline = best
	m.wgSize = size
	return nil
}

// WorkgroupSize reports the workgroup size currently in effect.
func (m *Miner) WorkgroupSize() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wgSize
}

// AdapterName reports the name of the GPU adapter backing this miner.
func (m *Miner) AdapterName() string {
	return m.ctx.AdapterName
}

// RunBatch dispatches one mining batch over words, the padded header's 32
// words with the nonce slot pre-populated by the caller (the GPU kernel
// re-derives each lane's own nonce from its invocation id; the caller's
// nonce word only participates via the rest of the header state). The one
// suspension point is the fence wait for the GPU to finish the dispatch and
// copy-out.
func (m *Miner) RunBatch(words header.HeaderWords) (BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return runBatch(m.ctx.Device(), m.ctx.Queue(), m.bufs, m.pipeline, words)
}

// BatchSize returns the number of lanes (nonces) dispatched per batch.
func (m *Miner) BatchSize() uint32 { return m.batchSize }

// Close releases the pipeline, buffer fabric and GPU context, in that
// order. Safe to call once; a second call is a no-op.
func (m *Miner) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx == nil {
		return nil
	}
	if m.pipeline != nil {
		m.pipeline.destroy(m.ctx.Device())
		m.pipeline = nil
	}
	if m.bufs != nil {
		m.bufs.destroy(m.ctx.Device())
		m.bufs = nil
	}
	m.ctx.Close()
	m.ctx = nil
	return nil
}

// Probe reports whether a compute-capable GPU adapter is reachable on the
// given backend, without retaining any GPU resources. Used by capability
// reporting (pkg/hashing/hardware) and the factory's method detection.
func Probe(backend gputypes.Backend) (adapterName string, available bool) {
	ctx, err := NewContext(backend)
	if err != nil {
		return "", false
	}
	name := ctx.AdapterName
	ctx.Close()
	return name, true
}

// DefaultBackend is the backend callers pass to Probe and New when they
// have no more specific preference; Vulkan is the one backend this module
// registers at init time.
var DefaultBackend = gputypes.BackendVulkan

// ValidateWorkgroupSize reports whether size divides evenly into
// batchSize, the precondition runBatch's dispatch-count arithmetic
// requires.
func ValidateWorkgroupSize(batchSize, size uint32) error {
	if size == 0 || batchSize%size != 0 {
		return fmt.Errorf("%w: batch_size=%d not divisible by wg_size=%d", ErrInvalidBatchSize, batchSize, size)
	}
	return nil
}
