// Package gpu adapts pkg/hashing/gpu.Miner to the core.HashMethod interface
// so the factory can select it alongside the software fallback.
package gpu

import (
	"fmt"
	"sync"

	"github.com/apollolongship/gpuminer/pkg/hashing/core"
	enginegpu "github.com/apollolongship/gpuminer/pkg/hashing/gpu"
	"github.com/apollolongship/gpuminer/pkg/hashing/header"
)

// defaultBatchSize is the lane count a freshly constructed GPUMethod
// dispatches per batch before any caller reconfigures it.
const defaultBatchSize = 1 << 16

// GPUMethod implements core.HashMethod by driving enginegpu.Miner.
type GPUMethod struct {
	mu          sync.RWMutex
	miner       *enginegpu.Miner
	canon       *core.CanonicalSHA256
	batchSize   uint32
	initialized bool
	available   bool
	adapterName string
}

// NewGPUMethod probes for a usable adapter without opening a device yet;
// Initialize does the actual device/queue/pipeline construction.
func NewGPUMethod() *GPUMethod {
	name, available := enginegpu.Probe(enginegpu.DefaultBackend)
	return &GPUMethod{
		canon:       core.NewCanonicalSHA256(),
		batchSize:   defaultBatchSize,
		available:   available,
		adapterName: name,
	}
}

func (m *GPUMethod) Name() string { return "GPU Mining Engine" }

func (m *GPUMethod) IsAvailable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available
}

func (m *GPUMethod) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return fmt.Errorf("gpu method: no compute-capable adapter available")
	}

	miner, err := enginegpu.New(enginegpu.DefaultBackend, m.batchSize)
	if err != nil {
		m.available = false
		return fmt.Errorf("gpu method: %w", err)
	}
	if err := miner.Autotune(); err != nil {
		miner.Close()
		return fmt.Errorf("gpu method: autotune: %w", err)
	}

	m.miner = miner
	m.initialized = true
	return nil
}

func (m *GPUMethod) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.miner != nil {
		if err := m.miner.Close(); err != nil {
			return err
		}
		m.miner = nil
	}
	m.initialized = false
	return nil
}

// ComputeHash delegates to the CPU reference implementation; the GPU
// pipeline is purpose-built for the header mining search, not for hashing
// arbitrary byte slices one at a time.
func (m *GPUMethod) ComputeHash(data []byte) ([32]byte, error) {
	return m.canon.ComputeDoubleSHA256(data), nil
}

func (m *GPUMethod) ComputeBatch(data [][]byte) ([][32]byte, error) {
	out := make([][32]byte, len(data))
	for i, d := range data {
		out[i] = m.canon.ComputeDoubleSHA256(d)
	}
	return out, nil
}

// MineHeader pads and re-dispatches batches over the GPU until a lane
// reports a hit or nonceEnd is exhausted, rolling the header's timestamp
// word between batches the way the reference driver's search loop does.
func (m *GPUMethod) MineHeader(headerBytes []byte, nonceStart, nonceEnd uint32) (uint32, bool, error) {
	if len(headerBytes) != 80 {
		return 0, false, fmt.Errorf("gpu method: header must be exactly 80 bytes, got %d", len(headerBytes))
	}

	m.mu.RLock()
	miner := m.miner
	m.mu.RUnlock()
	if miner == nil || !m.initialized {
		return 0, false, fmt.Errorf("gpu method: not initialized")
	}

	var fixed [80]byte
	copy(fixed[:], headerBytes)
	padded := header.Preprocess(fixed)
	words := header.ParseWords(padded)

	batchSize := miner.BatchSize()
	for nonce := nonceStart; nonce <= nonceEnd; {
		result, err := miner.RunBatch(words)
		if err != nil {
			return 0, false, fmt.Errorf("gpu method: %w", err)
		}
		if result.Found {
			return result.Nonce, true, nil
		}

		words.RollTimestamp(1)

		if nonceEnd-nonce < batchSize {
			break
		}
		nonce += batchSize
	}

	return 0, false, nil
}

func (m *GPUMethod) GetCapabilities() *core.Capabilities {
	m.mu.RLock()
	defer m.mu.RUnlock()

	caps := &core.Capabilities{
		Name:            m.Name(),
		IsHardware:      true,
		ProductionReady: m.available,
		MaxBatchSize:    int(m.batchSize),
	}
	if m.miner != nil {
		caps.HardwareInfo = &core.HardwareInfo{
			DevicePath:     m.adapterName,
			ConnectionType: "vulkan",
		}
	} else if m.adapterName != "" {
		caps.HardwareInfo = &core.HardwareInfo{DevicePath: m.adapterName}
	}
	if !m.available {
		caps.Reason = "no compute-capable GPU adapter found"
	}
	return caps
}

// SetBatchSize configures the lane count used on the next Initialize call.
func (m *GPUMethod) SetBatchSize(size uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchSize = size
}
