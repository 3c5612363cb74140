// Package software implements the CPU reference core.HashMethod: the
// always-available fallback the factory selects when no GPU adapter is
// reachable, and the baseline every GPU result can be checked against.
package software

import (
	"fmt"
	"sync"

	"github.com/apollolongship/gpuminer/pkg/hashing/core"
)

// SoftwareMethod implements core.HashMethod using the canonical Go
// double-SHA-256 implementation, no hardware acceleration.
type SoftwareMethod struct {
	initialized bool
	mutex       sync.RWMutex
	canon       *core.CanonicalSHA256
	caps        *core.Capabilities
}

// NewSoftwareMethod creates a new software hashing method.
func NewSoftwareMethod() *SoftwareMethod {
	return &SoftwareMethod{
		canon: core.NewCanonicalSHA256(),
	}
}

// Name returns the human-readable name of the hashing method.
func (m *SoftwareMethod) Name() string {
	return "Software Fallback"
}

// IsAvailable returns true if this hashing method is available on the current system.
func (m *SoftwareMethod) IsAvailable() bool {
	return true
}

// Initialize performs any necessary setup for the hashing method.
func (m *SoftwareMethod) Initialize() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.initialized = true
	return nil
}

// Shutdown performs cleanup and shuts down the hashing method.
func (m *SoftwareMethod) Shutdown() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.initialized = false
	return nil
}

// ComputeHash computes a single double-SHA-256 hash.
func (m *SoftwareMethod) ComputeHash(data []byte) ([32]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if !m.initialized {
		return [32]byte{}, fmt.Errorf("software method not initialized")
	}

	return m.canon.ComputeDoubleSHA256(data), nil
}

// ComputeBatch computes multiple double-SHA-256 hashes.
func (m *SoftwareMethod) ComputeBatch(data [][]byte) ([][32]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if !m.initialized {
		return nil, fmt.Errorf("software method not initialized")
	}

	results := make([][32]byte, len(data))
	for i, d := range data {
		results[i] = m.canon.ComputeDoubleSHA256(d)
	}

	return results, nil
}

// MineHeader performs Bitcoin-style mining on an 80-byte header by scanning
// nonceStart..nonceEnd on the CPU.
func (m *SoftwareMethod) MineHeader(header []byte, nonceStart, nonceEnd uint32) (uint32, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if !m.initialized {
		return 0, false, fmt.Errorf("software method not initialized")
	}

	return m.canon.MineForNonce(header, nonceStart, nonceEnd)
}

// GetCapabilities returns the capabilities and performance characteristics.
func (m *SoftwareMethod) GetCapabilities() *core.Capabilities {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.caps == nil {
		m.caps = &core.Capabilities{
			Name:            "Software Fallback",
			IsHardware:      false,
			HashRate:        1_000_000,
			ProductionReady: true,
			MaxBatchSize:    100,
			AvgLatencyUs:    1000,
		}
	}

	return m.caps
}
