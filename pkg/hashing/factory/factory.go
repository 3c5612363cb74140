// Package factory selects and manages the hashing method the driver uses:
// the GPU engine when a compatible adapter is detected, falling back to the
// software reference implementation otherwise.
package factory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apollolongship/gpuminer/pkg/hashing/core"
	"github.com/apollolongship/gpuminer/pkg/hashing/hardware"
	enginegpu "github.com/apollolongship/gpuminer/pkg/hashing/methods/gpu"
	"github.com/apollolongship/gpuminer/pkg/hashing/methods/software"
)

// HashMethodConfig contains configuration for hash method selection.
type HashMethodConfig struct {
	// Preferred method order (highest priority first)
	PreferredOrder []string `json:"preferred_order"`

	// GPUBatchSize is the lane count the GPU method dispatches per batch.
	GPUBatchSize uint32 `json:"gpu_batch_size"`

	// EnableFallback is stored and persisted with the configuration; method
	// selection does not read it, and the software method is selected
	// whenever no earlier method in PreferredOrder is available.
	EnableFallback bool `json:"enable_fallback"`
}

// DefaultHashMethodConfig returns a sensible default configuration.
func DefaultHashMethodConfig() *HashMethodConfig {
	return &HashMethodConfig{
		PreferredOrder: []string{
			"gpu",      // 1. GPU compute engine
			"software", // 2. Software fallback
		},
		GPUBatchSize:   1 << 16,
		EnableFallback: true,
	}
}

// HashMethodFactory creates and manages hash method instances.
type HashMethodFactory struct {
	config   *HashMethodConfig
	methods  map[string]core.HashMethod
	best     core.HashMethod
	detected map[string]bool
}

// NewHashMethodFactory creates a new factory with the given configuration.
func NewHashMethodFactory(config *HashMethodConfig) *HashMethodFactory {
	if config == nil {
		config = DefaultHashMethodConfig()
	}

	factory := &HashMethodFactory{
		config:   config,
		methods:  make(map[string]core.HashMethod),
		detected: make(map[string]bool),
	}

	factory.detectMethods()
	factory.selectBestMethod()

	return factory
}

// detectMethods performs hardware detection for all available methods.
func (f *HashMethodFactory) detectMethods() {
	detector := hardware.NewDeviceDetector()
	detected := detector.DetectAvailableMethods()

	gpuMethod := enginegpu.NewGPUMethod()
	gpuMethod.SetBatchSize(f.config.GPUBatchSize)
	f.methods["gpu"] = gpuMethod
	f.detected["gpu"] = detected["gpu"]

	softwareMethod := software.NewSoftwareMethod()
	f.methods["software"] = softwareMethod
	f.detected["software"] = true
}

// selectBestMethod chooses the best available method based on configuration.
func (f *HashMethodFactory) selectBestMethod() {
	for _, methodName := range f.config.PreferredOrder {
		if method, exists := f.methods[methodName]; exists {
			if method.IsAvailable() {
				f.best = method
				return
			}
		}
	}

	if softwareMethod, exists := f.methods["software"]; exists {
		f.best = softwareMethod
	}
}

// GetBestMethod returns the currently selected best hashing method.
func (f *HashMethodFactory) GetBestMethod() core.HashMethod {
	return f.best
}

// GetMethod returns a specific hashing method by name.
func (f *HashMethodFactory) GetMethod(name string) core.HashMethod {
	if method, exists := f.methods[name]; exists {
		return method
	}
	return nil
}

// GetAllMethods returns every registered hashing method, available or not.
func (f *HashMethodFactory) GetAllMethods() map[string]core.HashMethod {
	result := make(map[string]core.HashMethod)
	for name, method := range f.methods {
		result[name] = method
	}
	return result
}

// GetAvailableMethods returns all available hashing methods.
func (f *HashMethodFactory) GetAvailableMethods() map[string]core.HashMethod {
	result := make(map[string]core.HashMethod)
	for name, method := range f.methods {
		if method.IsAvailable() {
			result[name] = method
		}
	}
	return result
}

// GetDetectionReport returns a report of detected methods and their status.
func (f *HashMethodFactory) GetDetectionReport() *DetectionReport {
	report := &DetectionReport{
		Methods:        make([]*MethodStatus, 0),
		BestMethod:     "none",
		TotalMethods:   len(f.methods),
		AvailableCount: 0,
	}

	methodNames := make([]string, 0, len(f.methods))
	for _, name := range f.config.PreferredOrder {
		if _, exists := f.methods[name]; exists {
			methodNames = append(methodNames, name)
		}
	}
	for name := range f.methods {
		found := false
		for _, preferred := range f.config.PreferredOrder {
			if name == preferred {
				found = true
				break
			}
		}
		if !found {
			methodNames = append(methodNames, name)
		}
	}

	for _, name := range methodNames {
		method := f.methods[name]
		available := f.detected[name]
		caps := method.GetCapabilities()

		status := &MethodStatus{
			Name:         name,
			Available:    available,
			Priority:     f.getPriority(name),
			Capabilities: caps,
			Description:  f.getMethodDescription(name),
		}

		report.Methods = append(report.Methods, status)

		if available {
			report.AvailableCount++
		}
	}

	if f.best != nil {
		report.BestMethod = f.best.Name()
	}

	return report
}

// getPriority returns the priority index of a method.
func (f *HashMethodFactory) getPriority(name string) int {
	for i, preferred := range f.config.PreferredOrder {
		if name == preferred {
			return i
		}
	}
	return 999
}

// getMethodDescription returns a human-readable description for a method.
func (f *HashMethodFactory) getMethodDescription(name string) string {
	descriptions := map[string]string{
		"gpu":      "GPU compute engine driving a double-SHA-256 mining shader",
		"software": "Pure Go software fallback using crypto/sha256",
	}

	if desc, exists := descriptions[name]; exists {
		return desc
	}
	return "Unknown hashing method"
}

// InitializeBestMethod initializes the selected best method.
func (f *HashMethodFactory) InitializeBestMethod() error {
	if f.best == nil {
		return fmt.Errorf("no method selected")
	}
	return f.best.Initialize()
}

// ShutdownAll shuts down all methods.
func (f *HashMethodFactory) ShutdownAll() error {
	var errors []string

	for name, method := range f.methods {
		if err := method.Shutdown(); err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", name, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("shutdown errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// ReinitializeDetection re-runs hardware detection and method selection.
func (f *HashMethodFactory) ReinitializeDetection() {
	f.ShutdownAll()
	f.detectMethods()
	f.selectBestMethod()
}

// DetectionReport contains the results of hardware detection.
type DetectionReport struct {
	Methods        []*MethodStatus `json:"methods"`
	BestMethod     string          `json:"best_method"`
	TotalMethods   int             `json:"total_methods"`
	AvailableCount int             `json:"available_count"`
}

// MethodStatus describes the status of a single hashing method.
type MethodStatus struct {
	Name         string             `json:"name"`
	Available    bool               `json:"available"`
	Priority     int                `json:"priority"`
	Capabilities *core.Capabilities `json:"capabilities"`
	Description  string             `json:"description"`
}

// SortMethodsByPriority sorts methods by priority (helper for reports).
func SortMethodsByPriority(methods []*MethodStatus) {
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].Priority < methods[j].Priority
	})
}
