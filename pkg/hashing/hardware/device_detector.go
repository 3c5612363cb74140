// Package hardware detects which hashing methods are usable on the current
// host: the GPU compute path when a compatible adapter is reachable, and
// the software fallback, which always is. It also folds in host resource
// reporting (CPU and memory) via gopsutil for the detection report.
package hardware

import (
	"fmt"
	"runtime"
	"strings"

	psmem "github.com/shirou/gopsutil/v3/mem"

	"github.com/apollolongship/gpuminer/pkg/hashing/core"
	"github.com/apollolongship/gpuminer/pkg/hashing/gpu"
)

// DeviceDetector performs hardware detection for available hashing methods.
type DeviceDetector struct {
	detectedMethods map[string]bool
	capabilities    map[string]*core.Capabilities
}

// NewDeviceDetector creates a new hardware detector.
func NewDeviceDetector() *DeviceDetector {
	return &DeviceDetector{
		detectedMethods: make(map[string]bool),
		capabilities:    make(map[string]*core.Capabilities),
	}
}

// DetectAvailableMethods performs comprehensive hardware detection.
func (d *DeviceDetector) DetectAvailableMethods() map[string]bool {
	d.detectGPU()
	d.detectSoftware()

	return d.detectedMethods
}

// detectGPU probes for a compute-capable GPU adapter without retaining any
// GPU resources.
func (d *DeviceDetector) detectGPU() {
	name, available := gpu.Probe(gpu.DefaultBackend)
	if !available {
		d.detectedMethods["gpu"] = false
		d.capabilities["gpu"] = &core.Capabilities{
			Name:            "GPU Mining Engine",
			IsHardware:      true,
			ProductionReady: false,
			Reason:          "no compute-capable GPU adapter found",
		}
		return
	}

	d.detectedMethods["gpu"] = true
	d.capabilities["gpu"] = &core.Capabilities{
		Name:            "GPU Mining Engine",
		IsHardware:      true,
		ProductionReady: true,
		MaxBatchSize:    1 << 20,
		HardwareInfo: &core.HardwareInfo{
			DevicePath:     name,
			ConnectionType: "vulkan",
			Metadata: map[string]string{
				"detected_by": "adapter_enumeration",
			},
		},
	}
}

// detectSoftware always reports the software method available, and
// attaches host CPU/memory figures gathered via gopsutil.
func (d *DeviceDetector) detectSoftware() {
	d.detectedMethods["software"] = true

	metadata := map[string]string{
		"os":          runtime.GOOS,
		"arch":        runtime.GOARCH,
		"num_cpu":     fmt.Sprintf("%d", runtime.NumCPU()),
		"detected_by": "runtime_detection",
	}
	if vm, err := psmem.VirtualMemory(); err == nil {
		metadata["total_memory_mb"] = fmt.Sprintf("%d", vm.Total/(1024*1024))
		metadata["available_memory_mb"] = fmt.Sprintf("%d", vm.Available/(1024*1024))
	}

	d.capabilities["software"] = &core.Capabilities{
		Name:            "Software Fallback",
		IsHardware:      false,
		HashRate:        1_000_000,
		ProductionReady: true,
		MaxBatchSize:    100,
		AvgLatencyUs:    1000,
		HardwareInfo: &core.HardwareInfo{
			DevicePath:     "software",
			Version:        fmt.Sprintf("Go %s", runtime.Version()),
			ConnectionType: "none",
			Metadata:       metadata,
		},
	}
}

// GetCapabilities returns capabilities for a specific method.
func (d *DeviceDetector) GetCapabilities(method string) *core.Capabilities {
	if caps, exists := d.capabilities[method]; exists {
		return caps
	}
	return &core.Capabilities{
		Name:            method,
		IsHardware:      false,
		ProductionReady: false,
		Reason:          "unknown method",
	}
}

// GetAllCapabilities returns all detected capabilities.
func (d *DeviceDetector) GetAllCapabilities() map[string]*core.Capabilities {
	result := make(map[string]*core.Capabilities)
	for method, caps := range d.capabilities {
		result[method] = caps
	}
	return result
}

// GetDetectionSummary returns a human-readable summary.
func (d *DeviceDetector) GetDetectionSummary() string {
	var builder strings.Builder

	builder.WriteString("Hardware Detection Summary:\n")
	builder.WriteString("========================\n\n")

	for method, available := range d.detectedMethods {
		status := "UNAVAILABLE"
		if available {
			status = "AVAILABLE"
		}

		caps := d.capabilities[method]
		builder.WriteString(fmt.Sprintf("%-20s %s - %s\n", method, status, caps.Name))

		if caps.HardwareInfo != nil {
			builder.WriteString(fmt.Sprintf("                    Device: %s (%s)\n",
				caps.HardwareInfo.DevicePath, caps.HardwareInfo.ConnectionType))
		}

		if !available && caps.Reason != "" {
			builder.WriteString(fmt.Sprintf("                    Reason: %s\n", caps.Reason))
		}
		builder.WriteString("\n")
	}

	availableCount := 0
	for _, available := range d.detectedMethods {
		if available {
			availableCount++
		}
	}

	builder.WriteString(fmt.Sprintf("Total Methods: %d\n", len(d.detectedMethods)))
	builder.WriteString(fmt.Sprintf("Available: %d\n", availableCount))

	return builder.String()
}
