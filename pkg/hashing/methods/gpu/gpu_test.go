package gpu

import "testing"

func TestGPUMethodRequiresInitializeBeforeMining(t *testing.T) {
	m := NewGPUMethod()
	if _, _, err := m.MineHeader(make([]byte, 80), 0, 1); err == nil {
		t.Fatalf("expected MineHeader to fail before Initialize")
	}
}

func TestGPUMethodRejectsWrongHeaderLength(t *testing.T) {
	m := NewGPUMethod()
	if _, _, err := m.MineHeader(make([]byte, 79), 0, 1); err == nil {
		t.Fatalf("expected MineHeader to reject a 79-byte header")
	}
}

func TestGPUMethodCapabilitiesReflectAvailability(t *testing.T) {
	m := NewGPUMethod()
	caps := m.GetCapabilities()
	if !caps.IsHardware {
		t.Fatalf("gpu method must report IsHardware")
	}
	if m.IsAvailable() && caps.Reason != "" {
		t.Fatalf("an available adapter should not carry an unavailability reason")
	}
	if !m.IsAvailable() && caps.Reason == "" {
		t.Fatalf("an unavailable adapter must report a reason")
	}
}

func TestSetBatchSizeIsReflectedInCapabilities(t *testing.T) {
	m := NewGPUMethod()
	m.SetBatchSize(1024)

	caps := m.GetCapabilities()
	if caps.MaxBatchSize != 1024 {
		t.Fatalf("got MaxBatchSize %d, want 1024", caps.MaxBatchSize)
	}
}
