package hardware

import (
	"strings"
	"testing"
)

func TestDetectAvailableMethodsAlwaysReportsSoftware(t *testing.T) {
	d := NewDeviceDetector()
	detected := d.DetectAvailableMethods()

	if !detected["software"] {
		t.Fatalf("software method must always be detected as available")
	}
	if _, ok := detected["gpu"]; !ok {
		t.Fatalf("expected a gpu detection entry, even if unavailable")
	}
}

func TestGetCapabilitiesUnknownMethod(t *testing.T) {
	d := NewDeviceDetector()
	d.DetectAvailableMethods()

	caps := d.GetCapabilities("nonexistent")
	if caps.ProductionReady {
		t.Fatalf("unknown method must not report ProductionReady")
	}
}

func TestGetDetectionSummaryIncludesBothMethods(t *testing.T) {
	d := NewDeviceDetector()
	d.DetectAvailableMethods()

	summary := d.GetDetectionSummary()
	if summary == "" {
		t.Fatalf("expected a non-empty summary")
	}
	for _, method := range []string{"gpu", "software"} {
		if !strings.Contains(summary, method) {
			t.Fatalf("expected the summary to mention %q, got:\n%s", method, summary)
		}
	}
}
