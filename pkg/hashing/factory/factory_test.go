package factory

import "testing"

func TestNewHashMethodFactorySelectsAvailableMethod(t *testing.T) {
	f := NewHashMethodFactory(nil)

	best := f.GetBestMethod()
	if best == nil {
		t.Fatalf("expected a best method to be selected")
	}
	if !best.IsAvailable() {
		t.Fatalf("selected method must be available")
	}

	// Software must always be present and available, GPU need not be.
	software := f.GetMethod("software")
	if software == nil || !software.IsAvailable() {
		t.Fatalf("expected the software method to always be available")
	}
}

func TestGetDetectionReportListsAllMethods(t *testing.T) {
	f := NewHashMethodFactory(nil)
	report := f.GetDetectionReport()

	if report.TotalMethods != 2 {
		t.Fatalf("expected 2 methods (gpu, software), got %d", report.TotalMethods)
	}
	if report.BestMethod == "none" {
		t.Fatalf("expected a best method to be reported")
	}
}

func TestShutdownAllShutsDownEveryMethod(t *testing.T) {
	f := NewHashMethodFactory(nil)
	if err := f.InitializeBestMethod(); err != nil {
		t.Fatalf("InitializeBestMethod failed: %v", err)
	}
	if err := f.ShutdownAll(); err != nil {
		t.Fatalf("ShutdownAll failed: %v", err)
	}
}
