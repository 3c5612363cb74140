package gpu

import (
	"strings"
	"testing"
)

func TestCombinedShaderSourceSplicesWorkgroupSize(t *testing.T) {
	src := combinedShaderSource(128)
	if strings.Contains(src, wgSizePlaceholder) {
		t.Fatalf("expected the wg_size placeholder to be fully substituted")
	}
	if !strings.Contains(src, "@workgroup_size(128)") {
		t.Fatalf("expected @workgroup_size(128) in the combined shader, got:\n%s", src)
	}
}

func TestCombinedShaderSourceIncludesBothStages(t *testing.T) {
	src := combinedShaderSource(64)
	if !strings.Contains(src, "fn sha256_compress") {
		t.Fatalf("expected the SHA-256 core to be present in the combined source")
	}
	if !strings.Contains(src, "fn main(") {
		t.Fatalf("expected the mining kernel's entry point in the combined source")
	}
}
