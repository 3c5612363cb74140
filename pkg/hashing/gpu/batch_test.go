package gpu

import (
	"encoding/binary"
	"testing"

	"github.com/apollolongship/gpuminer/pkg/hashing/header"
)

func TestWordsToBytesRoundTripsNativeU32(t *testing.T) {
	var words header.HeaderWords
	words[0] = 0x01020304
	words[19] = 0xdeadbeef

	raw := wordsToBytes(words)
	if len(raw) != 128 {
		t.Fatalf("expected 128 bytes, got %d", len(raw))
	}
	if got := binary.LittleEndian.Uint32(raw[0:4]); got != 0x01020304 {
		t.Fatalf("word 0 mismatch: got %#x", got)
	}
	if got := binary.LittleEndian.Uint32(raw[19*4 : 19*4+4]); got != 0xdeadbeef {
		t.Fatalf("word 19 mismatch: got %#x", got)
	}
}

func TestValidateWorkgroupSize(t *testing.T) {
	if err := ValidateWorkgroupSize(1024, 64); err != nil {
		t.Fatalf("expected 64 to divide 1024 evenly, got %v", err)
	}
	if err := ValidateWorkgroupSize(1000, 64); err == nil {
		t.Fatalf("expected an error: 64 does not divide 1000 evenly")
	}
	if err := ValidateWorkgroupSize(1024, 0); err == nil {
		t.Fatalf("expected an error for a zero workgroup size")
	}
}
