package core

import (
	"crypto/sha256"
	"testing"
)

func TestComputeDoubleSHA256MatchesTwoRoundsOfStdlib(t *testing.T) {
	c := NewCanonicalSHA256()
	data := []byte("gpuminer")

	first := sha256.Sum256(data)
	want := sha256.Sum256(first[:])

	got := c.ComputeDoubleSHA256(data)
	if got != want {
		t.Fatalf("double sha256 mismatch: got %x, want %x", got, want)
	}
}

func TestComputeDoubleSHA256WithNonceOverwritesNonceField(t *testing.T) {
	c := NewCanonicalSHA256()
	header := make([]byte, 80)

	h1, err := c.ComputeDoubleSHA256WithNonce(header, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := c.ComputeDoubleSHA256WithNonce(header, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different nonces to produce different digests")
	}

	// The original header slice must be untouched.
	for _, b := range header {
		if b != 0 {
			t.Fatalf("ComputeDoubleSHA256WithNonce mutated the caller's header")
		}
	}
}

func TestComputeDoubleSHA256WithNonceRejectsWrongLength(t *testing.T) {
	c := NewCanonicalSHA256()
	if _, err := c.ComputeDoubleSHA256WithNonce(make([]byte, 79), 0); err == nil {
		t.Fatalf("expected an error for a 79-byte header")
	}
}

func TestIsValidDifficulty1BoundaryBehavior(t *testing.T) {
	c := NewCanonicalSHA256()

	if !c.IsValidDifficulty1([32]byte{0x00, 0x00, 0x00, 0x0f}) {
		t.Fatalf("expected three leading zero bytes plus a 4th byte below 0x10 to be valid")
	}
	if c.IsValidDifficulty1([32]byte{0x00, 0x00, 0x00, 0x10}) {
		t.Fatalf("expected a 4th byte of exactly 0x10 to be invalid")
	}
	if c.IsValidDifficulty1([32]byte{0x00, 0x01, 0x00, 0x00}) {
		t.Fatalf("expected a non-zero 2nd byte to be invalid regardless of the rest")
	}
}

// TestMineForNonceHitsSatisfyDifficulty1 scans an all-zero header for a hit
// under the rare IsValidDifficulty1 predicate (~1 in 2^28 digests). Finding
// none within the scanned range is the expected, statistically overwhelming
// outcome; if a hit is reported, it must actually satisfy the predicate.
func TestMineForNonceHitsSatisfyDifficulty1(t *testing.T) {
	c := NewCanonicalSHA256()
	header := make([]byte, 80)

	nonce, found, err := c.MineForNonce(header, 0, 1<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		return
	}

	digest, err := c.ComputeDoubleSHA256WithNonce(header, nonce)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsValidDifficulty1(digest) {
		t.Fatalf("reported nonce %d does not satisfy IsValidDifficulty1", nonce)
	}
}

func TestMineForNonceHandlesFullRangeWithoutOverflow(t *testing.T) {
	c := NewCanonicalSHA256()
	header := make([]byte, 80)

	// A narrow range ending at MaxUint32 must not loop forever or panic on
	// the nonce++ overflow.
	_, _, err := c.MineForNonce(header, 0xFFFFFFF0, 0xFFFFFFFF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractNonceReadsLittleEndianTail(t *testing.T) {
	c := NewCanonicalSHA256()
	header := make([]byte, 80)
	header[76] = 0xef
	header[77] = 0xbe
	header[78] = 0xad
	header[79] = 0xde

	nonce, err := c.ExtractNonce(header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nonce != 0xdeadbeef {
		t.Fatalf("got nonce %#x, want 0xdeadbeef", nonce)
	}
}
