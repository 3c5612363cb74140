package header

import (
	"bytes"
	"testing"
)

func TestPreprocessHeaderIsCopiedCorrectly(t *testing.T) {
	var h [80]byte
	for i := range h {
		h[i] = 0x01
	}
	padded := Preprocess(h)
	if !bytes.Equal(padded[0:80], h[:]) {
		t.Fatalf("header bytes not copied verbatim")
	}
}

func TestPreprocessPaddingByteIsSet(t *testing.T) {
	var h [80]byte
	padded := Preprocess(h)
	if padded[80] != 0x80 {
		t.Fatalf("expected padding byte 0x80 at offset 80, got %#x", padded[80])
	}
}

func TestPreprocessZeroPaddingIsCorrect(t *testing.T) {
	var h [80]byte
	for i := range h {
		h[i] = 0xFF
	}
	padded := Preprocess(h)
	for i := 81; i < 120; i++ {
		if padded[i] != 0x00 {
			t.Fatalf("expected zero padding at offset %d, got %#x", i, padded[i])
		}
	}
}

func TestPreprocessLengthFieldIsCorrect(t *testing.T) {
	var h [80]byte
	padded := Preprocess(h)
	expected := [8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x80}
	if !bytes.Equal(padded[120:128], expected[:]) {
		t.Fatalf("bit-length field mismatch: got % x", padded[120:128])
	}
}

func TestPreprocessFullPaddedOutput(t *testing.T) {
	var h [80]byte
	for i := range h {
		h[i] = 0x01
	}
	var expected PaddedBlock
	copy(expected[0:80], h[:])
	expected[80] = 0x80
	expected[126] = 0x02
	expected[127] = 0x80

	padded := Preprocess(h)
	if padded != expected {
		t.Fatalf("padded output mismatch:\ngot:  % x\nwant: % x", padded, expected)
	}
}

func TestParseWordsRoundTrip(t *testing.T) {
	var h [80]byte
	for i := range h {
		h[i] = byte(i)
	}
	padded := Preprocess(h)
	words := ParseWords(padded)
	if words.Bytes() != padded {
		t.Fatalf("word round-trip did not reproduce the padded block")
	}
}

func TestParseWordsLengthFieldIsLastWord(t *testing.T) {
	var h [80]byte
	padded := Preprocess(h)
	words := ParseWords(padded)
	if words[31] != 0x0280 {
		t.Fatalf("expected last word to hold the bit-length field 0x0280, got %#x", words[31])
	}
}

func TestParseBlock884633(t *testing.T) {
	h, err := Parse(
		"02000000",
		"0000000000000000000146601a36528d193ce46aafc00a806b9512663ea89be8",
		"e1419d88433680aeebc7baf6fea1356992cc06b9cb7be7c757a01e003cc78c2b",
		"65d7e920",
		"1700e526",
	)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if h.Version != 2 {
		t.Fatalf("expected version 2, got %d", h.Version)
	}
	fixed := h.ToBytes()
	if len(fixed) != 76 {
		t.Fatalf("expected 76 fixed bytes, got %d", len(fixed))
	}
}

func TestParseRejectsWrongLength(t *testing.T) {
	_, err := Parse("0200", "00", "00", "00", "00")
	if err == nil {
		t.Fatalf("expected an error for undersized hex fields")
	}
}

func TestParseRejectsInvalidHex(t *testing.T) {
	const zero32 = "0000000000000000000000000000000000000000000000000000000000000000"
	_, err := Parse("zzzzzzzz", zero32, zero32, "00000000", "00000000")
	if err == nil {
		t.Fatalf("expected an error for non-hex input")
	}
}

func TestWithNonceSetsLastFourBytes(t *testing.T) {
	var fields BlockHeader
	hashable := fields.WithNonce(0xdeadbeef)
	if hashable[76] != 0xef || hashable[77] != 0xbe || hashable[78] != 0xad || hashable[79] != 0xde {
		t.Fatalf("nonce not written little-endian at offset 76: % x", hashable[76:80])
	}
}

func TestRollTimestampAndSetNonce(t *testing.T) {
	var words HeaderWords
	words[TimestampWordIndex] = 100
	words.RollTimestamp(5)
	if words[TimestampWordIndex] != 105 {
		t.Fatalf("expected timestamp 105, got %d", words[TimestampWordIndex])
	}
	words.SetNonce(42)
	if words[NonceWordIndex] != 42 {
		t.Fatalf("expected nonce word 42, got %d", words[NonceWordIndex])
	}
}
