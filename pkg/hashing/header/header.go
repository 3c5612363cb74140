// Package header implements the Bitcoin-family block header codec: parsing
// hex fields into a BlockHeader, serializing it to the 76-byte wire form,
// SHA-256 padding it to 128 bytes, and splitting the padded block into the
// 32 big-endian words a mining shader consumes directly.
package header

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Error codes for the header package.
const (
	ErrCodeInvalidHex    = 1
	ErrCodeInvalidLength = 2
)

// CodecError is a structured error raised by header parsing/serialization.
type CodecError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *CodecError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("header: [%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("header: [%d] %s", e.Code, e.Message)
}

func newCodecError(code int, message string, details string) error {
	return &CodecError{Code: code, Message: message, Details: details}
}

// Predefined errors.
var (
	ErrInvalidHex    = newCodecError(ErrCodeInvalidHex, "invalid hex field", "")
	ErrInvalidLength = newCodecError(ErrCodeInvalidLength, "field has wrong decoded length", "")
)

// BlockHeader is the 76-byte portion of a Bitcoin-family block header that
// is fixed per mining job; the nonce is supplied separately by the miner.
type BlockHeader struct {
	Version    uint32
	PrevHash   [32]byte
	MerkleRoot [32]byte
	Timestamp  uint32
	Bits       uint32
}

// Parse builds a BlockHeader from the hex-encoded fields a template provider
// returns: version and bits as little-endian 4-byte hex, prevHash and
// merkleRoot as 32-byte hex.
func Parse(version, prevHash, merkleRoot, timestamp, bits string) (*BlockHeader, error) {
	v, err := hexToUint32(version, "version")
	if err != nil {
		return nil, err
	}
	ph, err := hexTo32Bytes(prevHash, "prev_hash")
	if err != nil {
		return nil, err
	}
	mr, err := hexTo32Bytes(merkleRoot, "merkle_root")
	if err != nil {
		return nil, err
	}
	ts, err := hexToUint32(timestamp, "timestamp")
	if err != nil {
		return nil, err
	}
	b, err := hexToUint32(bits, "bits")
	if err != nil {
		return nil, err
	}

	return &BlockHeader{
		Version:    v,
		PrevHash:   ph,
		MerkleRoot: mr,
		Timestamp:  ts,
		Bits:       b,
	}, nil
}

func hexToUint32(s, field string) (uint32, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return 0, &CodecError{Code: ErrCodeInvalidHex, Message: "invalid hex field", Details: field}
	}
	if len(raw) != 4 {
		return 0, &CodecError{Code: ErrCodeInvalidLength, Message: "field must decode to 4 bytes", Details: field}
	}
	return binary.LittleEndian.Uint32(raw), nil
}

func hexTo32Bytes(s, field string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, &CodecError{Code: ErrCodeInvalidHex, Message: "invalid hex field", Details: field}
	}
	if len(raw) != 32 {
		return out, &CodecError{Code: ErrCodeInvalidLength, Message: "field must decode to 32 bytes", Details: field}
	}
	copy(out[:], raw)
	return out, nil
}

// ToBytes serializes the header's 76 fixed bytes, little-endian per field,
// in wire order: version, prev_hash, merkle_root, timestamp, bits.
func (h *BlockHeader) ToBytes() [76]byte {
	var out [76]byte
	binary.LittleEndian.PutUint32(out[0:4], h.Version)
	copy(out[4:36], h.PrevHash[:])
	copy(out[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(out[68:72], h.Timestamp)
	binary.LittleEndian.PutUint32(out[72:76], h.Bits)
	return out
}

// WithNonce returns the 80-byte hashable header: the 76 fixed bytes followed
// by the little-endian nonce.
func (h *BlockHeader) WithNonce(nonce uint32) [80]byte {
	var out [80]byte
	fixed := h.ToBytes()
	copy(out[0:76], fixed[:])
	binary.LittleEndian.PutUint32(out[76:80], nonce)
	return out
}

// PaddedBlock is an 80-byte header padded to the 128-byte (1024-bit) SHA-256
// block boundary.
type PaddedBlock [128]byte

// Preprocess pads an 80-byte header to 128 bytes per SHA-256's message
// schedule: an 0x80 boundary byte, zero fill, and a big-endian 64-bit
// bit-length (640 bits) in the final eight bytes, whose last two are 0x02 0x80.
func Preprocess(header [80]byte) PaddedBlock {
	var padded PaddedBlock
	copy(padded[0:80], header[:])
	padded[80] = 0x80
	padded[126] = 0x02
	padded[127] = 0x80
	return padded
}

// HeaderWords is the padded block reinterpreted as 32 big-endian 32-bit
// words, the layout a mining shader's storage buffer expects. Word 17 holds
// the timestamp; word 19 holds the nonce.
type HeaderWords [32]uint32

const (
	// TimestampWordIndex is the HeaderWords slot holding the block timestamp.
	TimestampWordIndex = 17
	// NonceWordIndex is the HeaderWords slot holding the nonce under search.
	NonceWordIndex = 19
)

// ParseWords splits a padded 128-byte block into 32 big-endian words.
func ParseWords(padded PaddedBlock) HeaderWords {
	var words HeaderWords
	for i := 0; i < 32; i++ {
		words[i] = binary.BigEndian.Uint32(padded[i*4 : i*4+4])
	}
	return words
}

// RollTimestamp advances the timestamp word in place, the in-place update a
// driver makes between batches when a nonce range is exhausted without
// rolling the extranonce.
func (w *HeaderWords) RollTimestamp(delta uint32) {
	w[TimestampWordIndex] += delta
}

// SetNonce writes nonce into the word slot a mining shader ignores on input,
// replacing it in its local copy with each lane's own nonce.
func (w *HeaderWords) SetNonce(nonce uint32) {
	w[NonceWordIndex] = nonce
}

// Bytes reassembles the 128-byte padded block from its big-endian words.
func (w HeaderWords) Bytes() PaddedBlock {
	var padded PaddedBlock
	for i, word := range w {
		binary.BigEndian.PutUint32(padded[i*4:i*4+4], word)
	}
	return padded
}

// ToHeaderBytes extracts the original 80-byte hashable header from the
// padded words, dropping the SHA-256 padding tail.
func (w HeaderWords) ToHeaderBytes() [80]byte {
	var out [80]byte
	padded := w.Bytes()
	copy(out[:], padded[:80])
	return out
}
