package core

import (
	"crypto/sha256"
	"encoding/binary"
)

// CanonicalSHA256 provides the canonical Double SHA-256 implementation
// This is the reference implementation used across all hashing methods
type CanonicalSHA256 struct{}

// NewCanonicalSHA256 creates a new canonical SHA-256 instance
func NewCanonicalSHA256() *CanonicalSHA256 {
	return &CanonicalSHA256{}
}

// ComputeSHA256 computes a single SHA-256 hash
func (c *CanonicalSHA256) ComputeSHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ComputeDoubleSHA256 computes SHA256(SHA256(data)) - Bitcoin's hash function
// This is the canonical implementation that all methods should use
func (c *CanonicalSHA256) ComputeDoubleSHA256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// ComputeDoubleSHA256WithNonce computes Double SHA-256 for an 80-byte Bitcoin header
// with the nonce field replaced with the specified nonce value
func (c *CanonicalSHA256) ComputeDoubleSHA256WithNonce(header []byte, nonce uint32) ([32]byte, error) {
	if len(header) != 80 {
		return [32]byte{}, &HashError{
			Type:    ErrorInvalidInput,
			Message: "header must be exactly 80 bytes",
			Context: map[string]interface{}{
				"header_length": len(header),
				"nonce":         nonce,
			},
		}
	}

	// Create a copy to avoid modifying the original
	workHeader := make([]byte, 80)
	copy(workHeader, header)

	// Set nonce in header (bytes 76-79, little-endian)
	workHeader[76] = byte(nonce)
	workHeader[77] = byte(nonce >> 8)
	workHeader[78] = byte(nonce >> 16)
	workHeader[79] = byte(nonce >> 24)

	return c.ComputeDoubleSHA256(workHeader), nil
}

// IsValidDifficulty1 is a simplified stand-in for the Bitcoin Difficulty 1
// target (0x00000000FFFF0000000000000000000000000000000000000000000000000000).
// It accepts any hash whose first 28 bits are zero, so it is looser than that
// target: hashes whose 4th byte is 0x01..0x0f pass it as well.
func (c *CanonicalSHA256) IsValidDifficulty1(hash [32]byte) bool {
	// First 3 bytes must be 0, 4th byte < 0x10
	return hash[0] == 0 && hash[1] == 0 && hash[2] == 0 && hash[3] < 0x10
}

// MineForNonce is the CPU reference search: it scans nonceStart..nonceEnd
// inclusive and returns the first nonce whose header hash satisfies
// IsValidDifficulty1, the same rare leading-zero-run predicate the GPU
// kernel's output buffer encodes. Reported as (nonce, found).
func (c *CanonicalSHA256) MineForNonce(header []byte, nonceStart, nonceEnd uint32) (uint32, bool, error) {
	if len(header) != 80 {
		return 0, false, &HashError{
			Type:    ErrorInvalidInput,
			Message: "header must be exactly 80 bytes",
			Context: map[string]interface{}{
				"header_length": len(header),
				"nonce_start":   nonceStart,
				"nonce_end":     nonceEnd,
			},
		}
	}

	for nonce := nonceStart; ; nonce++ {
		hash, err := c.ComputeDoubleSHA256WithNonce(header, nonce)
		if err != nil {
			return 0, false, err
		}

		if c.IsValidDifficulty1(hash) {
			return nonce, true, nil
		}

		if nonce == nonceEnd {
			break
		}
	}

	return 0, false, nil
}

// ExtractNonce extracts nonce from an 80-byte Bitcoin header
func (c *CanonicalSHA256) ExtractNonce(header []byte) (uint32, error) {
	if len(header) < 80 {
		return 0, &HashError{
			Type:    ErrorInvalidInput,
			Message: "header must be at least 80 bytes",
			Context: map[string]interface{}{
				"header_length": len(header),
			},
		}
	}

	return binary.LittleEndian.Uint32(header[76:80]), nil
}

// HashError represents errors that can occur during hashing operations
type HashError struct {
	Type    ErrorType
	Message string
	Context map[string]interface{}
}

func (e *HashError) Error() string {
	return e.Message
}

// ErrorType represents different types of hashing errors
type ErrorType int

const (
	ErrorInvalidInput ErrorType = iota
	ErrorHardwareUnavailable
	ErrorOperationFailed
	ErrorTimeout
	ErrorResourceBusy
)
