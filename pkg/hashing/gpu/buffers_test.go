package gpu

import (
	"errors"
	"math"
	"testing"
)

func TestNewBufferSetRejectsZeroBatchSize(t *testing.T) {
	_, err := newBufferSet(nil, 0)
	if !errors.Is(err, ErrInvalidBatchSize) {
		t.Fatalf("expected ErrInvalidBatchSize, got %v", err)
	}
}

func TestNewBufferSetRejectsOverflowingBatchSize(t *testing.T) {
	_, err := newBufferSet(nil, math.MaxUint32)
	if !errors.Is(err, ErrBatchOverflow) {
		t.Fatalf("expected ErrBatchOverflow for batch_size=MaxUint32, got %v", err)
	}
}
