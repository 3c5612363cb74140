package gpu

import (
	"time"

	"github.com/apollolongship/gpuminer/pkg/hashing/header"
)

// autotuneTrialBatches is the number of zero-header batches run at each
// candidate workgroup size before comparing elapsed time.
const autotuneTrialBatches = 20

// autotune sweeps power-of-two workgroup sizes from 2^5 up to the device's
// max_compute_workgroup_size_x, times K trial batches at each size against
// an all-zero header, and keeps the fastest size (earliest size wins ties).
// It returns the chosen pipeline, already built for that size.
func autotune(ctx *Context, bufs *bufferSet) (*pipelineSet, uint32, error) {
	var zero header.HeaderWords

	var best *pipelineSet
	var bestSize uint32
	bestElapsed := time.Duration(1<<63 - 1)

	for size := uint32(32); size <= ctx.MaxWorkgroupSizeX; size *= 2 {
		ps, err := newPipelineSet(ctx.Device(), bufs.bindGroupLayout, size)
		if err != nil {
			return nil, 0, err
		}

		start := time.Now()
		for i := 0; i < autotuneTrialBatches; i++ {
			if _, err := runBatch(ctx.Device(), ctx.Queue(), bufs, ps, zero); err != nil {
				ps.destroy(ctx.Device())
				if best != nil {
					best.destroy(ctx.Device())
				}
				return nil, 0, err
			}
		}
		elapsed := time.Since(start)

		if elapsed < bestElapsed {
			bestElapsed = elapsed
			if best != nil {
				best.destroy(ctx.Device())
			}
			best = ps
			bestSize = size
		} else {
			ps.destroy(ctx.Device())
		}
	}

	if best == nil {
		return nil, 0, ErrInvalidBatchSize
	}

	return best, bestSize, nil
}
