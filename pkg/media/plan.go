package media

import (
	"errors"
	"fmt"
)

var ErrInvalidDuration = errors.New("invalid duration")

// safetyFactor undershoots the per-chunk byte budget by 20%. Stream-copy
// splitting lands on keyframe/container boundaries, so segments can
// overshoot the byte-proportional duration. Tunable, not a precise bound.
const safetyFactor = 1.25

// ChunkPlan is the split decision for one input file. It only lives for the
// duration of a run.
type ChunkPlan struct {
	NeedsSplit    bool
	ChunkDuration float64
}

// Plan decides whether fileSizeBytes must be split to stay under
// maxChunkBytes per transcription call, and if so at which duration.
func Plan(fileSizeBytes int64, durationSeconds float64, maxChunkBytes int64) (ChunkPlan, error) {
	if fileSizeBytes < maxChunkBytes {
		return ChunkPlan{NeedsSplit: false}, nil
	}

	if durationSeconds <= 0 {
		return ChunkPlan{}, fmt.Errorf("%w: %f seconds", ErrInvalidDuration, durationSeconds)
	}

	bytesPerSecond := float64(fileSizeBytes) / durationSeconds
	chunkDuration := (float64(maxChunkBytes) / safetyFactor) / bytesPerSecond

	return ChunkPlan{
		NeedsSplit:    true,
		ChunkDuration: chunkDuration,
	}, nil
}
