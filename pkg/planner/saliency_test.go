package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/types"
)

func saliencyFrames(xs ...int) []types.DetectionFrame {
	frames := make([]types.DetectionFrame, len(xs))
	for i, x := range xs {
		frames[i] = types.DetectionFrame{FrameID: i + 1, Tracks: []types.TrackedObject{}}
		if x >= 0 {
			frames[i].SaliencyPoint = &types.Point{X: x, Y: 500}
		}
	}
	return frames
}

func saliencyCfg() config.SaliencyControlConfig {
	return config.SaliencyControlConfig{
		JumpThresholdPercent: 0.2,
		StableFrames:         3,
		LookAheadConfidence:  0.5,
	}
}

func TestStabilizeSaliencyDriftAccepted(t *testing.T) {
	frames := saliencyFrames(100, 150, 210, 260, 300)
	out, blocked := stabilizeSaliency(frames, 1000, saliencyCfg())
	for i, p := range out {
		require.NotNil(t, p, "frame %d", i)
		assert.Equal(t, frames[i].SaliencyPoint.X, p.X)
		assert.False(t, blocked[i])
	}
}

func TestStabilizeSaliencySpikeBlocked(t *testing.T) {
	frames := saliencyFrames(100, 100, 600, 100, 100, 100)
	out, blocked := stabilizeSaliency(frames, 1000, saliencyCfg())
	// The single-frame spike at index 2 is held at the last stable point.
	require.NotNil(t, out[2])
	assert.Equal(t, 100, out[2].X)
	assert.True(t, blocked[2])
	assert.Equal(t, 100, out[3].X)
	assert.False(t, blocked[3])
}

func TestStabilizeSaliencyConfirmedJumpAccepted(t *testing.T) {
	frames := saliencyFrames(100, 100, 600, 610, 590, 600)
	out, blocked := stabilizeSaliency(frames, 1000, saliencyCfg())
	assert.Equal(t, 600, out[2].X)
	assert.False(t, blocked[2])
}

func TestStabilizeSaliencyMissingPointYieldsNil(t *testing.T) {
	frames := saliencyFrames(100, -1, 120)
	out, _ := stabilizeSaliency(frames, 1000, saliencyCfg())
	assert.NotNil(t, out[0])
	assert.Nil(t, out[1])
	require.NotNil(t, out[2])
	assert.Equal(t, 120, out[2].X)
}

func TestStabilizeSaliencyTailJumpAccepted(t *testing.T) {
	// Only two frames remain after the jump, less than the window of 3.
	frames := saliencyFrames(100, 100, 100, 600, 100)
	out, blocked := stabilizeSaliency(frames, 1000, saliencyCfg())
	assert.Equal(t, 600, out[3].X)
	assert.False(t, blocked[3])
}
