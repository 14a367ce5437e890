package planner

import (
	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/types"
)

// stabilizeSaliency suppresses single-frame saliency spikes. A point that
// jumps more than jump_threshold_percent of the frame width away from the
// last accepted point is only accepted when enough future frames agree
// with the new position; otherwise the last accepted point is held and
// the frame is marked blocked. Frames with no saliency yield nil and do
// not disturb the held point.
func stabilizeSaliency(frames []types.DetectionFrame, width int, cfg config.SaliencyControlConfig) ([]*types.Point, []bool) {
	out := make([]*types.Point, len(frames))
	blocked := make([]bool, len(frames))
	threshold := cfg.JumpThresholdPercent * float64(width)

	var lastStable *types.Point
	for i, f := range frames {
		raw := f.SaliencyPoint
		if raw == nil {
			continue
		}
		if lastStable == nil || float64(absInt(raw.X-lastStable.X)) <= threshold {
			lastStable = raw
			out[i] = raw
			continue
		}

		// Jump detected. Confirm against the look-ahead window. Near the
		// end of the video the full window no longer exists, so the jump
		// is accepted unconditionally.
		if len(frames)-1-i < cfg.StableFrames {
			lastStable = raw
			out[i] = raw
			continue
		}
		matches := 0
		for k := i + 1; k <= i+cfg.StableFrames; k++ {
			future := frames[k].SaliencyPoint
			if future != nil && float64(absInt(future.X-raw.X)) < threshold {
				matches++
			}
		}
		if float64(matches) >= float64(cfg.StableFrames)*cfg.LookAheadConfidence {
			lastStable = raw
			out[i] = raw
		} else {
			out[i] = lastStable
			blocked[i] = true
		}
	}
	return out, blocked
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
