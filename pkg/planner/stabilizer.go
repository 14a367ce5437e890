package planner

import (
	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/types"
)

// stabilizePath pins the horizontal target to an anchor and only moves
// the anchor when the target leaves the dead zone and stays out for at
// least 70% of the following min_duration_frames. Small drift inside the
// dead zone never moves the camera.
func stabilizePath(raw []types.Point, width int, cfg config.CameraControlConfig) []types.Point {
	out := make([]types.Point, len(raw))
	if len(raw) == 0 {
		return out
	}
	deadZone := cfg.DeadZonePercent * float64(width)
	anchor := raw[0].X

	for i, p := range raw {
		if float64(absInt(p.X-anchor)) > deadZone {
			available := cfg.MinDurationFrames
			if rest := len(raw) - 1 - i; rest < available {
				available = rest
			}
			sustained := 0
			for k := 1; k <= available; k++ {
				if float64(absInt(raw[i+k].X-anchor)) > deadZone {
					sustained++
				}
			}
			// A window truncated by the end of the video is judged on the
			// frames it has; at the very last frame nothing can confirm the
			// move, so the anchor holds.
			if available > 0 && float64(sustained) >= 0.7*float64(available) {
				anchor = p.X
			}
		}
		out[i] = types.Point{X: anchor, Y: p.Y}
	}
	return out
}
