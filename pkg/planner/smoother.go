package planner

import (
	"math"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/types"
)

// Smoother integrates the stabilized path into the final camera position
// using a spring-like model. Position and Velocity persist across Step
// calls so transitions decelerate naturally instead of restarting each
// frame.
type Smoother struct {
	Position float64
	Velocity float64

	width        float64
	mode         string
	easing       string
	smoothFactor float64
	cutThreshold float64
}

// NewSmoother builds a smoother starting at the given x position.
func NewSmoother(camera config.CameraControlConfig, tracking config.TrackingConfig, width, start int) *Smoother {
	return &Smoother{
		Position:     float64(start),
		width:        float64(width),
		mode:         camera.TransitionMode,
		easing:       tracking.EasingType,
		smoothFactor: tracking.SmoothFactor,
		cutThreshold: camera.SmartCutThresholdPercent * float64(width),
	}
}

// Step advances the camera one frame toward target and returns the new
// integer position (floor of the internal float position).
func (s *Smoother) Step(target int) int {
	tx := float64(target)
	dist := math.Abs(tx - s.Position)

	if s.mode == config.TransitionCut || (s.mode == config.TransitionSmart && dist > s.cutThreshold) {
		s.Position = tx
		s.Velocity = 0
		return int(math.Floor(s.Position))
	}

	delta := tx - s.Position
	switch s.easing {
	case "linear":
		step := 0.5 * s.width * s.smoothFactor
		if dist <= step {
			s.Position = tx
		} else if delta > 0 {
			s.Position += step
		} else {
			s.Position -= step
		}
		s.Velocity = 0
	case "ease_in":
		force := delta * s.smoothFactor * 1.5
		s.Velocity = (s.Velocity + force) * 0.6
		s.Position += s.Velocity
	case "sine_in":
		force := delta * s.smoothFactor
		s.Velocity = (s.Velocity + force) * 0.7
		s.Position += s.Velocity
	case "ease_out":
		s.Position += delta * s.smoothFactor
		s.Velocity = 0
	case "sine_out":
		s.Position += delta * s.smoothFactor * 0.7
		s.Velocity = 0
	case "ease_in_out":
		ratio := math.Min(1.0, dist/(s.width*0.4))
		friction := 0.5 + 0.42*ratio
		force := delta * s.smoothFactor * 1.5
		s.Velocity = (s.Velocity + force) * friction
		s.Position += s.Velocity
	default:
		// sine_in_out, also the fallback for unknown names.
		ratio := math.Min(1.0, dist/(s.width*0.4))
		friction := 0.6 + 0.3*ratio
		force := delta * s.smoothFactor * 1.2
		s.Velocity = (s.Velocity + force) * friction
		s.Position += s.Velocity
	}
	return int(math.Floor(s.Position))
}

// smoothPath runs the smoother over a stabilized path. The camera starts
// at the first target so the opening frame is already framed.
func smoothPath(stabilized []types.Point, width int, camera config.CameraControlConfig, tracking config.TrackingConfig) []int {
	path := make([]int, len(stabilized))
	if len(stabilized) == 0 {
		return path
	}
	s := NewSmoother(camera, tracking, width, stabilized[0].X)
	for i, p := range stabilized {
		path[i] = s.Step(p.X)
	}
	return path
}
