package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/framewright/autoreframe/internal/config"
)

func cameraCfg(mode string) config.CameraControlConfig {
	return config.CameraControlConfig{
		DeadZonePercent:          0.05,
		MinDurationFrames:        15,
		TransitionMode:           mode,
		SmartCutThresholdPercent: 0.30,
	}
}

func trackingCfg(easing string) config.TrackingConfig {
	return config.TrackingConfig{SmoothFactor: 0.1, EasingType: easing}
}

func TestSmootherCutFollowsTargetExactly(t *testing.T) {
	stabilized := rawPoints(100, 100, 700, 700, 300)
	path := smoothPath(stabilized, 1000, cameraCfg(config.TransitionCut), trackingCfg("ease_out"))
	assert.Equal(t, []int{100, 100, 700, 700, 300}, path)
}

func TestSmootherSmartCutsOnLargeJump(t *testing.T) {
	s := NewSmoother(cameraCfg(config.TransitionSmart), trackingCfg("ease_out"), 1000, 100)
	// 600px exceeds the 300px smart-cut threshold.
	assert.Equal(t, 700, s.Step(700))
	assert.Zero(t, s.Velocity)

	// 100px is below the threshold, so it eases instead.
	got := s.Step(800)
	assert.Equal(t, 710, got)
}

func TestSmootherLinearStepsWithoutOvershoot(t *testing.T) {
	s := NewSmoother(cameraCfg(config.TransitionSmooth), trackingCfg("linear"), 1000, 0)
	// Step size is 0.5 * 1000 * 0.1 = 50px per frame.
	assert.Equal(t, 50, s.Step(120))
	assert.Equal(t, 100, s.Step(120))
	assert.Equal(t, 120, s.Step(120))
	assert.Equal(t, 120, s.Step(120))
}

func TestSmootherConvergesMonotonically(t *testing.T) {
	for _, easing := range []string{"ease_out", "sine_out", "linear"} {
		s := NewSmoother(cameraCfg(config.TransitionSmooth), trackingCfg(easing), 1000, 0)
		prev := 0.0
		for i := 0; i < 100; i++ {
			s.Step(500)
			assert.GreaterOrEqual(t, s.Position, prev, easing)
			prev = s.Position
		}
		assert.InDelta(t, 500, s.Position, 1.0, easing)
	}
}

func TestSmootherMomentumModelsCarryVelocity(t *testing.T) {
	for _, easing := range []string{"ease_in", "sine_in", "ease_in_out", "sine_in_out"} {
		s := NewSmoother(cameraCfg(config.TransitionSmooth), trackingCfg(easing), 1000, 0)
		s.Step(500)
		assert.NotZero(t, s.Velocity, easing)
		pos := s.Position
		for i := 0; i < 300; i++ {
			s.Step(500)
		}
		assert.Greater(t, s.Position, pos, easing)
		assert.InDelta(t, 500, s.Position, 5.0, easing)
	}
}

func TestSmootherUnknownEasingFallsBackToSineInOut(t *testing.T) {
	a := NewSmoother(cameraCfg(config.TransitionSmooth), trackingCfg("bogus"), 1000, 0)
	b := NewSmoother(cameraCfg(config.TransitionSmooth), trackingCfg("sine_in_out"), 1000, 0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, b.Step(400), a.Step(400))
	}
}

func TestSmootherOutputIsFloorOfPosition(t *testing.T) {
	s := NewSmoother(cameraCfg(config.TransitionSmooth), trackingCfg("ease_out"), 1000, 0)
	got := s.Step(105)
	assert.Equal(t, int(math.Floor(s.Position)), got)
	assert.Equal(t, 10, got)
}

func TestSmoothPathStartsAtFirstTarget(t *testing.T) {
	path := smoothPath(rawPoints(400, 400, 400), 1000, cameraCfg(config.TransitionSmooth), trackingCfg("ease_out"))
	assert.Equal(t, []int{400, 400, 400}, path)
}
