package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/autoreframe/pkg/types"
)

func track(id, classID, x, y, w, h int) types.TrackedObject {
	return types.TrackedObject{
		ID:         id,
		ClassID:    classID,
		Box:        types.Box{X: x, Y: y, W: w, H: h},
		Confidence: 0.9,
	}
}

func TestSelectTargetFaceBeatsBody(t *testing.T) {
	tracks := []types.TrackedObject{
		track(1, types.ClassBody, 0, 0, 400, 800),
		track(2, types.ClassFace, 500, 100, 100, 100),
	}
	p := selectTarget(tracks, nil, 1920, 1080)
	assert.Equal(t, "Face ID:2", p.Reason)
	assert.Equal(t, types.Point{X: 550, Y: 150}, p.Point)
	require.NotNil(t, p.TrackID)
	assert.Equal(t, 2, *p.TrackID)
	assert.Equal(t, types.ClassFace, *p.ClassID)
}

func TestSelectTargetBodyFramingOffset(t *testing.T) {
	tracks := []types.TrackedObject{track(4, types.ClassBody, 100, 200, 200, 600)}
	p := selectTarget(tracks, nil, 1920, 1080)
	assert.Equal(t, "Body ID:4", p.Reason)
	// x centered, y at 30% from the top of the box.
	assert.Equal(t, types.Point{X: 200, Y: 380}, p.Point)
}

func TestSelectTargetLargestAreaWins(t *testing.T) {
	tracks := []types.TrackedObject{
		track(1, types.ClassFace, 0, 0, 50, 50),
		track(2, types.ClassFace, 300, 300, 120, 120),
	}
	p := selectTarget(tracks, nil, 1920, 1080)
	assert.Equal(t, "Face ID:2", p.Reason)
}

func TestSelectTargetTieBreaksOnLowestID(t *testing.T) {
	tracks := []types.TrackedObject{
		track(9, types.ClassObject, 500, 0, 100, 100),
		track(3, types.ClassObject, 0, 0, 100, 100),
	}
	p := selectTarget(tracks, nil, 1920, 1080)
	assert.Equal(t, "Obj ID:3", p.Reason)
}

func TestSelectTargetSaliencyFallback(t *testing.T) {
	p := selectTarget(nil, &types.Point{X: 777, Y: 333}, 1920, 1080)
	assert.Equal(t, "Saliency", p.Reason)
	assert.Equal(t, types.Point{X: 777, Y: 333}, p.Point)
	assert.False(t, p.HasTrack())
}

func TestSelectTargetCenterDefault(t *testing.T) {
	p := selectTarget(nil, nil, 1920, 1080)
	assert.Equal(t, "Center (Default)", p.Reason)
	assert.Equal(t, types.Point{X: 960, Y: 540}, p.Point)
	assert.Nil(t, p.TrackID)
	assert.Nil(t, p.ClassID)
}
