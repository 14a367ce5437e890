package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxCenterAndArea(t *testing.T) {
	b := Box{X: 100, Y: 50, W: 200, H: 80}
	assert.Equal(t, 16000, b.Area())
	assert.Equal(t, Point{X: 200, Y: 90}, b.Center())
}

func TestDetectionFrameJSON(t *testing.T) {
	raw := `{"frame_id":3,"tracks":[{"id":7,"class_id":1,"bbox":[10,20,30,40],"conf":0.91}],"saliency_point":[640,360]}`

	var frame DetectionFrame
	require.NoError(t, json.Unmarshal([]byte(raw), &frame))

	assert.Equal(t, 3, frame.FrameID)
	require.Len(t, frame.Tracks, 1)
	assert.Equal(t, Box{X: 10, Y: 20, W: 30, H: 40}, frame.Tracks[0].Box)
	require.NotNil(t, frame.SaliencyPoint)
	assert.Equal(t, Point{X: 640, Y: 360}, *frame.SaliencyPoint)

	out, err := json.Marshal(frame)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestDetectionFrameNullSaliency(t *testing.T) {
	raw := `{"frame_id":1,"tracks":[],"saliency_point":null}`

	var frame DetectionFrame
	require.NoError(t, json.Unmarshal([]byte(raw), &frame))
	assert.Nil(t, frame.SaliencyPoint)
}

func TestBoxRejectsMalformedJSON(t *testing.T) {
	var b Box
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &b))
	assert.Error(t, json.Unmarshal([]byte(`["a","b","c","d"]`), &b))
}
