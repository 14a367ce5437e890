package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/autoreframe/pkg/types"
)

func validResult() *types.ScanResult {
	return &types.ScanResult{
		Meta: types.VideoMeta{VideoPath: "in.mp4", Width: 1920, Height: 1080, TotalFrames: 2, FPS: 30},
		Frames: []types.DetectionFrame{
			{
				FrameID: 1,
				Tracks: []types.TrackedObject{
					{ID: 1, ClassID: types.ClassFace, Box: types.Box{X: 10, Y: 20, W: 100, H: 100}, Confidence: 0.95},
				},
				SaliencyPoint: &types.Point{X: 640, Y: 360},
			},
			{FrameID: 2, Tracks: []types.TrackedObject{}},
		},
	}
}

func TestWriteAndLoadResultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")
	want := validResult()
	require.NoError(t, WriteResult(path, want))

	got, err := LoadResult(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadResultRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"meta":`), 0644))
	_, err := LoadResult(path)
	assert.Error(t, err)
}

func TestValidateResultFailsFast(t *testing.T) {
	r := validResult()
	r.Frames[1].FrameID = 5
	assert.Error(t, ValidateResult(r))

	r = validResult()
	r.Frames[0].Tracks = nil
	assert.Error(t, ValidateResult(r))

	r = validResult()
	r.Meta.Width = 0
	assert.Error(t, ValidateResult(r))

	assert.Error(t, ValidateResult(nil))
}

func TestValidateResultAllowsEmptyFrames(t *testing.T) {
	assert.NoError(t, ValidateResult(&types.ScanResult{}))
}

func TestWriteAndLoadPathRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "path.json")
	want := &types.CameraPath{
		Meta:      types.VideoMeta{Width: 1920, Height: 1080},
		Path:      []int{500, 510, 520},
		DebugInfo: []string{"Face ID:1", "Face ID:1", "Face ID:1"},
	}
	require.NoError(t, WritePath(path, want))

	got, err := LoadPath(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPathRejectsMissingPathArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "path.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"meta":{"width":10,"height":10}}`), 0644))
	_, err := LoadPath(path)
	assert.Error(t, err)
}

func TestLoadTracksKeysByFrameID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.json")
	data := `{"frames":[
		{"frame_id":1,"tracks":[{"id":3,"class_id":1,"bbox":[0,0,50,100],"conf":0.8}]},
		{"frame_id":2,"tracks":[]}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	byFrame, err := loadTracks(path)
	require.NoError(t, err)
	require.Len(t, byFrame[1], 1)
	assert.Equal(t, 3, byFrame[1][0].ID)
	assert.Empty(t, byFrame[2])
}

func TestLoadTracksEmptyPath(t *testing.T) {
	byFrame, err := loadTracks("")
	require.NoError(t, err)
	assert.Empty(t, byFrame)
}
