package render

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/autoreframe/pkg/types"
)

func TestCropWidth(t *testing.T) {
	// 1080p source to 9:16 vertical.
	assert.Equal(t, 606, CropWidth(1080, 9, 16))
	// 720p source to 1:1.
	assert.Equal(t, 720, CropWidth(720, 1, 1))
}

func TestCropWindowClampsToFrame(t *testing.T) {
	w := cropWindow(960, 606, 1920, 1080)
	assert.Equal(t, image.Rect(657, 0, 1263, 1080), w)

	left := cropWindow(10, 606, 1920, 1080)
	assert.Equal(t, image.Rect(0, 0, 606, 1080), left)

	right := cropWindow(1915, 606, 1920, 1080)
	assert.Equal(t, image.Rect(1314, 0, 1920, 1080), right)
}

func TestBuildOverlayDrawsWindowAndTracks(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	frame := &types.DetectionFrame{
		FrameID: 1,
		Tracks: []types.TrackedObject{
			{ID: 1, ClassID: types.ClassFace, Box: types.Box{X: 50, Y: 50, W: 60, H: 60}},
		},
		SaliencyPoint: &types.Point{X: 300, Y: 100},
	}
	window := image.Rect(100, 0, 212, 200)

	out := buildOverlay(src, frame, window, 156, "Face ID:1")
	require.NotNil(t, out)

	// Top edge of the crop window is white.
	r, g, b, _ := out.At(150, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)

	// Top edge of the face box is green.
	r, g, b, _ = out.At(80, 50).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Zero(t, b)

	// Saliency crosshair is red.
	r, g, b, _ = out.At(300, 100).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestBuildOverlayNilFrame(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	out := buildOverlay(src, nil, image.Rect(10, 0, 60, 100), 35, "")
	require.NotNil(t, out)
}

func TestSaveImageFormats(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))

	for _, format := range []string{"jpg", "png", "webp"} {
		path := filepath.Join(dir, "out."+format)
		require.NoError(t, SaveImage(img, path, format, 90))
		assert.FileExists(t, path)
	}
}

func TestRenderRejectsEmptyPath(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	err = r.Render(t.Context(), &types.CameraPath{Path: []int{}}, nil, filepath.Join(t.TempDir(), "out.mp4"))
	assert.Error(t, err)
}
