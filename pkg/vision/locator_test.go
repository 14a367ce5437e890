package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/types"
)

type fakeClient struct {
	point      *types.SalientPoint
	lastB64    string
	lastPrompt string
}

func (f *fakeClient) SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	f.lastPrompt = prompt
	f.lastB64 = imgB64
	return "a red square on a gray background", nil
}

func (f *fakeClient) LocateFocus(ctx context.Context, model, prompt, imgB64 string) (*types.SalientPoint, error) {
	f.lastB64 = imgB64
	return f.point, nil
}

func testLocator(fc *fakeClient, border float64) *Locator {
	cfg := config.Default()
	cfg.SaliencyControl.IgnoreBorderPercent = border
	return NewLocator(fc, cfg.Scanner, cfg.SaliencyControl)
}

func TestLocateMapsToSourcePixels(t *testing.T) {
	fc := &fakeClient{point: &types.SalientPoint{X: 0.25, Y: 0.5, Confidence: 0.9}}
	l := testLocator(fc, 0.15)

	img := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	p, err := l.Locate(context.Background(), img)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 480, p.X)
	assert.Equal(t, 540, p.Y)
}

func TestLocateDropsBorderPoints(t *testing.T) {
	fc := &fakeClient{point: &types.SalientPoint{X: 0.05, Y: 0.5, Confidence: 0.9}}
	l := testLocator(fc, 0.15)

	p, err := l.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 640, 360)))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLocateDropsLowConfidence(t *testing.T) {
	fc := &fakeClient{point: &types.SalientPoint{X: 0.5, Y: 0.5, Confidence: 0.0, Label: "none"}}
	l := testLocator(fc, 0.15)

	p, err := l.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 640, 360)))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestVerifyBackendSendsVisibleTestImage(t *testing.T) {
	fc := &fakeClient{}
	l := testLocator(fc, 0.15)

	reply, err := l.VerifyBackend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a red square on a gray background", reply)
	assert.Equal(t, SimpleTestPrompt, fc.lastPrompt)

	raw, err := base64.StdEncoding.DecodeString(fc.lastB64)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestLocateSendsDownscaledImage(t *testing.T) {
	fc := &fakeClient{point: &types.SalientPoint{X: 0.5, Y: 0.5, Confidence: 0.9}}
	l := testLocator(fc, 0.15)

	_, err := l.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 3840, 2160)))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(fc.lastB64)
	require.NoError(t, err)
	cfgImg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfgImg.Width, config.Default().Scanner.SendMaxDim)
}
