package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/client"
	"github.com/framewright/autoreframe/pkg/types"
)

// SimpleTestPrompt for testing if the model can see images
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

// DefaultPrompt asks the model for the single most salient location.
const DefaultPrompt = `You are a visual attention estimator for video reframing.

Return JSON only:
{"x": 0.0, "y": 0.0, "confidence": 0.0, "label": "string"}

HARD RULES
- x and y are the coordinates of the single most visually salient point, normalized to [0,1] (NOT pixels).
- Prefer the location a human viewer's eyes would go to first: faces, people, moving subjects, then the dominant object.
- confidence in [0,1] reflects how clearly one location dominates.
- label: one short lowercase phrase naming what is there.
- If nothing stands out, return {"x":0.5,"y":0.5,"confidence":0.0,"label":"none"}.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Locator queries a vision model for per-frame salient points and maps
// them back into source pixel coordinates.
type Locator struct {
	client        client.VisionClient
	model         string
	sendFormat    string
	sendMaxDim    int
	sendQuality   int
	borderPercent float64
	minConfidence float64
}

// NewLocator builds a locator from the scanner and saliency settings.
func NewLocator(c client.VisionClient, scanner config.ScannerConfig, saliency config.SaliencyControlConfig) *Locator {
	return &Locator{
		client:        c,
		model:         scanner.Model,
		sendFormat:    scanner.SendFormat,
		sendMaxDim:    scanner.SendMaxDim,
		sendQuality:   scanner.SendQuality,
		borderPercent: saliency.IgnoreBorderPercent,
		minConfidence: 0.1,
	}
}

// VerifyBackend sends a small synthetic image with a plain prompt and
// returns the model's free-text reply. Run before a long scan to fail
// fast when the backend is unreachable or the model cannot see images.
func (l *Locator) VerifyBackend(ctx context.Context) (string, error) {
	imgB64, err := encodeForModel(testPattern(), l.sendFormat, l.sendMaxDim, l.sendQuality)
	if err != nil {
		return "", err
	}
	return l.client.SimpleQuery(ctx, l.model, SimpleTestPrompt, imgB64)
}

// testPattern is a gray card with a red square, enough for a vision
// model to describe.
func testPattern() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
			if x >= 16 && x < 48 && y >= 16 && y < 48 {
				c = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Locate returns the salient point of a frame in source pixels, or nil
// when the model found nothing usable. Points in the ignored border band
// are discarded since they are almost always letterboxing or captions.
func (l *Locator) Locate(ctx context.Context, img image.Image) (*types.Point, error) {
	imgB64, err := encodeForModel(img, l.sendFormat, l.sendMaxDim, l.sendQuality)
	if err != nil {
		return nil, err
	}

	sp, err := l.client.LocateFocus(ctx, l.model, DefaultPrompt, imgB64)
	if err != nil {
		return nil, err
	}
	if sp == nil || sp.Confidence < l.minConfidence {
		return nil, nil
	}
	if sp.X < l.borderPercent || sp.X > 1-l.borderPercent ||
		sp.Y < l.borderPercent || sp.Y > 1-l.borderPercent {
		return nil, nil
	}

	bounds := img.Bounds()
	return &types.Point{
		X: int(sp.X * float64(bounds.Dx())),
		Y: int(sp.Y * float64(bounds.Dy())),
	}, nil
}

// encodeForModel downscales the frame so its longest side fits maxDim,
// then encodes it as base64 for the chat request.
func encodeForModel(img image.Image, format string, maxDim, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
