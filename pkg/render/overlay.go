package render

import (
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/framewright/autoreframe/pkg/types"
)

var (
	faceColor     = color.NRGBA{0, 255, 0, 255}
	bodyColor     = color.NRGBA{255, 204, 0, 255}
	objectColor   = color.NRGBA{0, 170, 255, 255}
	windowColor   = color.NRGBA{255, 255, 255, 255}
	saliencyColor = color.NRGBA{255, 0, 0, 255}
)

// buildOverlay draws the planning state onto a copy of the full source
// frame: track boxes colored by class, the saliency crosshair, the crop
// window and the decision reason.
func buildOverlay(img image.Image, frame *types.DetectionFrame, window image.Rectangle, centerX int, reason string) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()

	stroke := int(math.Max(2, 0.004*float64(minInt(w, h))))
	cross := int(math.Max(4, 0.01*float64(minInt(w, h))))

	if frame != nil {
		for _, t := range frame.Tracks {
			r := image.Rect(t.Box.X, t.Box.Y, t.Box.X+t.Box.W, t.Box.Y+t.Box.H)
			drawRect(nrgba, r, classColor(t.ClassID), stroke)
		}
		if frame.SaliencyPoint != nil {
			p := *frame.SaliencyPoint
			drawHLine(nrgba, p.Y, p.X-cross, p.X+cross, saliencyColor)
			drawVLine(nrgba, p.X, p.Y-cross, p.Y+cross, saliencyColor)
		}
	}

	drawRect(nrgba, window, windowColor, stroke)
	drawVLine(nrgba, centerX, 0, h, windowColor)

	if reason != "" {
		drawLabel(nrgba, 10, 20, reason, windowColor)
	}
	return nrgba
}

func classColor(classID int) color.NRGBA {
	switch classID {
	case types.ClassFace:
		return faceColor
	case types.ClassBody:
		return bodyColor
	default:
		return objectColor
	}
}

// SaveImage saves an image with the requested format and quality.
func SaveImage(img image.Image, path, format string, quality int) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Quality: float32(quality)})
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

func drawLabel(img *image.NRGBA, x, y int, text string, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
