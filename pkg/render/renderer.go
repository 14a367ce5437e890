// Package render crops a wide video into a narrow one by following a
// previously planned camera path. Each frame is cropped around its
// planned center x, re-encoded, and the source audio is muxed back in.
package render

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/internal/ffmpeg"
	"github.com/framewright/autoreframe/internal/utils"
	"github.com/framewright/autoreframe/pkg/types"
)

const megabyte = 1024 * 1024

// Renderer executes the render phase for one camera path.
type Renderer struct {
	cfg *config.Config
}

// NewRenderer creates a renderer with a validated config.
func NewRenderer(cfg *config.Config) (*Renderer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Renderer{cfg: cfg}, nil
}

// CropWidth computes the output width for a source height and target
// aspect ratio, rounded down to an even number for the encoder.
func CropWidth(height, aspectW, aspectH int) int {
	w := height * aspectW / aspectH
	return w - w%2
}

// Render reads the source video named in the path's metadata, crops every
// frame around its planned center and writes the result to outputPath.
// scanData is optional; when present it enables track boxes and saliency
// markers in the debug overlay frames.
func (r *Renderer) Render(ctx context.Context, cp *types.CameraPath, scanData *types.ScanResult, outputPath string) error {
	if cp == nil || len(cp.Path) == 0 {
		return fmt.Errorf("empty camera path")
	}
	meta := cp.Meta
	if meta.Width <= 0 || meta.Height <= 0 {
		return fmt.Errorf("invalid video dimensions %dx%d", meta.Width, meta.Height)
	}

	cropW := CropWidth(meta.Height, r.cfg.Render.AspectW, r.cfg.Render.AspectH)
	if cropW <= 0 || cropW > meta.Width {
		return fmt.Errorf("crop width %d does not fit source width %d", cropW, meta.Width)
	}

	decode := ffmpeg.NewDecodeCmd(meta.VideoPath)
	decodeOut, err := decode.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open decoder pipe: %w", err)
	}
	var decodeErr bytes.Buffer
	decode.Stderr = &decodeErr
	if err := decode.Start(); err != nil {
		return fmt.Errorf("failed to start decoder: %w", err)
	}
	decodeReaped := false
	defer func() {
		if !decodeReaped {
			ffmpeg.Reap(decode)
		}
	}()

	// Encode video to a temp file first; audio is muxed in afterwards.
	tmpVideo := outputPath + ".video.mp4"
	encode := ffmpeg.NewEncodeCmd(tmpVideo, meta.FPS)
	encodeIn, err := encode.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open encoder pipe: %w", err)
	}
	var encodeErr bytes.Buffer
	encode.Stderr = &encodeErr
	if err := encode.Start(); err != nil {
		return fmt.Errorf("failed to start encoder: %w", err)
	}
	defer os.Remove(tmpVideo)
	encodeReaped := false
	defer func() {
		if !encodeReaped {
			encodeIn.Close()
			ffmpeg.Reap(encode)
		}
	}()

	bar := progressbar.NewOptions(len(cp.Path),
		progressbar.OptionSetDescription("🎬 Rendering"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	frameScanner := bufio.NewScanner(decodeOut)
	frameScanner.Buffer(make([]byte, 0, megabyte), 64*megabyte)
	frameScanner.Split(ffmpeg.SplitJpeg)

	debugDir := ""
	if r.cfg.Render.DebugOverlay && r.cfg.Render.DebugFrameInterval > 0 {
		debugDir = outputPath + "_debug"
		if err := utils.EnsureDir(debugDir); err != nil {
			return fmt.Errorf("failed to create debug dir: %w", err)
		}
	}

	idx := 0
	for frameScanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if idx >= len(cp.Path) {
			log.Printf("video has more frames than the planned path (%d); stopping at the path end", len(cp.Path))
			// The decoder is still producing; kill it rather than wait on
			// a pipe nobody drains.
			decodeReaped = true
			ffmpeg.Reap(decode)
			break
		}

		img, _, err := image.Decode(bytes.NewReader(frameScanner.Bytes()))
		if err != nil {
			return fmt.Errorf("frame %d: decode failed: %w", idx+1, err)
		}

		window := cropWindow(cp.Path[idx], cropW, meta.Width, meta.Height)

		if debugDir != "" && idx%r.cfg.Render.DebugFrameInterval == 0 {
			overlay := buildOverlay(img, debugFrameData(scanData, idx), window, cp.Path[idx], debugReason(cp, idx))
			name := filepath.Join(debugDir, fmt.Sprintf("frame_%06d.%s", idx+1, r.cfg.Render.DebugFrameFormat))
			if err := SaveImage(overlay, name, r.cfg.Render.DebugFrameFormat, r.cfg.Render.OutputQuality); err != nil {
				log.Printf("frame %d: failed to save debug overlay: %v", idx+1, err)
			}
		}

		cropped := imaging.Crop(img, window)
		if err := jpeg.Encode(encodeIn, cropped, &jpeg.Options{Quality: r.cfg.Render.OutputQuality}); err != nil {
			return fmt.Errorf("frame %d: encode failed: %w", idx+1, err)
		}

		idx++
		bar.Add(1)
	}
	if err := frameScanner.Err(); err != nil {
		return fmt.Errorf("frame stream error: %w", err)
	}
	if !decodeReaped {
		decodeReaped = true
		if err := decode.Wait(); err != nil {
			return fmt.Errorf("decoder failed: %v: %s", err, decodeErr.String())
		}
	}
	if err := encodeIn.Close(); err != nil {
		return fmt.Errorf("failed to close encoder pipe: %w", err)
	}
	encodeReaped = true
	if err := encode.Wait(); err != nil {
		return fmt.Errorf("encoder failed: %v: %s", err, encodeErr.String())
	}
	if idx == 0 {
		return fmt.Errorf("no frames decoded from %s", meta.VideoPath)
	}

	return r.mergeAudio(tmpVideo, meta.VideoPath, outputPath)
}

// mergeAudio muxes the source audio onto the rendered video. A source
// with no usable audio still produces the silent video file.
func (r *Renderer) mergeAudio(tmpVideo, source, outputPath string) error {
	merge := ffmpeg.NewAudioMergeCmd(tmpVideo, source, outputPath)
	var mergeErr bytes.Buffer
	merge.Stderr = &mergeErr
	if err := merge.Run(); err != nil {
		log.Printf("audio merge failed, keeping silent video: %v: %s", err, mergeErr.String())
		return os.Rename(tmpVideo, outputPath)
	}
	return nil
}

// cropWindow centers a full-height crop on centerX, clamped so the
// window never leaves the frame.
func cropWindow(centerX, cropW, width, height int) image.Rectangle {
	x0 := centerX - cropW/2
	if x0 < 0 {
		x0 = 0
	}
	if x0 > width-cropW {
		x0 = width - cropW
	}
	return image.Rect(x0, 0, x0+cropW, height)
}

func debugFrameData(scanData *types.ScanResult, idx int) *types.DetectionFrame {
	if scanData == nil || idx >= len(scanData.Frames) {
		return nil
	}
	return &scanData.Frames[idx]
}

func debugReason(cp *types.CameraPath, idx int) string {
	if idx < len(cp.DebugInfo) {
		return cp.DebugInfo[idx]
	}
	return ""
}
