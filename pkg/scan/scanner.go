// Package scan produces and persists the per-frame detection data the
// planner consumes. Object detection and tracking run in an external
// tool whose output is merged in; saliency points come from a vision
// model queried on sampled frames.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/internal/ffmpeg"
	"github.com/framewright/autoreframe/pkg/types"
	"github.com/framewright/autoreframe/pkg/vision"
)

const megabyte = 1024 * 1024

// Scanner decodes a video, samples saliency points from a vision model
// and merges externally produced track data into a ScanResult.
type Scanner struct {
	cfg     *config.Config
	locator *vision.Locator
}

// NewScanner creates a scanner. The locator may be nil, in which case no
// saliency queries are made and all saliency points stay null.
func NewScanner(cfg *config.Config, locator *vision.Locator) *Scanner {
	return &Scanner{cfg: cfg, locator: locator}
}

// Scan streams the video through ffmpeg frame by frame. Every
// saliency_interval-th frame is sent to the vision model; tracksPath, if
// non-empty, names a detections JSON produced by the external tracker.
func (s *Scanner) Scan(ctx context.Context, videoPath, tracksPath string) (*types.ScanResult, error) {
	info, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return nil, err
	}

	tracksByFrame, err := loadTracks(tracksPath)
	if err != nil {
		return nil, err
	}

	interval := s.cfg.Scanner.SaliencyInterval
	if interval < 1 {
		interval = 1
	}

	cmd := ffmpeg.NewDecodeCmd(videoPath)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	bar := progressbar.NewOptions(info.TotalFrames,
		progressbar.OptionSetDescription("🎞  Scanning"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	frameScanner := bufio.NewScanner(stdout)
	frameScanner.Buffer(make([]byte, 0, megabyte), 64*megabyte)
	frameScanner.Split(ffmpeg.SplitJpeg)

	var frames []types.DetectionFrame
	frameID := 0
	for frameScanner.Scan() {
		if err := ctx.Err(); err != nil {
			cmd.Process.Kill()
			return nil, err
		}
		frameID++

		frame := types.DetectionFrame{
			FrameID: frameID,
			Tracks:  tracksByFrame[frameID],
		}
		if frame.Tracks == nil {
			frame.Tracks = []types.TrackedObject{}
		}

		if s.locator != nil && (frameID-1)%interval == 0 {
			img, _, err := image.Decode(bytes.NewReader(frameScanner.Bytes()))
			if err != nil {
				log.Printf("frame %d: jpeg decode failed, skipping saliency: %v", frameID, err)
			} else {
				point, err := s.locator.Locate(ctx, img)
				if err != nil {
					log.Printf("frame %d: saliency query failed: %v", frameID, err)
				} else {
					frame.SaliencyPoint = point
				}
			}
		}

		frames = append(frames, frame)
		bar.Add(1)
	}
	if err := frameScanner.Err(); err != nil {
		cmd.Process.Kill()
		return nil, fmt.Errorf("frame stream error: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v: %s", err, stderr.String())
	}
	if frames == nil {
		frames = []types.DetectionFrame{}
	}

	return &types.ScanResult{
		Meta: types.VideoMeta{
			VideoPath:   videoPath,
			Width:       info.Width,
			Height:      info.Height,
			TotalFrames: len(frames),
			FPS:         info.FPS,
			ScanTime:    time.Now().UTC().Format(time.RFC3339),
		},
		Frames: frames,
	}, nil
}

// loadTracks reads the external tracker's detections file and keys its
// tracks by frame id. It tolerates both a bare frames array and a full
// scan-result document.
func loadTracks(path string) (map[int][]types.TrackedObject, error) {
	if path == "" {
		return map[int][]types.TrackedObject{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracks file: %w", err)
	}

	var doc struct {
		Frames []types.DetectionFrame `json:"frames"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		var bare []types.DetectionFrame
		if err2 := json.Unmarshal(data, &bare); err2 != nil {
			return nil, fmt.Errorf("failed to parse tracks file %s: %w", path, err)
		}
		doc.Frames = bare
	}

	byFrame := make(map[int][]types.TrackedObject, len(doc.Frames))
	for _, f := range doc.Frames {
		if f.FrameID < 1 {
			return nil, fmt.Errorf("tracks file %s: invalid frame_id %d", path, f.FrameID)
		}
		byFrame[f.FrameID] = f.Tracks
	}
	return byFrame, nil
}
