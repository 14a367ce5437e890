package types

import (
	"encoding/json"
	"fmt"
)

// Object classes assigned by the upstream detector/tracker.
const (
	ClassFace   = 0
	ClassBody   = 1
	ClassObject = 2
)

// Point is a pixel coordinate with a top-left origin.
// It is serialized as a two-element array to match the scan format.
type Point struct {
	X int
	Y int
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("point must be a [x, y] array: %w", err)
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// Box is a pixel-space bounding box, serialized as [x, y, w, h].
type Box struct {
	X int
	Y int
	W int
	H int
}

// MarshalJSON encodes the box as [x, y, w, h].
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X, b.Y, b.W, b.H})
}

// UnmarshalJSON decodes a [x, y, w, h] array.
func (b *Box) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("bbox must be a [x, y, w, h] array: %w", err)
	}
	b.X, b.Y, b.W, b.H = arr[0], arr[1], arr[2], arr[3]
	return nil
}

// Area returns the box area in square pixels.
func (b Box) Area() int {
	return b.W * b.H
}

// Center returns the geometric center of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// TrackedObject is one detection with a stable identity assigned by the
// external tracker. Identities are unique within a frame and persist
// across frames until the tracker drops them.
type TrackedObject struct {
	ID         int     `json:"id"`
	ClassID    int     `json:"class_id"`
	Box        Box     `json:"bbox"`
	Confidence float64 `json:"conf"`
}

// DetectionFrame is the immutable per-frame input record produced by the
// scan phase. SaliencyPoint is nil when no salient point was extracted.
type DetectionFrame struct {
	FrameID       int             `json:"frame_id"`
	Tracks        []TrackedObject `json:"tracks"`
	SaliencyPoint *Point          `json:"saliency_point"`
}

// VideoMeta describes the scanned source video.
type VideoMeta struct {
	VideoPath   string  `json:"video_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TotalFrames int     `json:"total_frames"`
	FPS         float64 `json:"fps"`
	ScanTime    string  `json:"scan_time,omitempty"`
}

// ScanResult is the complete output of the scan phase and the complete
// input of the analyze phase. The planner requires the full frame history
// to be materialized before it runs.
type ScanResult struct {
	Meta   VideoMeta        `json:"meta"`
	Frames []DetectionFrame `json:"frames"`
}

// CameraPath is the output of the analyze phase: one camera-center x
// coordinate per input frame, plus a parallel human-readable decision
// trace of the same length.
type CameraPath struct {
	Meta      VideoMeta `json:"meta"`
	Path      []int     `json:"path"`
	DebugInfo []string  `json:"debug_info"`
}

// SalientPoint is a vision model's answer to "where should the viewer
// look": a focus location in normalized [0,1] image coordinates with a
// model-reported confidence.
type SalientPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label,omitempty"`
}
