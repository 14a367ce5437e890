// Package planner turns per-frame detection and saliency data into a
// smoothed horizontal camera path. The pipeline is pure and offline:
// saliency stabilization, target selection, smart locking, dead-zone
// stabilization and cinematic smoothing all operate on the immutable
// scan result and produce one camera x position per frame.
package planner

import (
	"fmt"
	"strings"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/types"
)

// Planner plans camera paths for scan results using a validated config.
type Planner struct {
	cfg *config.Config
}

// New creates a Planner. The config is validated eagerly; a Planner that
// was constructed successfully never fails on configuration later.
func New(cfg *config.Config) (*Planner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Planner{cfg: cfg}, nil
}

// Plan computes the camera path for a scan result. The input is never
// mutated and the same input always yields the same path. A scan with no
// frames yields an empty path; a structurally broken scan is rejected
// before any planning happens.
func (p *Planner) Plan(scan *types.ScanResult) (*types.CameraPath, error) {
	if scan == nil {
		return nil, fmt.Errorf("nil scan result")
	}
	if len(scan.Frames) == 0 {
		return &types.CameraPath{Meta: scan.Meta, Path: []int{}, DebugInfo: []string{}}, nil
	}
	if err := validateScan(scan); err != nil {
		return nil, err
	}

	width := scan.Meta.Width
	height := scan.Meta.Height

	saliency, blocked := stabilizeSaliency(scan.Frames, width, p.cfg.SaliencyControl)

	proposals := make([]Proposal, len(scan.Frames))
	for i, f := range scan.Frames {
		proposals[i] = selectTarget(f.Tracks, saliency[i], width, height)
	}

	targets, reasons := lockTargets(scan.Frames, proposals, p.cfg.SmartLock)
	for i := range reasons {
		if blocked[i] && strings.Contains(reasons[i], "Saliency") {
			reasons[i] += " (Spike Blocked)"
		}
	}

	stabilized := stabilizePath(targets, width, p.cfg.CameraControl)
	path := smoothPath(stabilized, width, p.cfg.CameraControl, p.cfg.Tracking)

	return &types.CameraPath{Meta: scan.Meta, Path: path, DebugInfo: reasons}, nil
}

func validateScan(scan *types.ScanResult) error {
	if scan.Meta.Width <= 0 || scan.Meta.Height <= 0 {
		return fmt.Errorf("invalid video dimensions %dx%d", scan.Meta.Width, scan.Meta.Height)
	}
	for i, f := range scan.Frames {
		if f.Tracks == nil {
			return fmt.Errorf("frame %d: missing tracks array", i)
		}
		if f.FrameID < 1 {
			return fmt.Errorf("frame %d: invalid frame_id %d", i, f.FrameID)
		}
		for _, t := range f.Tracks {
			if t.Box.W < 0 || t.Box.H < 0 {
				return fmt.Errorf("frame %d: track %d has negative box size", i, t.ID)
			}
		}
	}
	return nil
}
