// Package autoreframe converts wide video into vertical crops by planning
// and following a smoothed horizontal camera path.
//
// The pipeline has three phases. The scan phase streams the video through
// ffmpeg, asks a vision model for per-frame salient points and merges in
// track data from an external detector. The analyze phase plans a camera
// path over the complete scan: target selection by class priority, a
// smart-lock state machine with look-ahead validation, dead-zone
// stabilization and cinematic smoothing. The render phase crops every
// frame around its planned center and muxes the source audio back in.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/framewright/autoreframe"
//	)
//
//	func main() {
//		engine, err := autoreframe.New()
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := engine.Reframe(context.Background(), "wide.mp4", "tracks.json", "vertical.mp4"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Scan (pkg/scan): Streams frames and produces the per-frame scan file
// 2. Planner (pkg/planner): Plans the camera path over the scan data
// 3. Render (pkg/render): Crops the video along the planned path
// 4. Vision (pkg/vision): Queries a multimodal model for salient points
//
// The planner is pure and offline: the full frame history must exist
// before planning starts, and identical input always yields an identical
// path.
package autoreframe

import (
	"context"
	"fmt"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/client"
	"github.com/framewright/autoreframe/pkg/llamacpp"
	"github.com/framewright/autoreframe/pkg/ollama"
	"github.com/framewright/autoreframe/pkg/planner"
	"github.com/framewright/autoreframe/pkg/render"
	"github.com/framewright/autoreframe/pkg/scan"
	"github.com/framewright/autoreframe/pkg/types"
	"github.com/framewright/autoreframe/pkg/vision"
)

// Version of the autoreframe library
const Version = "0.1.0"

// Engine provides a high-level interface over the scan, analyze and
// render phases.
type Engine struct {
	cfg      *config.Config
	planner  *planner.Planner
	renderer *render.Renderer
}

// New creates an Engine with default configuration.
func New() (*Engine, error) {
	return NewWithConfig(config.Default())
}

// NewWithConfig creates an Engine with a custom configuration. The config
// is validated once here; construction fails on out-of-range values.
func NewWithConfig(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	p, err := planner.New(cfg)
	if err != nil {
		return nil, err
	}
	r, err := render.NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, planner: p, renderer: r}, nil
}

// Scan extracts per-frame saliency and merges external track data.
// tracksPath may be empty.
func (e *Engine) Scan(ctx context.Context, videoPath, tracksPath string) (*types.ScanResult, error) {
	c, err := e.visionClient()
	if err != nil {
		return nil, err
	}
	locator := vision.NewLocator(c, e.cfg.Scanner, e.cfg.SaliencyControl)
	return scan.NewScanner(e.cfg, locator).Scan(ctx, videoPath, tracksPath)
}

// Plan computes the camera path for a scan result.
func (e *Engine) Plan(result *types.ScanResult) (*types.CameraPath, error) {
	return e.planner.Plan(result)
}

// Render crops the source video along a planned path. scanData is
// optional and only used for debug overlays.
func (e *Engine) Render(ctx context.Context, cp *types.CameraPath, scanData *types.ScanResult, outputPath string) error {
	return e.renderer.Render(ctx, cp, scanData, outputPath)
}

// Reframe runs all three phases back to back.
func (e *Engine) Reframe(ctx context.Context, videoPath, tracksPath, outputPath string) error {
	result, err := e.Scan(ctx, videoPath, tracksPath)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	cp, err := e.Plan(result)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	if err := e.Render(ctx, cp, result, outputPath); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

func (e *Engine) visionClient() (client.VisionClient, error) {
	switch e.cfg.Scanner.Backend {
	case "llamacpp":
		return llamacpp.NewClient(e.cfg.Scanner.URL)
	default:
		return ollama.NewClient(e.cfg.Scanner.URL)
	}
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
