package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Transition modes for the path smoother.
const (
	TransitionSmooth = "smooth"
	TransitionCut    = "cut"
	TransitionSmart  = "smart"
)

// Config holds the full application configuration. It is constructed once,
// validated eagerly, and passed read-only into each pipeline stage.
type Config struct {
	SmartLock       SmartLockConfig       `json:"smart_lock"`
	SaliencyControl SaliencyControlConfig `json:"saliency_control"`
	CameraControl   CameraControlConfig   `json:"camera_control"`
	Tracking        TrackingConfig        `json:"tracking"`
	Scanner         ScannerConfig         `json:"scanner"`
	Render          RenderConfig          `json:"render"`
}

// SmartLockConfig tunes the lock engine's look-ahead behavior.
type SmartLockConfig struct {
	LookAheadFrames      int     `json:"look_ahead_frames"`
	SwitchThresholdRatio float64 `json:"switch_threshold_ratio"`
	GracePeriodFrames    int     `json:"grace_period_frames"`
}

// SaliencyControlConfig tunes the saliency spike filter.
type SaliencyControlConfig struct {
	JumpThresholdPercent float64 `json:"jump_threshold_percent"`
	StableFrames         int     `json:"stable_frames"`
	LookAheadConfidence  float64 `json:"look_ahead_confidence"`
	IgnoreBorderPercent  float64 `json:"ignore_border_percent"`
}

// CameraControlConfig tunes the dead-zone stabilizer and cut behavior.
type CameraControlConfig struct {
	DeadZonePercent          float64 `json:"dead_zone_percent"`
	MinDurationFrames        int     `json:"min_duration_frames"`
	TransitionMode           string  `json:"transition_mode"`
	SmartCutThresholdPercent float64 `json:"smart_cut_threshold_percent"`
}

// TrackingConfig tunes the cinematic smoother.
type TrackingConfig struct {
	SmoothFactor float64 `json:"smooth_factor"`
	EasingType   string  `json:"easing_type"`
}

// ScannerConfig selects and tunes the vision backend used to extract a
// per-frame salient point during the scan phase.
type ScannerConfig struct {
	Backend          string `json:"backend"`
	URL              string `json:"url"`
	Model            string `json:"model"`
	SendFormat       string `json:"send_format"`
	SendMaxDim       int    `json:"send_max_dim"`
	SendQuality      int    `json:"send_quality"`
	SaliencyInterval int    `json:"saliency_interval"`
}

// RenderConfig tunes the render phase output.
type RenderConfig struct {
	AspectW            int    `json:"aspect_w"`
	AspectH            int    `json:"aspect_h"`
	OutputQuality      int    `json:"output_quality"`
	DebugOverlay       bool   `json:"debug_overlay"`
	DebugFrameFormat   string `json:"debug_frame_format"`
	DebugFrameInterval int    `json:"debug_frame_interval"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		SmartLock: SmartLockConfig{
			LookAheadFrames:      60,
			SwitchThresholdRatio: 0.6,
			GracePeriodFrames:    30,
		},
		SaliencyControl: SaliencyControlConfig{
			JumpThresholdPercent: 0.2,
			StableFrames:         15,
			LookAheadConfidence:  0.5,
			IgnoreBorderPercent:  0.15,
		},
		CameraControl: CameraControlConfig{
			DeadZonePercent:          0.05,
			MinDurationFrames:        15,
			TransitionMode:           TransitionSmooth,
			SmartCutThresholdPercent: 0.30,
		},
		Tracking: TrackingConfig{
			SmoothFactor: 0.1,
			EasingType:   "ease_out",
		},
		Scanner: ScannerConfig{
			Backend:          "ollama",
			URL:              "http://localhost:11434",
			Model:            "openbmb/minicpm-v4.5",
			SendFormat:       "jpg",
			SendMaxDim:       1536,
			SendQuality:      85,
			SaliencyInterval: 1,
		},
		Render: RenderConfig{
			AspectW:            9,
			AspectH:            16,
			OutputQuality:      90,
			DebugFrameFormat:   "jpg",
			DebugFrameInterval: 0,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields absent from
// the file keep their defaults.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration once, before any planning runs.
// Ratios must lie in [0,1] and frame windows must be positive; values
// outside these ranges would otherwise silently distort mid-run behavior.
func (c *Config) Validate() error {
	if c.SmartLock.LookAheadFrames < 1 {
		return fmt.Errorf("smart_lock.look_ahead_frames must be positive")
	}
	if c.SmartLock.SwitchThresholdRatio < 0 || c.SmartLock.SwitchThresholdRatio > 1 {
		return fmt.Errorf("smart_lock.switch_threshold_ratio must be between 0 and 1")
	}
	if c.SmartLock.GracePeriodFrames < 0 {
		return fmt.Errorf("smart_lock.grace_period_frames must not be negative")
	}

	if c.SaliencyControl.JumpThresholdPercent < 0 || c.SaliencyControl.JumpThresholdPercent > 1 {
		return fmt.Errorf("saliency_control.jump_threshold_percent must be between 0 and 1")
	}
	if c.SaliencyControl.StableFrames < 1 {
		return fmt.Errorf("saliency_control.stable_frames must be positive")
	}
	if c.SaliencyControl.LookAheadConfidence < 0 || c.SaliencyControl.LookAheadConfidence > 1 {
		return fmt.Errorf("saliency_control.look_ahead_confidence must be between 0 and 1")
	}
	if c.SaliencyControl.IgnoreBorderPercent < 0 || c.SaliencyControl.IgnoreBorderPercent >= 0.5 {
		return fmt.Errorf("saliency_control.ignore_border_percent must be in [0, 0.5)")
	}

	if c.CameraControl.DeadZonePercent < 0 || c.CameraControl.DeadZonePercent > 1 {
		return fmt.Errorf("camera_control.dead_zone_percent must be between 0 and 1")
	}
	if c.CameraControl.MinDurationFrames < 1 {
		return fmt.Errorf("camera_control.min_duration_frames must be positive")
	}
	switch c.CameraControl.TransitionMode {
	case TransitionSmooth, TransitionCut, TransitionSmart:
	default:
		return fmt.Errorf("camera_control.transition_mode must be one of smooth, cut, smart")
	}
	if c.CameraControl.SmartCutThresholdPercent < 0 || c.CameraControl.SmartCutThresholdPercent > 1 {
		return fmt.Errorf("camera_control.smart_cut_threshold_percent must be between 0 and 1")
	}

	if c.Tracking.SmoothFactor <= 0 || c.Tracking.SmoothFactor >= 1 {
		return fmt.Errorf("tracking.smooth_factor must be strictly between 0 and 1")
	}

	switch c.Scanner.Backend {
	case "ollama", "llamacpp":
	default:
		return fmt.Errorf("scanner.backend must be ollama or llamacpp")
	}
	if c.Scanner.SendQuality < 1 || c.Scanner.SendQuality > 100 {
		return fmt.Errorf("scanner.send_quality must be between 1 and 100")
	}
	if c.Scanner.SaliencyInterval < 1 {
		return fmt.Errorf("scanner.saliency_interval must be positive")
	}

	if c.Render.AspectW < 1 || c.Render.AspectH < 1 {
		return fmt.Errorf("render aspect ratio components must be positive")
	}
	if c.Render.OutputQuality < 1 || c.Render.OutputQuality > 100 {
		return fmt.Errorf("render.output_quality must be between 1 and 100")
	}
	// Zero disables the overlay entirely.
	if c.Render.DebugFrameInterval < 0 {
		return fmt.Errorf("render.debug_frame_interval must not be negative")
	}

	return nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "autoreframe", "config.json")
}
