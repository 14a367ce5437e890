package scan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/framewright/autoreframe/pkg/types"
)

// LoadResult reads a scan result from disk and validates it. Planning
// indexes the frame array positionally, so a structurally broken file is
// rejected here rather than producing a partial path later.
func LoadResult(path string) (*types.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan file: %w", err)
	}

	var result types.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse scan file %s: %w", path, err)
	}
	if err := ValidateResult(&result); err != nil {
		return nil, fmt.Errorf("invalid scan file %s: %w", path, err)
	}
	return &result, nil
}

// WriteResult writes a scan result as indented JSON.
func WriteResult(path string, result *types.ScanResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scan result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scan file: %w", err)
	}
	return nil
}

// ValidateResult checks the structural invariants the planner relies on:
// positive dimensions, 1-based sequential frame ids and a tracks array on
// every frame. An empty frame list is valid.
func ValidateResult(result *types.ScanResult) error {
	if result == nil {
		return fmt.Errorf("nil scan result")
	}
	if len(result.Frames) == 0 {
		return nil
	}
	if result.Meta.Width <= 0 || result.Meta.Height <= 0 {
		return fmt.Errorf("invalid video dimensions %dx%d", result.Meta.Width, result.Meta.Height)
	}
	for i, f := range result.Frames {
		if f.FrameID != i+1 {
			return fmt.Errorf("frame %d: expected frame_id %d, got %d", i, i+1, f.FrameID)
		}
		if f.Tracks == nil {
			return fmt.Errorf("frame %d: missing tracks array", i)
		}
	}
	return nil
}

// LoadPath reads a previously computed camera path.
func LoadPath(path string) (*types.CameraPath, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read path file: %w", err)
	}

	var cp types.CameraPath
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to parse path file %s: %w", path, err)
	}
	if cp.Path == nil {
		return nil, fmt.Errorf("path file %s: missing path array", path)
	}
	return &cp, nil
}

// WritePath writes a camera path as indented JSON.
func WritePath(path string, cp *types.CameraPath) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode camera path: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write path file: %w", err)
	}
	return nil
}
