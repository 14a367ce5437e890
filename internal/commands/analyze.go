package commands

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/framewright/autoreframe/pkg/planner"
	"github.com/framewright/autoreframe/pkg/scan"
	"github.com/framewright/autoreframe/pkg/types"
)

var (
	analyzeInput  string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Plan the camera path from a scan file",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := scan.LoadResult(analyzeInput)
		if err != nil {
			return err
		}

		p, err := planner.New(cfg)
		if err != nil {
			return err
		}
		path, err := p.Plan(result)
		if err != nil {
			return err
		}

		if err := scan.WritePath(analyzeOutput, path); err != nil {
			return err
		}
		printPathSummary(path)
		return nil
	},
}

// printPathSummary reports how the planned camera behaves: pan speed
// statistics and the number of hard jumps a viewer would perceive as cuts.
func printPathSummary(cp *types.CameraPath) {
	fmt.Fprintf(os.Stderr, "planned %d frames\n", len(cp.Path))
	if len(cp.Path) < 2 {
		return
	}

	speeds := make([]float64, len(cp.Path)-1)
	maxSpeed := 0.0
	cuts := 0
	cutThreshold := cfg.CameraControl.SmartCutThresholdPercent * float64(cp.Meta.Width)
	for i := 1; i < len(cp.Path); i++ {
		speed := math.Abs(float64(cp.Path[i] - cp.Path[i-1]))
		speeds[i-1] = speed
		if speed > maxSpeed {
			maxSpeed = speed
		}
		if speed > cutThreshold {
			cuts++
		}
	}

	mean, std := stat.MeanStdDev(speeds, nil)
	if math.IsNaN(std) {
		std = 0
	}
	fmt.Fprintf(os.Stderr, "pan speed: mean %.2f px/frame, stddev %.2f, max %.0f\n", mean, std, maxSpeed)
	fmt.Fprintf(os.Stderr, "hard cuts: %d\n", cuts)
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "scan.json", "Path to the scan result")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "path.json", "Path to write the camera path")

	rootCmd.AddCommand(analyzeCmd)
}
