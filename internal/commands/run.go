package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/framewright/autoreframe/internal/utils"
	"github.com/framewright/autoreframe/pkg/planner"
	"github.com/framewright/autoreframe/pkg/render"
	"github.com/framewright/autoreframe/pkg/scan"
	"github.com/framewright/autoreframe/pkg/vision"
)

var (
	runInput  string
	runTracks string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan, plan and render in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.FileExists(runInput) {
			return fmt.Errorf("input video %s does not exist", runInput)
		}
		if runOutput == "" {
			runOutput = utils.DeriveOutputFilename(runInput, "_reframed", "mp4")
		}

		c, err := newVisionClient()
		if err != nil {
			return fmt.Errorf("failed to create %s client: %w", cfg.Scanner.Backend, err)
		}
		locator := vision.NewLocator(c, cfg.Scanner, cfg.SaliencyControl)
		reply, err := locator.VerifyBackend(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s backend check failed: %w", cfg.Scanner.Backend, err)
		}
		log.Printf("%s model %s responded: %s", cfg.Scanner.Backend, cfg.Scanner.Model, firstLine(reply))

		scanner := scan.NewScanner(cfg, locator)
		result, err := scanner.Scan(cmd.Context(), runInput, runTracks)
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

		r, err := render.NewRenderer(cfg)
		if err != nil {
			return err
		}
		if err := r.Render(cmd.Context(), path, result, runOutput); err != nil {
			return err
		}
		log.Printf("rendered %s", runOutput)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "Path to source video")
	runCmd.Flags().StringVarP(&runTracks, "tracks", "t", "", "Path to external tracker detections JSON (optional)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Path to write the cropped video (default: <video>_reframed.mp4)")

	runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
