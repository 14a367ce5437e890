package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framewright/autoreframe/internal/utils"
	"github.com/framewright/autoreframe/pkg/scan"
	"github.com/framewright/autoreframe/pkg/vision"
)

var (
	scanInput  string
	scanTracks string
	scanOutput string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract per-frame saliency and merge track data into a scan file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.FileExists(scanInput) {
			return fmt.Errorf("input video %s does not exist", scanInput)
		}
		if scanOutput == "" {
			scanOutput = utils.DeriveOutputFilename(scanInput, ".scan", "json")
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
		result, err := scanner.Scan(cmd.Context(), scanInput, scanTracks)
		if err != nil {
			return err
		}

		if err := scan.WriteResult(scanOutput, result); err != nil {
			return err
		}
		log.Printf("scanned %d frames from %s -> %s", len(result.Frames), scanInput, scanOutput)
		return nil
	},
}

// firstLine trims a model reply down to something loggable.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

func init() {
	scanCmd.Flags().StringVarP(&scanInput, "input", "i", "", "Path to source video")
	scanCmd.Flags().StringVarP(&scanTracks, "tracks", "t", "", "Path to external tracker detections JSON (optional)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Path to write the scan result (default: <video>.scan.json)")

	scanCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(scanCmd)
}
