package commands

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/framewright/autoreframe/internal/utils"
	"github.com/framewright/autoreframe/pkg/render"
	"github.com/framewright/autoreframe/pkg/scan"
	"github.com/framewright/autoreframe/pkg/types"
)

var (
	renderInput  string
	renderScan   string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Crop the source video along a planned camera path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cp, err := scan.LoadPath(renderInput)
		if err != nil {
			return err
		}
		if renderOutput == "" {
			renderOutput = utils.DeriveOutputFilename(cp.Meta.VideoPath, "_reframed", "mp4")
		}

		var scanData *types.ScanResult
		if renderScan != "" {
			scanData, err = scan.LoadResult(renderScan)
			if err != nil {
				return err
			}
		}

		r, err := render.NewRenderer(cfg)
		if err != nil {
			return err
		}
		if err := r.Render(cmd.Context(), cp, scanData, renderOutput); err != nil {
			return err
		}
		log.Printf("rendered %s", renderOutput)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "path.json", "Path to the planned camera path")
	renderCmd.Flags().StringVarP(&renderScan, "scan", "s", "", "Path to the scan result for debug overlays (optional)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Path to write the cropped video (default: <video>_reframed.mp4)")

	rootCmd.AddCommand(renderCmd)
}
