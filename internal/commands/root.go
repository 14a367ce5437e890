// Package commands wires the scan, analyze, render and run subcommands
// of the autoreframe CLI.
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/framewright/autoreframe/internal/config"
	"github.com/framewright/autoreframe/pkg/client"
	"github.com/framewright/autoreframe/pkg/llamacpp"
	"github.com/framewright/autoreframe/pkg/ollama"
)

// Version is the application version.
const Version = "0.1.0"

var (
	cfg     *config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:     "autoreframe",
	Short:   "Automatic reframing of wide video into vertical crops",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.GetConfigPath()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				log.Printf("no config at %s, using defaults", path)
				cfg = config.Default()
				return cfg.Validate()
			}
		}

		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return err
		}
		return cfg.Validate()
	},
}

// Execute runs the CLI with a context that cancels on Ctrl+C.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newVisionClient builds the configured model backend.
func newVisionClient() (client.VisionClient, error) {
	switch cfg.Scanner.Backend {
	case "llamacpp":
		return llamacpp.NewClient(cfg.Scanner.URL)
	default:
		return ollama.NewClient(cfg.Scanner.URL)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config JSON (default: ~/.config/autoreframe/config.json)")
}
