package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/handiism/disk-collage/internal/config"
	"github.com/handiism/disk-collage/internal/tui"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "disk-collage-tui",
		Short:        "disk-collage-tui - interactive collage builder",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			if configPath != "" {
				var err error
				settings, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			if err := settings.LoadFromEnv(); err != nil {
				return err
			}
			return tui.Run(settings)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a JSON or YAML config file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
