package handlers

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"iglesia/internal/config"
	"iglesia/internal/enrich"
	"iglesia/internal/pipeline"
	"iglesia/internal/podcast"
)

// NewFeedCmd creates the podcast feed command.
func NewFeedCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Render podcast.xml from the accumulated episode metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			records := enrich.LoadMetadata(pipeline.MetadataPath(cfg.App.DataDir))
			if len(records) == 0 {
				return fmt.Errorf("no episode metadata found under %s", cfg.App.DataDir)
			}

			feed := podcast.Build(cfg.Podcast, records)
			if err := podcast.Write(output, feed); err != nil {
				return err
			}
			fmt.Printf("feed written to %s with %d items\n", output, len(feed.Channel.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", filepath.Join(".", "podcast.xml"), "output file")
	return cmd
}
