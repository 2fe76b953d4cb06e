package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"iglesia/internal/config"
	"iglesia/internal/pipeline"
)

// NewPipelineCmd creates the dated scrape-and-clean command.
func NewPipelineCmd() *cobra.Command {
	var (
		date  string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Scrape, extract and clean one day's documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			cfg.App.Debug = debug

			runner := pipeline.New(cfg)
			eps, batch, err := runner.RunDaily(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Println(batch.Summary())
			fmt.Printf("wrote %d episodes for %s\n", len(eps), date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to process (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose run")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
