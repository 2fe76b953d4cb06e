package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"iglesia/internal/config"
	"iglesia/internal/core"
	"iglesia/internal/episodes"
	"iglesia/internal/logger"
	"iglesia/internal/site"
)

// NewSiteCmd creates the static site build command.
func NewSiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Freeze the website from weekly summaries and analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			sums, err := site.LoadSummaries(cfg.App.SummariesDir)
			if err != nil {
				return err
			}
			if len(sums) == 0 {
				return fmt.Errorf("no weekly summaries under %s", cfg.App.SummariesDir)
			}

			analyses, err := loadAnalysesByWeek(cfg.App.DataDir)
			if err != nil {
				return err
			}

			builder, err := site.NewBuilder(cfg.Site)
			if err != nil {
				return err
			}
			if err := builder.Build(sums, analyses); err != nil {
				return err
			}
			fmt.Printf("site built into %s (%d weeks)\n", cfg.Site.BuildDir, len(sums))
			return nil
		},
	}
	return cmd
}

// loadAnalysesByWeek walks the dated data dirs and groups each day's
// analyses under its pontificate week.
func loadAnalysesByWeek(dataDir string) (map[int][]core.DocumentAnalysis, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
	}

	byWeek := make(map[int][]core.DocumentAnalysis)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		week, err := episodes.WeekForDate(e.Name())
		if err != nil {
			continue
		}
		analyses, err := site.LoadAnalyses(filepath.Join(dataDir, e.Name(), "analyses"))
		if err != nil {
			logger.Warn("could not load analyses", "date", e.Name(), "error", err.Error())
			continue
		}
		byWeek[week] = append(byWeek[week], analyses...)
	}
	return byWeek, nil
}
