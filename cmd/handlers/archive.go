package handlers

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"iglesia/internal/archive"
	"iglesia/internal/config"
)

// NewArchiveCmd creates the link discovery and merge command.
func NewArchiveCmd() *cobra.Command {
	var (
		pope         string
		langs        []string
		forceRefresh bool
		download     bool
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Discover document links on vatican.va and merge them into flat records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			if pope == "" {
				pope = cfg.Scraper.Pope
			}
			if len(langs) == 0 {
				langs = cfg.Scraper.Languages
			}

			if download {
				a := archive.New(cfg.Scraper, forceRefresh)
				if _, err := a.FindAndSaveLinks(cmd.Context(), pope, langs); err != nil {
					return fmt.Errorf("link discovery failed: %w", err)
				}
			}

			links, err := archive.LoadLinks(cfg.Scraper.LinksDir)
			if err != nil {
				return fmt.Errorf("failed to load links: %w", err)
			}
			records := archive.Merge(links)

			csvPath := filepath.Join(cfg.Scraper.LinksDir, "documents.csv")
			if err := archive.WriteCSV(records, csvPath); err != nil {
				return err
			}
			pivotPath := filepath.Join(cfg.Scraper.LinksDir, "documents_pivot.csv")
			if err := archive.WritePivotCSV(records, pivotPath); err != nil {
				return err
			}
			fmt.Printf("merged %d records into %s\n", len(records), csvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&pope, "pope", "", "pope slug (default from config)")
	cmd.Flags().StringSliceVar(&langs, "langs", nil, "language codes (default from config)")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "bypass the page cache")
	cmd.Flags().BoolVar(&download, "download", true, "crawl before merging")
	return cmd
}
