package handlers

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"iglesia/internal/agents"
	"iglesia/internal/config"
	"iglesia/internal/episodes"
	"iglesia/internal/llm"
	"iglesia/internal/pipeline"
	"iglesia/internal/site"
	"iglesia/internal/wordcloud"
)

// NewAgentsCmd creates the content-analysis command: per-document
// analyses plus the consolidated weekly summary.
func NewAgentsCmd() *cobra.Command {
	var (
		date      string
		debug     bool
		withCloud bool
	)

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Run document analysis and the weekly summary for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			cfg.App.Debug = debug
			if err := cfg.RequireGemini(); err != nil {
				return err
			}

			eps, err := pipeline.LoadEpisodes(pipeline.EpisodesPath(cfg.App.DataDir, date))
			if err != nil {
				return err
			}
			if len(eps) == 0 {
				return fmt.Errorf("no episodes for %s, run the pipeline first", date)
			}

			client, err := llm.NewClient(cmd.Context(), cfg.AI)
			if err != nil {
				return err
			}
			analyzer := agents.NewAnalyzer(client)

			analysesDir := filepath.Join(cfg.App.DataDir, date, "analyses")
			analyses, batch := analyzer.AnalyzeAll(cmd.Context(), analysesDir, eps)
			fmt.Println(batch.Summary())

			week, err := episodes.WeekForDate(date)
			if err != nil {
				return err
			}
			sum, err := analyzer.WeeklySummary(cmd.Context(), week, date, analyses)
			if err != nil {
				return err
			}
			data, err := site.RenderSummary(sum)
			if err != nil {
				return err
			}
			sumPath := filepath.Join(cfg.App.SummariesDir, fmt.Sprintf("semana-%d.md", week))
			if err := writeFile(sumPath, data); err != nil {
				return err
			}
			fmt.Printf("weekly summary written to %s\n", sumPath)

			if withCloud {
				var all string
				for _, ep := range eps {
					all += ep.CleanText + "\n"
				}
				cloudPath := filepath.Join(cfg.App.DataDir, date, "wordcloud.json")
				if err := wordcloud.Write(cloudPath, wordcloud.Frequencies(all, 60)); err != nil {
					return err
				}
				fmt.Printf("word cloud written to %s\n", cloudPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to analyze (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose run")
	cmd.Flags().BoolVar(&withCloud, "wordcloud", false, "also compute the word cloud")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
