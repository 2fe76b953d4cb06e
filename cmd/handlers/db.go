package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"iglesia/internal/config"
	"iglesia/internal/db"
	"iglesia/internal/enrich"
	"iglesia/internal/episodes"
	"iglesia/internal/notify"
	"iglesia/internal/pipeline"
	"iglesia/internal/site"
)

// NewDBCmd creates the database command group.
func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Sync content into the hosted database",
	}
	cmd.AddCommand(newDBSyncCmd())
	return cmd
}

func newDBSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Upsert episodes and weekly summaries into Supabase",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Get()
			if err := cfg.RequireSupabase(); err != nil {
				return err
			}

			client, err := db.NewClient(cfg.Supabase)
			if err != nil {
				return err
			}

			records := enrich.LoadMetadata(pipeline.MetadataPath(cfg.App.DataDir))

			// Anchor rows first, so the traducciones join finds them.
			seen := make(map[string]bool)
			var anchors []db.Homilia
			for _, rec := range records {
				_, slug, ok := db.SlugFromVaticanURL(rec.VaticanURL)
				if !ok || seen[slug] {
					continue
				}
				seen[slug] = true
				week := 0
				if w, err := episodes.WeekForDate(rec.Date); err == nil {
					week = w
				}
				anchors = append(anchors, db.Homilia{
					VaticanSlug: slug,
					Fecha:       rec.Date,
					Tipo:        rec.Type,
					Semana:      week,
				})
			}
			if len(anchors) > 0 {
				fmt.Println(client.UpsertHomilias(anchors).Summary())
			}

			batch, err := client.Sync(records)
			if err != nil {
				return err
			}
			fmt.Println(batch.Summary())

			sums, err := site.LoadSummaries(cfg.App.SummariesDir)
			if err != nil {
				return err
			}
			var semanas []db.Semana
			for _, sum := range sums {
				start := episodes.PontificateStart.AddDate(0, 0, (sum.Week-1)*7)
				semanas = append(semanas, db.Semana{
					Numero:      sum.Week,
					FechaInicio: start.Format("2006-01-02"),
					FechaFin:    start.AddDate(0, 0, 6).Format("2006-01-02"),
				})
			}
			if len(semanas) > 0 {
				fmt.Println(client.UpsertSemanas(semanas).Summary())

				stored, err := client.Semanas()
				if err != nil {
					return err
				}
				byNumero := make(map[int]int64, len(stored))
				for _, s := range stored {
					byNumero[s.Numero] = s.ID
				}
				var trads []db.SemanaTraduccion
				for _, sum := range sums {
					id, ok := byNumero[sum.Week]
					if !ok {
						continue
					}
					trads = append(trads, db.SemanaTraduccion{
						SemanaID: id,
						Idioma:   cfg.Podcast.Language,
						Titulo:   sum.Title,
						Resumen:  sum.Body,
					})
				}
				if len(trads) > 0 {
					fmt.Println(client.UpsertSemanaTraducciones(trads).Summary())
				}
			}

			tg := notify.NewTelegram(cfg.Telegram)
			msg := notify.EscapeMarkdownV2(fmt.Sprintf(
				"Sincronización completada: %d episodios, %d semanas", len(records), len(semanas)))
			if err := tg.Send(ctx, msg); err != nil {
				// Notification failure never fails the sync.
				fmt.Printf("telegram notification failed: %v\n", err)
			}
			return nil
		},
	}
}
