package handlers

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"iglesia/internal/audio"
	"iglesia/internal/config"
	"iglesia/internal/core"
	"iglesia/internal/enrich"
	"iglesia/internal/episodes"
	"iglesia/internal/llm"
	"iglesia/internal/pipeline"
	"iglesia/internal/storage"
	"iglesia/internal/tts"
)

// NewAudioCmd creates the synthesis-and-upload command.
func NewAudioCmd() *cobra.Command {
	var (
		date            string
		forceRegenerate bool
		metadataOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Number episodes, generate metadata and publish audio for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Get()
			if err := cfg.RequireGemini(); err != nil {
				return err
			}
			if !metadataOnly {
				if err := cfg.RequireBucket(); err != nil {
					return err
				}
			}

			// Numbering runs over the full history so sub-indices stay
			// correct when a week spans several runs.
			all, err := pipeline.LoadAllEpisodes(cfg.App.DataDir)
			if err != nil {
				return err
			}
			all = episodes.Number(all)
			var eps []core.Episode
			for _, ep := range all {
				if ep.Date == date {
					eps = append(eps, ep)
				}
			}
			if len(eps) == 0 {
				return fmt.Errorf("no episodes for %s, run the pipeline first", date)
			}

			client, err := llm.NewClient(ctx, cfg.AI)
			if err != nil {
				return err
			}
			enricher := enrich.NewCached(client, pipeline.MetadataPath(cfg.App.DataDir))

			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
			if err != nil {
				return fmt.Errorf("failed to load AWS configuration: %w", err)
			}
			synth := tts.New(polly.NewFromConfig(awsCfg), cfg.Audio.ChunkSize)
			store := storage.NewS3Store(s3.NewFromConfig(awsCfg), cfg.AWS.Bucket, cfg.AWS.Region)

			pub := audio.NewPublisher(synth, store, enricher, audio.Options{
				ForceRegenerate: forceRegenerate,
				MetadataOnly:    metadataOnly,
				MinChars:        cfg.Audio.MinChars,
				MaxChars:        cfg.Audio.MaxChars,
			})
			records, batch := pub.Run(ctx, eps)
			fmt.Println(batch.Summary())

			merged := enrich.Merge(enrich.LoadMetadata(pipeline.MetadataPath(cfg.App.DataDir)), records)
			if err := enrich.SaveMetadata(pipeline.MetadataPath(cfg.App.DataDir), merged); err != nil {
				return err
			}
			fmt.Printf("metadata file now holds %d episodes\n", len(merged))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to process (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&forceRegenerate, "force-regenerate", false, "re-synthesize existing audio")
	cmd.Flags().BoolVar(&metadataOnly, "metadata-only", false, "skip synthesis and upload")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
