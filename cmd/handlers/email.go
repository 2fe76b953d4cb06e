package handlers

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/spf13/cobra"

	"iglesia/internal/config"
	"iglesia/internal/email"
	"iglesia/internal/episodes"
	"iglesia/internal/site"
	"iglesia/internal/subscribers"
)

// NewEmailCmd creates the weekly newsletter command.
func NewEmailCmd() *cobra.Command {
	var (
		date  string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Send the weekly summary email to verified subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Get()
			if err := cfg.RequireSMTP(); err != nil {
				return err
			}
			if err := cfg.RequireCognito(); err != nil {
				return err
			}

			week, err := episodes.WeekForDate(date)
			if err != nil {
				return err
			}
			sums, err := site.LoadSummaries(cfg.App.SummariesDir)
			if err != nil {
				return err
			}
			idx := -1
			for i := range sums {
				if sums[i].Week == week {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("no weekly summary for week %d, run agents first", week)
			}
			weekly := sums[idx]

			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
			if err != nil {
				return fmt.Errorf("failed to load AWS configuration: %w", err)
			}
			lister := subscribers.NewLister(cognitoidentityprovider.NewFromConfig(awsCfg), cfg.AWS.UserPoolID)
			subs, err := lister.Verified(ctx)
			if err != nil {
				return err
			}

			sender := email.NewSender(cfg.Email)
			batch := sender.SendToAll(subs, email.Subject(weekly), func(sub subscribers.Subscriber) (string, error) {
				return email.RenderWeekly(weekly, sub.FirstName, cfg.Site.BaseURL)
			}, debug)
			fmt.Println(batch.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "any date inside the week to send (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&debug, "debug", false, "send only to the sender address")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
