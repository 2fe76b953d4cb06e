// Package handlers defines the iglesia CLI commands.
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"iglesia/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "iglesia",
		Short: "Iglesia turns papal documents into a podcast, website and newsletter",
		Long: `Iglesia is the content pipeline behind igles-ia.es: it crawls
vatican.va for papal documents, cleans and enriches them with an LLM,
synthesizes audio episodes, and publishes the podcast feed, the static
website and the weekly subscriber email.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./iglesia.yaml)")

	rootCmd.AddCommand(NewArchiveCmd())
	rootCmd.AddCommand(NewPipelineCmd())
	rootCmd.AddCommand(NewAgentsCmd())
	rootCmd.AddCommand(NewAudioCmd())
	rootCmd.AddCommand(NewEmailCmd())
	rootCmd.AddCommand(NewFeedCmd())
	rootCmd.AddCommand(NewSiteCmd())
	rootCmd.AddCommand(NewDBCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration; a broken config file is fatal.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if used := config.Get().App.ConfigFile; used != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
	}
}
