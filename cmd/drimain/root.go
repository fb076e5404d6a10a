package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drimer.pl/drimain/internal/config"
)

// Set via -ldflags at build time.
var (
	Version = "0.1.0"
	Commit  = "dev"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "drimain",
	Short: "drimain – ticketing and maintenance scheduling backend",
	Long:  "drimain serves the ticket (zgloszenia), schedule (harmonogramy) and admin REST API.\n\nRun 'drimain serve' to start the server, 'drimain migrate up' to prepare the database.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "drimain %s (%s)\n", Version, Commit)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	return config.Load(flagConfig)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config file (yaml, toml or json); DRIMAIN_* env vars override it")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			if err := cmd.Usage(); err != nil {
				return err
			}
			os.Exit(2)
		}
		return nil
	})
}
