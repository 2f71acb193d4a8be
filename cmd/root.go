package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "musknews",
	Short: "Aggregated Musk news with a local stale-while-revalidate cache",
	Long: `musknews aggregates news about Elon Musk and his companies from a
news search API and optional RSS feeds, dedupes and sorts the results, and
keeps a local history so stale headlines stay readable while fresh ones load.`,
	RunE: runFetch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("musknews %s (commit: %s, built: %s)\n", version, commit, date)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if res := update.Check(ctx, version); res != nil {
			fmt.Printf("A newer release is available: %s\n", res.LatestVersion)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
