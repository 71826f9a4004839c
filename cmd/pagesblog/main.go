package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/pagesblog"
)

// version is set at build time via ldflags.
var version = "dev"

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "pagesblog",
	Short: "pagesblog - a markdown blog served from posts.json and pages/",
	Long: `pagesblog serves a blog whose index lives in posts.json and whose posts are
markdown files under pages/, read from a local directory or a static host.

Configuration comes from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env when present)")
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the pagesblog version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pagesblog %s\n", version)
		},
	})
}

func loadConfig() (pagesblog.SiteConfig, error) {
	return pagesblog.LoadConfig(envFiles...)
}
