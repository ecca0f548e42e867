// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-viewer",
	Short: "Summarize the languages of a GitHub user's repositories.",
	Long: `github-viewer lists a GitHub user's public repositories and counts, for
every programming language, how many of those repositories use it.
Repositories can be excluded by name. The result can be printed as JSON,
drawn in the terminal, or served as an embeddable HTML widget.

The GitHub token is read from GITHUB_TOKEN, or from a .env file in the
working directory. Without a token requests are made anonymously.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags are available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Target GitHub user name (overrides the configuration)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "Repository names to exclude (comma separated or repeated)")
	rootCmd.PersistentFlags().String("api", "", "GitHub API to use: rest or graphql")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Maximum number of language requests in flight (1 = sequential)")
}
