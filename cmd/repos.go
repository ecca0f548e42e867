package cmd

import (
	"context"

	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/naka-gawa/github-viewer/internal/usecase"
	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Lists the repositories shown by the widget",
	Long:  `Lists the user's repositories in the order GitHub returns them, without the excluded ones. Only one request is made.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			exitWithError("%v", err)
		}
		output, _ := cmd.Flags().GetString("output")

		fetcher, _, err := newFetchers(cfg, logger)
		if err != nil {
			exitWithError("%v", err)
		}
		repos, err := fetcher.FetchRepositories(context.Background(), cfg.UserID)
		if err != nil {
			exitWithError("Failed to fetch repositories: %v", err)
		}

		links := usecase.FormatRepositories(repos, domain.NewExclusionSet(cfg.Exclusions))
		if err := writeRepositories(cmd.OutOrStdout(), links, output); err != nil {
			exitWithError("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
	reposCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
}
