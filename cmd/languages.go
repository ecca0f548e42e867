package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/naka-gawa/github-viewer/internal/render"
	"github.com/naka-gawa/github-viewer/internal/usecase"
	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Counts the repositories using each language",
	Long: `Fetches the repositories of the user, then the languages of every
repository that is not excluded, and prints how many repositories use each
language next to the repository list.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			exitWithError("%v", err)
		}
		output, _ := cmd.Flags().GetString("output")
		quiet, _ := cmd.Flags().GetBool("quiet")

		fetcher, languages, err := newFetchers(cfg, logger)
		if err != nil {
			exitWithError("%v", err)
		}
		var progress *barProgress
		if showProgress(quiet, output, isTerminal(os.Stdout)) {
			progress = newBarProgress(os.Stderr)
			languages.WithProgress(progress)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		viewer := usecase.NewViewer(fetcher, languages, cfg.UserID, cfg.Exclusions, logger)
		snap, err := viewer.Refresh(ctx)
		if progress != nil {
			progress.Finish()
		}
		if err != nil {
			exitWithError("Failed to aggregate languages: %v", err)
		}
		if len(snap.FailedRepositories) > 0 {
			logger.Warn().Strs("repositories", snap.FailedRepositories).Msg("Languages could not be fetched for some repositories")
		}

		size := render.Size{Height: cfg.Height, Width: cfg.Width}
		if err := writeSnapshot(cmd.OutOrStdout(), snap, output, size); err != nil {
			exitWithError("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().StringP("output", "o", outputWidget, "Output format: widget, json or html")
	languagesCmd.Flags().BoolP("quiet", "q", false, "Do not show a progress bar")
}
