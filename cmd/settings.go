package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/github-viewer/internal/config"
	"github.com/naka-gawa/github-viewer/internal/gateway"
	"github.com/naka-gawa/github-viewer/internal/logging"
	"github.com/naka-gawa/github-viewer/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// loadSettings merges the configuration file, the environment and the
// command line flags, then validates the result.
func loadSettings(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.New(os.Stderr, verbose)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, logger, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, logger, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, logger, err
	}
	logger.Debug().
		Str("user", cfg.UserID).
		Strs("exclusions", cfg.Exclusions).
		Str("api", cfg.API).
		Int("concurrency", cfg.Concurrency).
		Bool("authenticated", cfg.Token != "").
		Msg("Configuration loaded")
	return cfg, logger, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("user") {
		cfg.UserID, _ = flags.GetString("user")
	}
	if flags.Changed("exclude") {
		exclusions, err := flags.GetStringSlice("exclude")
		if err != nil {
			return fmt.Errorf("invalid --exclude: %w", err)
		}
		cfg.SetExclusions(exclusions)
	}
	if flags.Changed("api") {
		cfg.API, _ = flags.GetString("api")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	return nil
}

// newFetchers wires the gateway and the language fetcher for cfg.
func newFetchers(cfg *config.Config, logger zerolog.Logger) (gateway.Fetcher, *usecase.LanguageFetcher, error) {
	fetcher, err := gateway.New(cfg.API, gateway.Options{Token: cfg.Token, BaseURL: cfg.BaseURL}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return fetcher, usecase.NewLanguageFetcher(fetcher, cfg.Concurrency, logger), nil
}

func exitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
