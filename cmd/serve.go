package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/naka-gawa/github-viewer/internal/render"
	"github.com/naka-gawa/github-viewer/internal/server"
	"github.com/naka-gawa/github-viewer/internal/usecase"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the widget over HTTP",
	Long: `Starts an HTTP server exposing the widget of the configured user at
/widget, its data at /api/v1/viewer, and ad-hoc lookups at /api/v1/users/:user.
The first fetch starts right away; POST /api/v1/viewer/refresh starts another.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			exitWithError("%v", err)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		fetcher, languages, err := newFetchers(cfg, logger)
		if err != nil {
			exitWithError("%v", err)
		}
		viewer := usecase.NewViewer(fetcher, languages, cfg.UserID, cfg.Exclusions, logger)

		gin.SetMode(gin.ReleaseMode)
		srv := server.New(viewer, fetcher, languages, render.Size{Height: cfg.Height, Width: cfg.Width}, logger)
		defer srv.Close()
		srv.Start()

		httpServer := &http.Server{
			Addr:              cfg.Addr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Server shutdown failed")
			}
		}()

		logger.Info().Str("addr", cfg.Addr).Str("user", cfg.UserID).Msg("Serving widget")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitWithError("Server failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from configuration, :8080)")
}
