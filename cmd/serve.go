package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/timvw/interview-coach/internal/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interview HTTP API",
	Long: `Serve POST /api/interview?action=generate|evaluate|analyze and
GET /api/health for browser clients. The same routes are also mounted
without the /api prefix.

The listen address comes from --listen, INTERVIEW_COACH_LISTEN or PORT
(default :3001). Without an API key every action answers 500
"Missing API key" unless --offline is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagListen != "" {
			cfg.Listen = flagListen
		}

		logger := newLogger(os.Stderr)
		tel, metrics := initTelemetry(ctx, cfg)
		if tel != nil {
			defer tel.Shutdown(context.Background())
		}

		svc := newService(cfg, metrics, logger)
		if !svc.Ready() {
			logger.Warn("no API key configured; actions will fail until one is set", "provider", cfg.Provider)
		}

		if !flagVerbose {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := server.New(svc, server.Options{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			HasKey:   cfg.HasKey(),
			Offline:  cfg.Offline,
			Logger:   logger,
		})
		return srv.Run(ctx, cfg.Listen)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (default: :3001)")
	rootCmd.AddCommand(serveCmd)
}
