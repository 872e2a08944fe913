package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nmtun/raune/internal/httpapi"
	"github.com/nmtun/raune/internal/seed"
	"github.com/nmtun/raune/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the checkpoint worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, conn, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		srv := httpapi.New(httpapi.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, app, logger)

		checkpoint := worker.NewCheckpointWorker(app.Repos.Buffer, app.Restaurants, cfg.Worker.BatchSize, cfg.Worker.Interval, logger)
		checkpoint.Sessions = app.Accounts

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Serve(gctx) })
		g.Go(func() error { return checkpoint.Run(gctx) })
		if cfg.Seed.Watch {
			g.Go(func() error {
				return seed.Watch(gctx, cfg.Seed.Dir, logger, func(data *seed.Data) {
					if err := app.ReloadSeed(gctx, data); err != nil {
						logger.Error("seed reload failed", zap.Error(err))
						return
					}
					logger.Info("seed data reloaded", zap.Int("reviews", len(data.Reviews)), zap.Int("tags", len(data.Tags)))
				})
			})
		}

		logger.Info("raune started",
			zap.Int("port", cfg.Server.Port),
			zap.String("driver", cfg.Storage.Driver),
			zap.String("db", cfg.Storage.Path))
		err = g.Wait()

		// 종료 전에 남은 로그를 한 번 더 반영
		if n, cerr := checkpoint.ProcessCheckpoint(context.Background()); cerr != nil {
			logger.Warn("final checkpoint failed", zap.Error(cerr))
		} else if n > 0 {
			logger.Info("final checkpoint", zap.Int("logs", n))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
