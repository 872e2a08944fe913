package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/config"
	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/logging"
	"github.com/nmtun/raune/internal/seed"
	"github.com/nmtun/raune/service"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "raune",
	Short:         "Restaurant discovery and review service for Hanoi",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if logger, err = logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, File: cfg.Log.File}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func loadSeed() (*seed.Data, error) {
	if cfg.Seed.Dir != "" {
		return seed.LoadDir(cfg.Seed.Dir)
	}
	return seed.Load()
}

// openApp: 설정된 DB를 열고 시드를 반영한 App을 만든다. 닫기는 호출자가 한다.
func openApp(ctx context.Context) (*service.App, *sql.DB, error) {
	conn, err := db.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	data, err := loadSeed()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("loading seed data: %w", err)
	}
	app, err := service.NewApp(ctx, conn, data, cfg.Auth.SessionTTL, logger)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return app, conn, nil
}
