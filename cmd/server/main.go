package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/darkrelay/internal/app"
	"github.com/vovakirdan/darkrelay/internal/auth"
	"github.com/vovakirdan/darkrelay/internal/config"
	applog "github.com/vovakirdan/darkrelay/internal/log"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	root := &cobra.Command{
		Use:          "darkrelay",
		Short:        "Real-time group chat relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath, overrides)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	flags.StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	flags.StringVar(&overrides.Log.Level, "log-level", "", "log level (debug, info, warn, error)")
	flags.DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	root.AddCommand(newHashSentinelCmd())
	return root
}

func serve(ctx context.Context, configPath string, overrides config.Config) error {
	bootLog := applog.New("info", "console")

	cfg, path, err := config.Load(bootLog, configPath)
	if err != nil {
		bootLog.Error().Err(err).Str("path", path).Msg("failed to load config")
		return err
	}
	cfg.UpdateFrom(overrides)

	logger := applog.New(cfg.Log.Level, cfg.Log.Format)
	logger.Info().Str("config", path).Msg("config loaded")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize")
		return err
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting darkrelay server")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newHashSentinelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-sentinel <marker>",
		Short: "Print a bcrypt hash for admin.sentinel_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashSentinel(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
