package main

import (
	"context"
	"os"

	"frontier/internal/config"
	"frontier/pkg/log"

	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "frontier",
	Short: "Frontier: research discovery assistant",
	Long:  `Frontier finds the newest arXiv papers on a topic, summarizes them for your level and answers questions about them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setup loads configuration and installs the logger.
func setup(ctx context.Context) (context.Context, config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, config.Config{}, func() {}, err
	}
	ctx, flush := log.NewContextWithLogger(ctx, debug || cfg.Debug)
	return ctx, cfg, flush, nil
}
