package main

import (
	"os"
	"os/signal"
	"path/filepath"

	"frontier/internal/models"
	"frontier/internal/transport/cli"

	"github.com/spf13/cobra"
)

var chatLevel string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive research session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctx, cfg, flushLog, err := setup(ctx)
		defer flushLog()
		if err != nil {
			return err
		}
		level, err := models.ParseExpertise(chatLevel)
		if err != nil {
			return err
		}

		st, err := newStack(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		sess := st.registry.Create(ctx)
		sess.SetExpertise(level)

		rl, err := cli.NewReadLine(sess, filepath.Join(os.TempDir(), "frontier_history"))
		if err != nil {
			return err
		}
		defer rl.Shutdown(ctx)
		return rl.Start(ctx)
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatLevel, "level", "l", string(models.Beginner), "expertise level: Beginner, Intermediate or Advanced")
	rootCmd.AddCommand(chatCmd)
}
