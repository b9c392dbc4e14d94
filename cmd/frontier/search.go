package main

import (
	"fmt"
	"strings"

	"frontier/internal/models"
	"frontier/internal/session"
	"frontier/internal/transport/cli"

	"github.com/spf13/cobra"
)

var (
	searchLevel string
	searchCap   int
)

var searchCmd = &cobra.Command{
	Use:          "search <topic>",
	Short:        "Print summaries of the newest papers on a topic",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, flushLog, err := setup(cmd.Context())
		defer flushLog()
		if err != nil {
			return err
		}
		level, err := models.ParseExpertise(searchLevel)
		if err != nil {
			return err
		}

		st, err := newStack(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		sess := st.registry.Create(ctx)
		res, err := sess.HandleTopicSubmitted(ctx, session.TopicSubmitted{
			Topic:     strings.Join(args, " "),
			Expertise: level,
			ResultCap: searchCap,
		}, func(it session.Item) { cli.PrintItem(out, it) })
		if err != nil {
			return err
		}
		if res.Empty {
			fmt.Fprintln(out, "No papers found for this topic.")
			return nil
		}
		fmt.Fprintf(out, "\n%d papers, %d failed.\n", res.Stats.Total, res.Stats.Failed)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchLevel, "level", "l", string(models.Beginner), "expertise level: Beginner, Intermediate or Advanced")
	searchCmd.Flags().IntVarP(&searchCap, "max", "n", 0, "maximum number of papers (default from FRONTIER_RESULT_CAP)")
	rootCmd.AddCommand(searchCmd)
}
