package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vthunder/companion/internal/config"
	"github.com/vthunder/companion/internal/journal"
	"github.com/vthunder/companion/internal/moodlog"
)

func historyCmd() *cobra.Command {
	var (
		limit       int
		showJournal bool
		today       bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent emotion readings (and optionally the action journal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statePath := statePathFromEnv()
			w := cmd.OutOrStdout()

			store, err := moodlog.Open(statePath)
			if err != nil {
				return err
			}
			defer store.Close()

			readings, err := store.Recent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(readings) == 0 {
				fmt.Fprintln(w, "no readings yet")
			}
			for _, r := range readings {
				score := "-"
				if r.Score != nil {
					score = fmt.Sprintf("%.2f", *r.Score)
				}
				mark := ""
				if r.Alerted {
					mark = " (alert)"
				}
				fmt.Fprintf(w, "%s  %-8s %5s%s\n", r.At.Format("2006-01-02 15:04:05"), r.Label, score, mark)
			}

			if !showJournal {
				return nil
			}
			j := journal.New(statePath)
			var entries []journal.Entry
			if today {
				now := time.Now()
				entries, err = j.Since(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
			} else {
				entries, err = j.Recent(limit)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			for _, e := range entries {
				line := fmt.Sprintf("%s  %-7s %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Summary)
				if e.Context != "" {
					line += " [" + e.Context + "]"
				}
				if e.Outcome != "" {
					line += " -> " + e.Outcome
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&showJournal, "journal", false, "also show the action journal")
	cmd.Flags().BoolVar(&today, "today", false, "with --journal, show all of today's entries instead of the last --limit")
	return cmd
}

// statePathFromEnv resolves STATE_PATH the same way the assistant does,
// without requiring an agent config
func statePathFromEnv() string {
	config.LoadEnvFile(envFile)
	if p := os.Getenv("STATE_PATH"); p != "" {
		return p
	}
	return config.DefaultStatePath
}
