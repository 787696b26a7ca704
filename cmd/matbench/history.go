package main

import (
	"fmt"
	"strconv"
	"time"

	"matbench/internal/db"
	"matbench/internal/ui"
	"matbench/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	historyLimit int
	historySince string
)

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
	historyListCmd.Flags().StringVar(&historySince, "since", "", "Only list runs started after this point (e.g. 24h, 7d, 2024-06-01)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect benchmark runs kept in the history store",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored benchmark runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		var since time.Time
		if historySince != "" {
			var err error
			if since, err = utils.ParseSince(historySince, now); err != nil {
				return err
			}
		}

		store, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if !since.IsZero() {
			runs = startedSince(runs, since)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderRuns(runs, now))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the samples and averages of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}

		store, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(id)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", id, err)
		}
		if run == nil {
			return fmt.Errorf("run %d not found", id)
		}

		samples, err := store.Samples(id)
		if err != nil {
			return fmt.Errorf("failed to load samples of run %d: %w", id, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderRun(*run, samples))
		return nil
	},
}

func startedSince(runs []db.RunRecord, since time.Time) []db.RunRecord {
	kept := runs[:0]
	for _, r := range runs {
		if !r.StartedAt.Before(since) {
			kept = append(kept, r)
		}
	}
	return kept
}

func openHistoryStore() (db.Store, error) {
	store, err := storeFactory(db.StoreConfig{
		Type:             viper.GetString("history.type"),
		ConnectionString: viper.GetString("history.dsn"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}
