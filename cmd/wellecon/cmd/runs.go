package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petroval/wellecon/internal/store"
)

var (
	runsLimit int
	runsPrune time.Duration
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	Long: `Lists the runs recorded in the result store, newest first.

With --prune, runs older than the given age are deleted first.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs (0 = all)")
	runsCmd.Flags().DurationVar(&runsPrune, "prune", 0, "delete runs older than this age, e.g. 720h")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Store.Path})
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if runsPrune > 0 {
		n, err := st.Prune(ctx, runsPrune)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d run(s)\n\n", n)
	}

	runs, err := st.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	fmt.Printf("  %-36s %-11s %-8s %-20s %-11s %6s\n", "ID", "COMMAND", "VERSION", "STARTED", "VALUATION", "WELLS")
	for _, r := range runs {
		vd := "-"
		if !r.ValuationDate.IsZero() {
			vd = r.ValuationDate.Format("2006-01-02")
		}
		fmt.Printf("  %-36s %-11s %-8s %-20s %-11s %6d\n",
			r.ID, r.Command, r.Version, r.StartedAt.Format("2006-01-02 15:04:05"), vd, r.Wells)
	}
	return nil
}
