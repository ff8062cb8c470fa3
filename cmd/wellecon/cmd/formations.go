package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var formationsCmd = &cobra.Command{
	Use:   "formations",
	Short: "Normalize the target formation of every well",
	RunE:  runFormations,
}

func init() {
	rootCmd.AddCommand(formationsCmd)
}

func runFormations(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := svc.Formations(context.Background())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(report)
	}

	for _, w := range report.Wells {
		fmt.Printf("  %-16s %-16s %s\n", w.API, dash(w.Label), dash(w.Rule))
	}

	cov := report.Coverage
	fmt.Printf("\nWells: %d, unmatched: %d\n", cov.Total, cov.Unmatched)
	rules := make([]string, 0, len(cov.ByRule))
	for r := range cov.ByRule {
		rules = append(rules, r)
	}
	sort.Strings(rules)
	for _, r := range rules {
		fmt.Printf("  %-22s %d\n", r, cov.ByRule[r])
	}
	printRunID(report.RunID)
	return nil
}
