package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var timingCmd = &cobra.Command{
	Use:   "timing",
	Short: "Project current and future wells per section",
	RunE:  runTiming,
}

func init() {
	rootCmd.AddCommand(timingCmd)
}

func runTiming(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := svc.Timing(context.Background())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(report)
	}

	fmt.Printf("Valuation date: %s\n\n", report.ValuationDate.Format("2006-01-02"))
	fmt.Printf("  %-14s %8s %-11s %-11s %8s %-11s %-11s %8s %-11s\n",
		"SECTION", "CURRENT", "SPUD", "SALES", "FUTURE", "SPUD", "SALES", "FUTURE_2", "SALES_2")
	for _, r := range report.Records {
		p, s := r.Primary, r.Secondary
		fmt.Printf("  %-14s %8d %-11s %-11s %8d %-11s %-11s %8d %-11s\n",
			r.Section, p.CurrentWells, dash(p.CurrentSpud.String()), dash(p.CurrentSales.String()),
			p.FutureWells, dash(p.FutureSpud.String()), dash(p.FutureSales.String()),
			s.FutureWells, dash(s.FutureSales.String()))
	}
	printRunID(report.RunID)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
