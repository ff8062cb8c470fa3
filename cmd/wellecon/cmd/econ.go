package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petroval/wellecon/internal/valuation"
)

var econSample bool

var econCmd = &cobra.Command{
	Use:   "econ",
	Short: "Compute well economics",
	Long: `Computes production, revenue, tax and profit per stream and interest
category over the reporting window.

Producing wells are fitted from monthly production; future wells are
scheduled by section timing and priced with their type curves. With
--sample a random portfolio is valued instead.`,
	RunE: runEcon,
}

func init() {
	econCmd.Flags().BoolVar(&econSample, "sample", false, "value a random synthetic portfolio")
	rootCmd.AddCommand(econCmd)
}

func runEcon(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	source := valuation.SourceData
	if econSample {
		source = valuation.SourceSample
	}
	report, err := svc.Economics(context.Background(), source)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(report)
	}

	fmt.Printf("Valuation date: %s\n", report.ValuationDate.Format("2006-01-02"))
	fmt.Printf("Wells: %d (producing %d, scheduled %d)\n", report.Summary.Wells, report.Producing, report.Scheduled)
	fmt.Printf("Months: %d\n\n", report.Summary.Months)
	fmt.Printf("  %-6s %-18s %16s %16s %14s %16s\n", "STREAM", "CATEGORY", "PRODUCTION", "REVENUE", "TAX", "PROFIT")
	for _, l := range report.Summary.Lines {
		fmt.Printf("  %-6s %-18s %16s %16s %14s %16s\n", l.Stream, l.Category,
			l.Production.StringFixed(2), l.Revenue.StringFixed(2), l.Tax.StringFixed(2), l.Profit.StringFixed(2))
	}
	t := report.Summary.Total
	fmt.Printf("  %-6s %-18s %16s %16s %14s %16s\n", "TOTAL", "", "",
		t.Revenue.StringFixed(2), t.Tax.StringFixed(2), t.Profit.StringFixed(2))
	printRunID(report.RunID)
	return nil
}
