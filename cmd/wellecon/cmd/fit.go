package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit decline curves to monthly production",
	RunE:  runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := svc.FitWells(context.Background())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(report)
	}

	fmt.Printf("  %-16s %-4s %5s %10s %7s %7s %6s %10s %s\n",
		"API", "STR", "PEAK", "IP", "DI", "DMIN", "B", "RMSE", "STATUS")
	for _, f := range report.Fits {
		p := f.Params
		fmt.Printf("  %-16s %-4s %5d %10.1f %7.4f %7.4f %6.3f %10.2f %s\n",
			f.API, f.Stream, f.Peak, p.InitialProduction, p.HypDecline, p.ExpDecline, p.B, f.RMSE, f.Status)
	}
	fmt.Printf("\nConverged: %d of %d\n", report.Converged, len(report.Fits))
	printRunID(report.RunID)
	return nil
}
