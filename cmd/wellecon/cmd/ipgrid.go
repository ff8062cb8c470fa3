package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petroval/wellecon/internal/ipgrid"
)

var ipgridCmd = &cobra.Command{
	Use:   "ipgrid",
	Short: "Interpolate initial production over the section grid",
	RunE:  runIPGrid,
}

func init() {
	rootCmd.AddCommand(ipgridCmd)
}

func runIPGrid(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := svc.IPGrid(context.Background())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(report)
	}

	g := report.Grid
	fmt.Printf("Grid: %d x %d, %d formation(s)\n\n", g.NX, g.NY, g.Formations)
	fmt.Printf("  %-16s %12s %12s %12s %12s\n", "FORMATION", "OIL_MAX", "OIL_MEAN", "GAS_MAX", "GAS_MEAN")
	for f, name := range report.Formations {
		oilMax, oilMean := planeStats(g.Plane(f, ipgrid.StreamOil))
		gasMax, gasMean := planeStats(g.Plane(f, ipgrid.StreamGas))
		fmt.Printf("  %-16s %12.1f %12.1f %12.1f %12.1f\n", name, oilMax, oilMean, gasMax, gasMean)
	}
	printRunID(report.RunID)
	return nil
}

func planeStats(plane []float64) (maxV, mean float64) {
	if len(plane) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range plane {
		sum += v
		maxV = max(maxV, v)
	}
	return maxV, sum / float64(len(plane))
}
