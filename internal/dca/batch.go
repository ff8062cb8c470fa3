package dca

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// FitBatch calibrates every history concurrently with at most opts.Workers
// fits in flight. Results are indexed like histories. The first error or a
// cancelled ctx stops dispatch of further wells.
func FitBatch(ctx context.Context, histories [][]float64, guesses []Parameters, bounds Bounds, opts FitOptions) ([]FitResult, error) {
	if len(guesses) != len(histories) {
		return nil, apperror.ShapeMismatch("%d guesses for %d histories", len(guesses), len(histories))
	}
	results := make([]FitResult, len(histories))
	err := forEachWell(ctx, len(histories), opts.Workers, func(i int) error {
		res, err := Fit(histories[i], guesses[i], bounds, opts)
		results[i] = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// PeakFit is the outcome of FitPeak for one well
type PeakFit struct {
	Peak int
	FitResult
}

// FitPeakBatch runs FitPeak over every history with the pool of FitBatch.
// guess and bounds are relative to a unit peak.
func FitPeakBatch(ctx context.Context, histories [][]float64, guess Parameters, bounds Bounds, opts FitOptions) ([]PeakFit, error) {
	results := make([]PeakFit, len(histories))
	err := forEachWell(ctx, len(histories), opts.Workers, func(i int) error {
		peak, res, err := FitPeak(histories[i], guess, bounds, opts)
		results[i] = PeakFit{Peak: peak, FitResult: res}
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func forEachWell(ctx context.Context, n, workers int, fit func(i int) error) error {
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fit(i); err != nil {
				return apperror.Wrap(err, apperror.CodeInternal, "fit well").WithDetail("well", i)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// FitPeak fits the post-peak tail of history with the initial production
// guess and bounds scaled by the peak value
func FitPeak(history []float64, guess Parameters, bounds Bounds, opts FitOptions) (peak int, res FitResult, err error) {
	peak, tail := DeclineTail(history)
	if len(tail) == 0 {
		return 0, FitResult{}, apperror.New(apperror.CodeMalformedInput, "cannot fit an empty history")
	}
	scale := tail[0]
	if scale <= 0 {
		scale = 1
	}
	res, err = Fit(tail, guess.ScaleIP(scale), bounds.ScaleIP(scale), opts)
	return peak, res, err
}
