package dca

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// FitOptions tunes a single calibration
type FitOptions struct {
	// MaxIter caps optimizer major iterations; 0 means 1000
	MaxIter int
	// Timeout caps wall time per well; 0 means no limit
	Timeout time.Duration
	// Workers bounds FitBatch concurrency; 0 means 1
	Workers int
}

// FitResult is the best parameter set found for one history
type FitResult struct {
	Params     Parameters
	RMSE       float64
	Iterations int
	Converged  bool
	// AtBound flags parameters that ended on a bound, in
	// InitialProduction, HypDecline, ExpDecline, B order
	AtBound [4]bool
	Status  string
}

// RMSE is sqrt(sum((a-p)^2)). It is not normalized by the sample count.
func RMSE(actual, predicted []float64) float64 {
	return floats.Distance(actual, predicted, 2)
}

// DeclineTail returns the index of the peak month and the history from it on
func DeclineTail(history []float64) (peak int, tail []float64) {
	if len(history) == 0 {
		return 0, nil
	}
	peak = floats.MaxIdx(history)
	return peak, history[peak:]
}

// Fit minimizes RMSE between actual and the curve over len(actual) months.
// Parameters are projected into bounds before each evaluation. Failing to
// converge is reported on the result, not as an error.
func Fit(actual []float64, guess Parameters, bounds Bounds, opts FitOptions) (FitResult, error) {
	if len(actual) == 0 {
		return FitResult{}, apperror.New(apperror.CodeMalformedInput, "cannot fit an empty history")
	}
	if err := bounds.Validate(); err != nil {
		return FitResult{}, err
	}

	pred := make([]float64, len(actual))
	x := make([]float64, 4)
	objective := func(v []float64) float64 {
		copy(x, v)
		bounds.clamp(x)
		EvaluateInto(pred, fromVector(x))
		r := RMSE(actual, pred)
		if math.IsNaN(r) {
			return math.Inf(1)
		}
		return r
	}

	start := guess.vector()
	bounds.clamp(start)

	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = 1000
	}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Runtime:         opts.Timeout,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-8,
			Relative:   1e-10,
			Iterations: 50,
		},
	}

	res, err := optimize.Minimize(optimize.Problem{Func: objective}, start, settings, &optimize.NelderMead{})
	if res == nil {
		// The starting point is still a valid, bounded answer.
		return finish(actual, start, bounds, 0, false, statusName(optimize.Failure, err)), nil
	}
	return finish(actual, res.X, bounds, res.Stats.MajorIterations, converged(res.Status) && err == nil,
		statusName(res.Status, err)), nil
}

func finish(actual, v []float64, bounds Bounds, iters int, ok bool, status string) FitResult {
	x := append([]float64(nil), v...)
	at := bounds.clamp(x)
	p := fromVector(x)
	pred := make([]float64, len(actual))
	EvaluateInto(pred, p)
	return FitResult{
		Params:     p,
		RMSE:       RMSE(actual, pred),
		Iterations: iters,
		Converged:  ok,
		AtBound:    at,
		Status:     status,
	}
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge, optimize.FunctionThreshold:
		return true
	default:
		return false
	}
}

func statusName(s optimize.Status, err error) string {
	if err != nil {
		return s.String() + ": " + err.Error()
	}
	return s.String()
}
