package dca

import (
	"math"

	"github.com/petroval/wellecon/internal/tensor"
)

const daysPerMonth = 365.0 / 12.0

// NominalDeclines converts the effective annual declines of p to nominal
// daily rates for the hyperbolic and exponential segments
func NominalDeclines(p Parameters) (hyp, exp float64) {
	exp = -math.Log(1-p.ExpDecline) / 365
	if p.B == 0 {
		hyp = -math.Log(1-p.HypDecline) / 365
		return hyp, exp
	}
	hyp = (math.Pow(1-p.HypDecline, -p.B) - 1) / p.B / 365
	return hyp, exp
}

// SwitchMonth is the fractional month where the hyperbolic decline rate
// falls to the exponential rate. It is never negative and is +Inf for b == 0.
func SwitchMonth(p Parameters) float64 {
	if p.B == 0 {
		return math.Inf(1)
	}
	hyp, exp := NominalDeclines(p)
	switchDay := (hyp/exp - 1) / (hyp * p.B)
	s := switchDay*12/365 - 1
	if s < 0 || math.IsNaN(s) {
		return 0
	}
	return s
}

// HyperbolicRate is the hyperbolic segment at fractional month m
func HyperbolicRate(p Parameters, m float64) float64 {
	hyp, _ := NominalDeclines(p)
	if p.B == 0 {
		return p.InitialProduction * math.Exp(-hyp*m*daysPerMonth)
	}
	return p.InitialProduction / math.Pow(1+p.B*m*daysPerMonth*hyp, 1/p.B)
}

// ExponentialRate is the exponential segment at month m, continuing from the
// hyperbolic value at the switch month s
func ExponentialRate(p Parameters, m, s float64) float64 {
	_, exp := NominalDeclines(p)
	qs := HyperbolicRate(p, s)
	return qs * math.Exp(-exp*math.Max(m-s, 0)*daysPerMonth)
}

// EvaluateInto writes months 0..len(dst)-1 of the curve for p into dst
func EvaluateInto(dst []float64, p Parameters) {
	hyp, exp := NominalDeclines(p)
	ip := p.InitialProduction

	if p.B == 0 {
		for m := range dst {
			dst[m] = ip * math.Exp(-hyp*float64(m)*daysPerMonth)
		}
		return
	}

	s := SwitchMonth(p)
	invB := 1 / p.B
	qs := ip / math.Pow(1+p.B*s*daysPerMonth*hyp, invB)
	for m := range dst {
		mf := float64(m)
		over := math.Max(mf-s, 0)
		flag := math.Min(over, 1)
		h := ip / math.Pow(1+p.B*mf*daysPerMonth*hyp, invB)
		e := qs * math.Exp(-exp*over*daysPerMonth)
		dst[m] = (1-flag)*h + flag*e
	}
}

// Evaluate returns the [wells, months] production matrix for batch
func Evaluate(months int, batch []Parameters) tensor.Matrix {
	out := tensor.NewMatrix(len(batch), months)
	for w, p := range batch {
		EvaluateInto(out.Row(w), p)
	}
	return out
}
