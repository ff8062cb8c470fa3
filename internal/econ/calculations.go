package econ

import (
	"github.com/petroval/wellecon/internal/tensor"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

// AllocationPerAcre divides each allocation by its acreage
func AllocationPerAcre(acreage, allocation []float64) ([]float64, error) {
	if len(acreage) != len(allocation) {
		return nil, apperror.ShapeMismatch("%d acreages for %d allocations", len(acreage), len(allocation))
	}
	out := make([]float64, len(acreage))
	for i, a := range acreage {
		if a <= 0 {
			return nil, apperror.Newf(apperror.CodeMalformedInput, "acreage %v is not positive", a).WithDetail("index", i)
		}
		out[i] = allocation[i] / a
	}
	return out, nil
}

// NetProduction scales every well of production by its interest
func NetProduction(production tensor.Tensor4, interest []float64) (tensor.Tensor4, error) {
	nwells, months := production.Shape[2], production.Shape[3]
	if len(interest) != nwells {
		return tensor.Tensor4{}, apperror.ShapeMismatch("%d interests for %d wells", len(interest), nwells)
	}
	out := production.Clone()
	for s := 0; s < production.Shape[0]; s++ {
		for c := 0; c < production.Shape[1]; c++ {
			slab := out.Slab(s, c)
			for w := 0; w < nwells; w++ {
				row := slab.Row(w)
				for m := 0; m < months; m++ {
					row[m] *= interest[w]
				}
			}
		}
	}
	return out, nil
}
