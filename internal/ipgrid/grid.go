// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     ipgrid
// Description: Spatial initial-production grid smoothed over neighbouring sections
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ipgrid

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Stream indexes the stream axis of a Grid
const (
	StreamOil  = 0
	StreamGas  = 1
	numStreams = 2
)

// WellIP is one well's reported and peak 30-day rates at a section
// coordinate. Formation is a dense code in [0, nformations).
type WellIP struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Formation   int     `json:"formation"`
	OilReported float64 `json:"oil_reported"`
	OilMax30    float64 `json:"oil_max30"`
	GasReported float64 `json:"gas_reported"`
	GasMax30    float64 `json:"gas_max30"`
}

// Grid is a dense [formation, stream, x, y] buffer
type Grid struct {
	Formations int
	NX         int
	NY         int
	Data       []float64
}

// NewGrid allocates a zeroed grid
func NewGrid(formations, nx, ny int) Grid {
	return Grid{
		Formations: formations,
		NX:         nx,
		NY:         ny,
		Data:       make([]float64, formations*numStreams*nx*ny),
	}
}

func (g Grid) planeSize() int { return g.NX * g.NY }

// Plane returns the [x, y] view for one formation and stream
func (g Grid) Plane(f, s int) []float64 {
	n := g.planeSize()
	start := (f*numStreams + s) * n
	return g.Data[start : start+n : start+n]
}

// At returns the value at [f, s, x, y]
func (g Grid) At(f, s, x, y int) float64 {
	return g.Plane(f, s)[x*g.NY+y]
}

// Set assigns the value at [f, s, x, y]
func (g Grid) Set(f, s, x, y int, v float64) {
	g.Plane(f, s)[x*g.NY+y] = v
}

// MaxGrid places every well on a grid sized to the largest coordinates,
// keeping per cell the maximum of the reported and peak rates of all wells
func MaxGrid(wells []WellIP, nformations int) (Grid, error) {
	if nformations < 0 {
		return Grid{}, apperror.ShapeMismatch("negative formation count %d", nformations)
	}
	nx, ny := 0, 0
	for i, w := range wells {
		if w.X < 0 || w.Y < 0 {
			return Grid{}, apperror.Newf(apperror.CodeMalformedInput, "well %d has negative coordinate (%d, %d)", i, w.X, w.Y)
		}
		if w.Formation < 0 || w.Formation >= nformations {
			return Grid{}, apperror.ShapeMismatch("well %d formation %d outside [0, %d)", i, w.Formation, nformations)
		}
		nx = max(nx, w.X+1)
		ny = max(ny, w.Y+1)
	}

	g := NewGrid(nformations, nx, ny)
	for _, w := range wells {
		k := w.X*ny + w.Y
		oil := g.Plane(w.Formation, StreamOil)
		oil[k] = max(oil[k], w.OilReported, w.OilMax30)
		gas := g.Plane(w.Formation, StreamGas)
		gas[k] = max(gas[k], w.GasReported, w.GasMax30)
	}
	return g, nil
}

// Pad surrounds every plane with r zero cells on each side
func Pad(g Grid, r int) Grid {
	out := NewGrid(g.Formations, g.NX+2*r, g.NY+2*r)
	for f := 0; f < g.Formations; f++ {
		for s := 0; s < numStreams; s++ {
			padPlane(out.Plane(f, s), g.Plane(f, s), g.NX, g.NY, r)
		}
	}
	return out
}

// BoxMean replaces every cell at least r from the border with the mean of
// its (2r+1) x (2r+1) neighbourhood. Border cells are zero.
func BoxMean(padded Grid, r int) Grid {
	out := NewGrid(padded.Formations, padded.NX, padded.NY)
	for f := 0; f < padded.Formations; f++ {
		for s := 0; s < numStreams; s++ {
			boxMeanPlane(out.Plane(f, s), padded.Plane(f, s), padded.NX, padded.NY, r)
		}
	}
	return out
}

// Crop removes r cells from each side
func Crop(g Grid, r int) Grid {
	nx, ny := max(g.NX-2*r, 0), max(g.NY-2*r, 0)
	out := NewGrid(g.Formations, nx, ny)
	for f := 0; f < g.Formations; f++ {
		for s := 0; s < numStreams; s++ {
			cropPlane(out.Plane(f, s), g.Plane(f, s), g.NY, nx, ny, r)
		}
	}
	return out
}

// Interpolate builds the max grid, then smooths each formation concurrently
// with a box mean of radius r. The result has the unpadded extent.
func Interpolate(ctx context.Context, wells []WellIP, nformations, r int) (Grid, error) {
	if r < 0 {
		return Grid{}, apperror.ShapeMismatch("negative radius %d", r)
	}
	base, err := MaxGrid(wells, nformations)
	if err != nil {
		return Grid{}, err
	}

	out := NewGrid(nformations, base.NX, base.NY)
	pnx, pny := base.NX+2*r, base.NY+2*r

	g, gctx := errgroup.WithContext(ctx)
	for f := 0; f < nformations; f++ {
		f := f
		g.Go(func() error {
			padded := make([]float64, pnx*pny)
			smoothed := make([]float64, pnx*pny)
			for s := 0; s < numStreams; s++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				for i := range padded {
					padded[i] = 0
				}
				padPlane(padded, base.Plane(f, s), base.NX, base.NY, r)
				boxMeanPlane(smoothed, padded, pnx, pny, r)
				cropPlane(out.Plane(f, s), smoothed, pny, base.NX, base.NY, r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Grid{}, err
	}
	return out, nil
}

func padPlane(dst, src []float64, nx, ny, r int) {
	pny := ny + 2*r
	for x := 0; x < nx; x++ {
		copy(dst[(x+r)*pny+r:], src[x*ny:(x+1)*ny])
	}
}

func boxMeanPlane(dst, src []float64, nx, ny, r int) {
	side := 2*r + 1
	n := float64(side * side)
	for x := r; x < nx-r; x++ {
		for y := r; y < ny-r; y++ {
			var sum float64
			for dx := -r; dx <= r; dx++ {
				row := src[(x+dx)*ny:]
				for dy := -r; dy <= r; dy++ {
					sum += row[y+dy]
				}
			}
			dst[x*ny+y] = sum / n
		}
	}
}

func cropPlane(dst, src []float64, srcNY, nx, ny, r int) {
	for x := 0; x < nx; x++ {
		copy(dst[x*ny:(x+1)*ny], src[(x+r)*srcNY+r:])
	}
}
