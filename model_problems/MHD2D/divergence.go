package MHD2D

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// DivergenceErrors reports (max, mean) of |div B| over the interior cells
// via centered differences. Read-only; used for monitoring, never by the
// stepping kernel itself. The per-cell magnitudes are collected into a
// scratch buffer in parallel and reduced with order-independent combines.
func (mhd *MHD) DivergenceErrors() (maxDivB, meanDivB float64) {
	var (
		g      = mhd.Flow.Rho
		nx, ny = g.Nx, g.Ny
		oo2dx  = 1. / (2. * g.Dx)
		oo2dy  = 1. / (2. * g.Dy)
		pm     = mhd.Partitions
		NP     = pm.ParallelDegree
		wg     = sync.WaitGroup{}
		bx, by = mhd.fields[iBx], mhd.fields[iBy]
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			iMin, iMax := interiorRange(pm, np, nx)
			for i := iMin; i < iMax; i++ {
				for j := 1; j < ny-1; j++ {
					ind := i*ny + j
					divB := (bx[ind+ny]-bx[ind-ny])*oo2dx + (by[ind+1]-by[ind-1])*oo2dy
					mhd.div[(i-1)*(ny-2)+(j-1)] = math.Abs(divB)
				}
			}
			wg.Done()
		}(np)
	}
	wg.Wait()
	maxDivB = floats.Max(mhd.div)
	meanDivB = floats.Sum(mhd.div) / float64(len(mhd.div))
	return
}
