package MHD2D

import (
	"math"
	"runtime"
	"sync"

	"github.com/notargets/gomhd/utils"
)

// EpsFloor is the positivity floor applied to density and energy after every
// step. Explicit MHD integrators transiently undershoot near shocks and must
// stay bounded to keep running.
const EpsFloor = 1e-10

// Indices into the slope arena for the seven reconstructed fields
const (
	iRho = iota
	iU
	iV
	iP
	iBx
	iBy
	iPsi
	nRecon
)

// StepEvents counts the recoverable floor corrections applied during one
// step. The kernel never aborts on these; it fixes the data and reports.
type StepEvents struct {
	DensityFloor     int // density clamped to EpsFloor
	EnergyFloor      int // total energy raised to the kinetic+magnetic floor
	NegativePressure int // internal energy floored while re-deriving pressure
}

func (ev StepEvents) Any() bool {
	return ev.DensityFloor != 0 || ev.EnergyFloor != 0 || ev.NegativePressure != 0
}

func (ev *StepEvents) accumulate(o StepEvents) {
	ev.DensityFloor += o.DensityFloor
	ev.EnergyFloor += o.EnergyFloor
	ev.NegativePressure += o.NegativePressure
}

/*
MHD integrates the 2D resistive MHD equations with GLM divergence cleaning
on a uniform grid:
  - MUSCL minmod-limited reconstruction to faces
  - HLL approximate Riemann fluxes per face
  - conservative finite volume update plus explicit diffusion
  - positivity floors, periodic BC, GLM psi transport/damping

Each stage fans out across row partitions with a full barrier between
stages; all reductions combine per-partition partials so results are
independent of the worker count.
*/
type MHD struct {
	Params         SimParams
	Flow           *FlowField
	Partitions     *utils.PartitionMap
	ParallelDegree int
	// Flat views of the eight fields; grids never resize after construction
	fields [nRecon][]float64 // rho, u, v, p, bx, by, psi in reconstruction order
	eData  []float64
	// Scratch arena, sized once and reused every step
	slopeX, slopeY                 [nRecon][]float64
	rhoNew, momXNew, momYNew, eNew []float64
	bxNew, byNew, psiNew           []float64
	div                            []float64 // interior |divB| buffer for the diagnostic
}

func NewMHD(flow *FlowField, sp SimParams, procLimit int) (mhd *MHD) {
	var (
		nx, ny = flow.Rho.Nx, flow.Rho.Ny
		size   = nx * ny
	)
	mhd = &MHD{
		Params: sp,
		Flow:   flow,
	}
	mhd.SetParallelDegree(procLimit, nx)
	mhd.fields = [nRecon][]float64{
		flow.Rho.Data(), flow.U.Data(), flow.V.Data(), flow.P.Data(),
		flow.Bx.Data(), flow.By.Data(), flow.Psi.Data(),
	}
	mhd.eData = flow.E.Data()
	for n := 0; n < nRecon; n++ {
		// Boundary slope entries are never written and stay zero: the
		// boundary ring reconstructs first-order
		mhd.slopeX[n] = make([]float64, size)
		mhd.slopeY[n] = make([]float64, size)
	}
	mhd.rhoNew = make([]float64, size)
	mhd.momXNew = make([]float64, size)
	mhd.momYNew = make([]float64, size)
	mhd.eNew = make([]float64, size)
	mhd.bxNew = make([]float64, size)
	mhd.byNew = make([]float64, size)
	mhd.psiNew = make([]float64, size)
	mhd.div = make([]float64, (nx-2)*(ny-2))
	return
}

func (mhd *MHD) SetParallelDegree(procLimit, rows int) {
	if procLimit != 0 {
		mhd.ParallelDegree = procLimit
	} else {
		mhd.ParallelDegree = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(runtime.NumCPU())
	if mhd.ParallelDegree > rows {
		mhd.ParallelDegree = 1
	}
	mhd.Partitions = utils.NewPartitionMap(mhd.ParallelDegree, rows)
}

// EstimateDT returns the CFL-stable timestep for the current state: the
// interior-cell minimum of the per-axis transit times, bounded by the GLM
// transport limit min(dx,dy)/Ch. A hydrodynamic minimum above DtClamp is
// treated as runaway (NaN guard) and replaced by the GLM bound.
func (mhd *MHD) EstimateDT(cflNumber float64) (dt float64) {
	var (
		sp     = mhd.Params
		g      = mhd.Flow.Rho
		nx, ny = g.Nx, g.Ny
		dx, dy = g.Dx, g.Dy
		pm     = mhd.Partitions
		NP     = pm.ParallelDegree
		wg     = sync.WaitGroup{}
		mins   = make([]float64, NP)
		rho, u = mhd.fields[iRho], mhd.fields[iU]
		v, p   = mhd.fields[iV], mhd.fields[iP]
		bx, by = mhd.fields[iBx], mhd.fields[iBy]
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			iMin, iMax := interiorRange(pm, np, nx)
			dtMin := 1.e10
			for i := iMin; i < iMax; i++ {
				for j := 1; j < ny-1; j++ {
					ind := i*ny + j
					cf := sp.FastSpeed(rho[ind], p[ind], bx[ind], by[ind])
					if dtX := dx / (math.Abs(u[ind]) + cf); dtX < dtMin {
						dtMin = dtX
					}
					if dtY := dy / (math.Abs(v[ind]) + cf); dtY < dtMin {
						dtMin = dtY
					}
				}
			}
			mins[np] = dtMin
			wg.Done()
		}(np)
	}
	wg.Wait()
	dtMin := mins[0]
	for _, m := range mins[1:] {
		if m < dtMin {
			dtMin = m
		}
	}
	dtGLM := math.Min(dx, dy) / sp.Ch
	if dtMin > sp.DtClamp { // prevent unrealistically large dt due to NaNs
		dtMin = dtGLM
	}
	dt = cflNumber * math.Min(dtMin, dtGLM)
	return
}

// Step advances the flow by dt (clamped to the stability bound) with
// kinematic viscosity nu, mutating the FlowField in place. Only this method
// mutates the FlowField.
func (mhd *MHD) Step(dt, nu float64) (events StepEvents) {
	var (
		sp = mhd.Params
		pm = mhd.Partitions
		NP = pm.ParallelDegree
		wg = sync.WaitGroup{}
	)
	// The kernel never exceeds the CFL bound regardless of the request
	if dtStable := mhd.EstimateDT(sp.CFL); dt > dtStable {
		dt = dtStable
	}

	// Limited slopes for the seven reconstructed fields, both axes
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			iMin, iMax := pm.GetBucketRange(np)
			mhd.limitSlopes(iMin, iMax)
			wg.Done()
		}(np)
	}
	wg.Wait()

	// Hyperbolic update, diffusion and floors into the scratch arena
	perEv := make([]StepEvents, NP)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			perEv[np] = mhd.updateRows(np, dt, nu)
			wg.Done()
		}(np)
	}
	wg.Wait()
	for np := 0; np < NP; np++ {
		events.accumulate(perEv[np])
	}

	// Re-derive primitives from the conserved update
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			perEv[np] = mhd.writebackRows(np)
			wg.Done()
		}(np)
	}
	wg.Wait()
	for np := 0; np < NP; np++ {
		events.accumulate(perEv[np])
	}

	mhd.applyPeriodicBC()

	// GLM transport and damping of psi over the full grid, reading the
	// wrapped post-BC magnetic field
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			iMin, iMax := pm.GetBucketRange(np)
			mhd.relaxPsi(iMin, iMax, dt)
			wg.Done()
		}(np)
	}
	wg.Wait()

	// Re-wrap the psi ghost ring so the periodic invariant holds for all
	// eight fields after the step
	mhd.wrapGhost(mhd.fields[iPsi])
	return
}

// interiorRange clamps partition np's row bucket to the interior rows
// [1, nx-1).
func interiorRange(pm *utils.PartitionMap, np, nx int) (iMin, iMax int) {
	iMin, iMax = pm.GetBucketRange(np)
	if iMin < 1 {
		iMin = 1
	}
	if iMax > nx-1 {
		iMax = nx - 1
	}
	return
}

func laplacian(f []float64, ind, ny int, dx, dy float64) float64 {
	return (f[ind+ny]-2.*f[ind]+f[ind-ny])/(dx*dx) +
		(f[ind+1]-2.*f[ind]+f[ind-1])/(dy*dy)
}

// limitSlopes fills the slope arena for rows [iMin,iMax). X slopes exist for
// interior rows only, Y slopes for interior columns only; the boundary ring
// keeps zero slope (periodic wrap is handled by the BC stage).
func (mhd *MHD) limitSlopes(iMin, iMax int) {
	var (
		g      = mhd.Flow.Rho
		nx, ny = g.Nx, g.Ny
	)
	for n := 0; n < nRecon; n++ {
		var (
			f      = mhd.fields[n]
			sx, sy = mhd.slopeX[n], mhd.slopeY[n]
		)
		for i := iMin; i < iMax; i++ {
			row := i * ny
			if i > 0 && i < nx-1 {
				for j := 0; j < ny; j++ {
					ind := row + j
					sx[ind] = minmod(f[ind]-f[ind-ny], f[ind+ny]-f[ind])
				}
			}
			for j := 1; j < ny-1; j++ {
				ind := row + j
				sy[ind] = minmod(f[ind]-f[ind-1], f[ind+1]-f[ind])
			}
		}
	}
}

// recon builds the face state at ind +/- half a limited slope.
func (mhd *MHD) recon(ind int, slopes *[nRecon][]float64, sign float64) (q PrimState) {
	h := 0.5 * sign
	q = PrimState{
		Rho: mhd.fields[iRho][ind] + h*slopes[iRho][ind],
		U:   mhd.fields[iU][ind] + h*slopes[iU][ind],
		V:   mhd.fields[iV][ind] + h*slopes[iV][ind],
		P:   mhd.fields[iP][ind] + h*slopes[iP][ind],
		Bx:  mhd.fields[iBx][ind] + h*slopes[iBx][ind],
		By:  mhd.fields[iBy][ind] + h*slopes[iBy][ind],
		Psi: mhd.fields[iPsi][ind] + h*slopes[iPsi][ind],
	}
	return
}

// updateRows runs the conservative update for partition np's interior rows:
// four face fluxes per cell, flux differencing, explicit diffusion, then
// positivity floors. Results land in the scratch arena; the old state stays
// readable for neighboring workers until the barrier.
func (mhd *MHD) updateRows(np int, dt, nu float64) (ev StepEvents) {
	var (
		sp       = mhd.Params
		g        = mhd.Flow.Rho
		nx, ny   = g.Nx, g.Ny
		dx, dy   = g.Dx, g.Dy
		ddx, ddy = dt / dx, dt / dy
		rho, u   = mhd.fields[iRho], mhd.fields[iU]
		v        = mhd.fields[iV]
		bx, by   = mhd.fields[iBx], mhd.fields[iBy]
		psi      = mhd.fields[iPsi]
		e        = mhd.eData
	)
	iMin, iMax := interiorRange(mhd.Partitions, np, nx)
	for i := iMin; i < iMax; i++ {
		for j := 1; j < ny-1; j++ {
			ind := i*ny + j
			// East/west/north/south face fluxes with MUSCL face states
			fxp := sp.RiemannFlux(XDir, mhd.recon(ind, &mhd.slopeX, 1), mhd.recon(ind+ny, &mhd.slopeX, -1))
			fxm := sp.RiemannFlux(XDir, mhd.recon(ind-ny, &mhd.slopeX, 1), mhd.recon(ind, &mhd.slopeX, -1))
			fyp := sp.RiemannFlux(YDir, mhd.recon(ind, &mhd.slopeY, 1), mhd.recon(ind+1, &mhd.slopeY, -1))
			fym := sp.RiemannFlux(YDir, mhd.recon(ind-1, &mhd.slopeY, 1), mhd.recon(ind, &mhd.slopeY, -1))

			rhoN := rho[ind] - ddx*(fxp.Rho-fxm.Rho) - ddy*(fyp.Rho-fym.Rho)
			momX := rho[ind]*u[ind] - ddx*(fxp.MomX-fxm.MomX) - ddy*(fyp.MomX-fym.MomX)
			momY := rho[ind]*v[ind] - ddx*(fxp.MomY-fxm.MomY) - ddy*(fyp.MomY-fym.MomY)
			eN := e[ind] - ddx*(fxp.E-fxm.E) - ddy*(fyp.E-fym.E)
			bxN := bx[ind] - ddx*(fxp.Bx-fxm.Bx) - ddy*(fyp.Bx-fym.Bx)
			byN := by[ind] - ddx*(fxp.By-fxm.By) - ddy*(fyp.By-fym.By)
			psiN := psi[ind] - ddx*(fxp.Psi-fxm.Psi) - ddy*(fyp.Psi-fym.Psi)

			// Explicit diffusion, added after the hyperbolic update
			if nu > 0 {
				momX += dt * nu * rho[ind] * laplacian(u, ind, ny, dx, dy)
				momY += dt * nu * rho[ind] * laplacian(v, ind, ny, dx, dy)
			}
			if sp.Eta > 0 {
				bxN += dt * sp.Eta * laplacian(bx, ind, ny, dx, dy)
				byN += dt * sp.Eta * laplacian(by, ind, ny, dx, dy)
			}

			// Positivity floors: recoverable corrections, counted not fatal
			if rhoN < EpsFloor {
				rhoN = EpsFloor
				ev.DensityFloor++
			}
			ke := 0.5 * rhoN * (u[ind]*u[ind] + v[ind]*v[ind])
			me := 0.5 * (bx[ind]*bx[ind] + by[ind]*by[ind])
			if eN < ke+me+EpsFloor {
				eN = ke + me + EpsFloor
				ev.EnergyFloor++
			}

			mhd.rhoNew[ind], mhd.momXNew[ind], mhd.momYNew[ind] = rhoN, momX, momY
			mhd.eNew[ind], mhd.bxNew[ind], mhd.byNew[ind] = eN, bxN, byN
			mhd.psiNew[ind] = psiN
		}
	}
	return
}

// writebackRows copies the conserved update into the FlowField and re-derives
// velocity and pressure from it for partition np's interior rows.
func (mhd *MHD) writebackRows(np int) (ev StepEvents) {
	var (
		sp     = mhd.Params
		g      = mhd.Flow.Rho
		nx, ny = g.Nx, g.Ny
		gm1    = sp.Gamma - 1.
		rho, u = mhd.fields[iRho], mhd.fields[iU]
		v, p   = mhd.fields[iV], mhd.fields[iP]
		bx, by = mhd.fields[iBx], mhd.fields[iBy]
		psi    = mhd.fields[iPsi]
		e      = mhd.eData
	)
	iMin, iMax := interiorRange(mhd.Partitions, np, nx)
	for i := iMin; i < iMax; i++ {
		for j := 1; j < ny-1; j++ {
			ind := i*ny + j
			rho[ind] = mhd.rhoNew[ind]
			oorho := 1. / rho[ind]
			u[ind] = mhd.momXNew[ind] * oorho
			v[ind] = mhd.momYNew[ind] * oorho
			e[ind] = mhd.eNew[ind]
			bx[ind] = mhd.bxNew[ind]
			by[ind] = mhd.byNew[ind]
			psi[ind] = mhd.psiNew[ind]
			_, internal := sp.Pressure(rho[ind], u[ind], v[ind], e[ind], bx[ind], by[ind])
			if internal < 0 {
				ev.NegativePressure++
			}
			p[ind] = gm1 * math.Max(internal, EpsFloor)
		}
	}
	return
}

// applyPeriodicBC copies the ghost ring of every field from the interior
// cells two cells inward, matching the 2-cell stencil of the reconstruction
// and the Laplacian.
func (mhd *MHD) applyPeriodicBC() {
	for n := 0; n < nRecon; n++ {
		mhd.wrapGhost(mhd.fields[n])
	}
	mhd.wrapGhost(mhd.eData)
}

func (mhd *MHD) wrapGhost(f []float64) {
	var (
		g      = mhd.Flow.Rho
		nx, ny = g.Nx, g.Ny
	)
	for j := 0; j < ny; j++ {
		f[j] = f[(nx-2)*ny+j]
		f[(nx-1)*ny+j] = f[ny+j]
	}
	for i := 0; i < nx; i++ {
		row := i * ny
		f[row] = f[row+ny-2]
		f[row+ny-1] = f[row+1]
	}
}

// relaxPsi applies the GLM transport/damping update to rows [iMin,iMax):
// psi -= dt*Ch^2*divB + dt*Cr*psi, with a centered-difference divergence
// using periodic wrap-around neighbors. This is the mechanism bounding
// divergence-error growth from discretization.
func (mhd *MHD) relaxPsi(iMin, iMax int, dt float64) {
	var (
		sp     = mhd.Params
		g      = mhd.Flow.Rho
		nx, ny = g.Nx, g.Ny
		oo2dx  = 1. / (2. * g.Dx)
		oo2dy  = 1. / (2. * g.Dy)
		ch2    = sp.Ch * sp.Ch
		bx, by = mhd.fields[iBx], mhd.fields[iBy]
		psi    = mhd.fields[iPsi]
	)
	for i := iMin; i < iMax; i++ {
		ip, im := (i+1)%nx, (i-1+nx)%nx
		for j := 0; j < ny; j++ {
			jp, jm := (j+1)%ny, (j-1+ny)%ny
			divB := (bx[ip*ny+j]-bx[im*ny+j])*oo2dx + (by[i*ny+jp]-by[i*ny+jm])*oo2dy
			ind := i*ny + j
			psi[ind] -= dt*ch2*divB + dt*sp.Cr*psi[ind]
		}
	}
}
