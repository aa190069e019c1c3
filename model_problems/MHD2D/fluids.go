package MHD2D

import "math"

// SimParams carries the physical and numerical constants of a run. It is an
// immutable value passed into the solver at construction, so independent
// solver instances can run with different constants deterministically.
type SimParams struct {
	Gamma   float64 // Ratio of specific heats
	Eta     float64 // Magnetic diffusivity
	Ch      float64 // GLM divergence transport speed
	Cr      float64 // GLM divergence damping rate
	CFL     float64 // CFL number for the timestep estimate
	DtClamp float64 // Hydrodynamic dt minima above this are treated as runaway (NaN guard)
}

func DefaultSimParams() SimParams {
	return SimParams{
		Gamma:   5. / 3.,
		Eta:     0.001,
		Ch:      0.8,
		Cr:      0.01,
		CFL:     0.2,
		DtClamp: 1.0,
	}
}

// FastSpeed is the fast magnetosonic speed from local primitives,
// sqrt(cs^2 + ca^2). Callers guarantee rho > 0.
func (sp SimParams) FastSpeed(rho, p, bx, by float64) float64 {
	var (
		cs2 = sp.Gamma * p / rho // Sound speed squared
		ca2 = (bx*bx + by*by) / rho
	)
	return math.Sqrt(cs2 + ca2)
}

// TotalEnergy is the conserved energy density consistent with the primitives:
// E = p/(gamma-1) + rho*(u^2+v^2)/2 + (Bx^2+By^2)/2
func (sp SimParams) TotalEnergy(rho, u, v, p, bx, by float64) float64 {
	return p/(sp.Gamma-1.) + 0.5*rho*(u*u+v*v) + 0.5*(bx*bx+by*by)
}

// Pressure inverts the energy relation; the internal energy is also returned
// so callers can detect undershoot before flooring.
func (sp SimParams) Pressure(rho, u, v, e, bx, by float64) (p, internal float64) {
	internal = e - 0.5*rho*(u*u+v*v) - 0.5*(bx*bx+by*by)
	p = (sp.Gamma - 1.) * internal
	return
}
