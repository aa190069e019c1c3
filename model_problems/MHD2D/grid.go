package MHD2D

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Grid is a uniformly spaced 2D scalar field with nx rows and ny columns.
// Size and spacing are fixed after construction.
type Grid struct {
	Nx, Ny int
	Dx, Dy float64
	X0, Y0 float64
	M      *mat.Dense
}

func NewGrid(nx, ny int, dx, dy, x0, y0 float64) (g *Grid, err error) {
	if nx < 3 || ny < 3 {
		err = fmt.Errorf("grid size must be at least 3x3, have %dx%d", nx, ny)
		return
	}
	g = &Grid{
		Nx: nx, Ny: ny,
		Dx: dx, Dy: dy,
		X0: x0, Y0: y0,
		M: mat.NewDense(nx, ny, nil),
	}
	return
}

// Data exposes the backing storage as a flat slice, indexed i*Ny+j. The hot
// loops in the solver run over this slice directly.
func (g *Grid) Data() []float64 {
	return g.M.RawMatrix().Data
}

func (g *Grid) At(i, j int) float64 {
	return g.M.At(i, j)
}

func (g *Grid) Set(i, j int, val float64) {
	g.M.Set(i, j, val)
}

func (g *Grid) Fill(val float64) {
	var (
		data = g.Data()
	)
	for i := range data {
		data[i] = val
	}
}

// Coords returns the physical position of cell center (i,j).
func (g *Grid) Coords(i, j int) (x, y float64) {
	x = g.X0 + float64(i)*g.Dx
	y = g.Y0 + float64(j)*g.Dy
	return
}

// FlowField bundles the eight co-located fields of the 2D MHD system on a
// shared geometry: density, velocity, pressure, total energy density,
// magnetic field and the GLM cleaning scalar. The FlowField exclusively owns
// its grids; only the solver kernel mutates them during a step.
type FlowField struct {
	Rho, U, V *Grid
	P, E      *Grid
	Bx, By    *Grid
	Psi       *Grid
}

func NewFlowField(nx, ny int, dx, dy, x0, y0 float64) (ff *FlowField, err error) {
	ff = &FlowField{}
	for _, gp := range []**Grid{&ff.Rho, &ff.U, &ff.V, &ff.P, &ff.E, &ff.Bx, &ff.By, &ff.Psi} {
		if *gp, err = NewGrid(nx, ny, dx, dy, x0, y0); err != nil {
			ff = nil
			return
		}
	}
	return
}

// Fields returns the eight grids in canonical order.
func (ff *FlowField) Fields() [8]*Grid {
	return [8]*Grid{ff.Rho, ff.U, ff.V, ff.P, ff.E, ff.Bx, ff.By, ff.Psi}
}

// FieldNames matches the order of Fields and is used for snapshot file names.
var FieldNames = [8]string{"rho", "u", "v", "p", "e", "bx", "by", "psi"}
