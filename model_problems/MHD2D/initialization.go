package MHD2D

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

type InitType uint8

const (
	UNIFORM InitType = iota
	ORSZAG_TANG
	MHD_DISK
)

var (
	InitNames = map[string]InitType{
		"uniform":    UNIFORM,
		"orszagtang": ORSZAG_TANG,
		"disk":       MHD_DISK,
	}
	InitPrintNames = []string{"Uniform Equilibrium", "Orszag-Tang Vortex", "Rotating MHD Disk"}
)

func (it InitType) Print() (txt string) {
	txt = InitPrintNames[it]
	return
}

func NewInitType(label string) (it InitType) {
	var (
		ok  bool
		err error
	)
	if len(label) == 0 {
		err = fmt.Errorf("empty init type, must be one of %v", InitNames)
		panic(err)
	}
	label = strings.ToLower(label)
	if it, ok = InitNames[label]; !ok {
		err = fmt.Errorf("unable to use init type named %s", label)
		panic(err)
	}
	return
}

// Initialize fills all eight fields for the chosen case. Every case leaves
// the total energy consistent with E = p/(gamma-1) + ke + be for its gamma.
func (ff *FlowField) Initialize(c InitType, seed int64) {
	switch c {
	case UNIFORM:
		ff.InitializeUniform()
	case ORSZAG_TANG:
		ff.InitializeOrszagTang()
	case MHD_DISK:
		ff.InitializeMHDDisk(seed)
	default:
		panic("unknown case type")
	}
}

// InitializeUniform is a quiescent equilibrium: rho=1, u=v=0, p=1, B=0,
// psi=0 with gamma=5/3. All fluxes vanish identically, so a stable step
// must leave it unchanged.
func (ff *FlowField) InitializeUniform() {
	const gamma = 5. / 3.
	ff.Rho.Fill(1.)
	ff.U.Fill(0.)
	ff.V.Fill(0.)
	ff.P.Fill(1.)
	ff.E.Fill(1. / (gamma - 1.))
	ff.Bx.Fill(0.)
	ff.By.Fill(0.)
	ff.Psi.Fill(0.)
}

// InitializeOrszagTang sets the Orszag-Tang vortex on [0,1]^2 with
// gamma=5/3 and B0=1/sqrt(4 pi): rho=p=gamma, u=-sin(2 pi y), v=sin(2 pi x),
// Bx=-B0 sin(2 pi y), By=B0 sin(4 pi x). Coordinates are normalized by the
// grid extent so the pattern is periodic on the domain.
func (ff *FlowField) InitializeOrszagTang() {
	var (
		gamma  = 5. / 3.
		b0     = 1. / math.Sqrt(4.*math.Pi)
		nx, ny = ff.Rho.Nx, ff.Rho.Ny
	)
	for i := 0; i < nx; i++ {
		x := float64(i) / float64(nx-1)
		for j := 0; j < ny; j++ {
			y := float64(j) / float64(ny-1)
			var (
				rho = gamma
				u   = -math.Sin(2. * math.Pi * y)
				v   = math.Sin(2. * math.Pi * x)
				p   = gamma
				bx  = -b0 * math.Sin(2.*math.Pi*y)
				by  = b0 * math.Sin(4.*math.Pi*x)
			)
			ff.Rho.Set(i, j, rho)
			ff.U.Set(i, j, u)
			ff.V.Set(i, j, v)
			ff.P.Set(i, j, p)
			ff.Bx.Set(i, j, bx)
			ff.By.Set(i, j, by)
			ff.Psi.Set(i, j, 0.)
			ke := 0.5 * rho * (u*u + v*v)
			be := 0.5 * (bx*bx + by*by)
			ff.E.Set(i, j, p/(gamma-1.)+ke+be)
		}
	}
}

// InitializeMHDDisk is a rotating disk with Keplerian azimuthal velocity,
// isothermal pressure (cs=0.1, gamma=1.4), a weak vertical seed field
// By=0.01 and seeded +/-1% velocity noise.
func (ff *FlowField) InitializeMHDDisk(seed int64) {
	var (
		cs     = 0.1
		gamma  = 1.4
		nx, ny = ff.Rho.Nx, ff.Rho.Ny
		rng    = rand.New(rand.NewSource(seed))
	)
	noise := func() float64 {
		return -0.01 + 0.02*rng.Float64()
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			xc, yc := ff.Rho.Coords(i, j)
			x, y := xc-0.5, yc-0.5
			r := math.Sqrt(x*x+y*y) + 1e-6
			var (
				rho = 1. / (r*r + 0.1)
				vth = math.Sqrt(1. / math.Max(r, 0.01))
				u   = -y/r*vth + noise()
				v   = x/r*vth + noise()
				p   = rho * cs * cs
				bx  = 0.
				by  = 0.01
			)
			ff.Rho.Set(i, j, rho)
			ff.U.Set(i, j, u)
			ff.V.Set(i, j, v)
			ff.P.Set(i, j, p)
			ff.Bx.Set(i, j, bx)
			ff.By.Set(i, j, by)
			ff.Psi.Set(i, j, 0.)
			ke := 0.5 * rho * (u*u + v*v)
			be := 0.5 * (bx*bx + by*by)
			ff.E.Set(i, j, p/(gamma-1.)+ke+be)
		}
	}
}

// AddDivergencePulse injects a Gaussian divergent perturbation into B over
// the interior cells, for validating the GLM cleaning response.
func (ff *FlowField) AddDivergencePulse(amplitude float64) {
	var (
		nx, ny = ff.Bx.Nx, ff.Bx.Ny
	)
	for i := 1; i < nx-1; i++ {
		for j := 1; j < ny-1; j++ {
			xc, yc := ff.Bx.Coords(i, j)
			x, y := xc-0.5, yc-0.5
			env := math.Exp(-(x*x + y*y) / 0.1)
			ff.Bx.Set(i, j, ff.Bx.At(i, j)+amplitude*x*env)
			ff.By.Set(i, j, ff.By.At(i, j)+amplitude*y*env)
		}
	}
}
