package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title          string  `yaml:"Title"`
	CFL            float64 `yaml:"CFL"`
	Gamma          float64 `yaml:"Gamma"`
	Nu             float64 `yaml:"Nu"`  // Kinematic viscosity
	Eta            float64 `yaml:"Eta"` // Magnetic diffusivity
	Ch             float64 `yaml:"Ch"`  // GLM transport speed
	Cr             float64 `yaml:"Cr"`  // GLM damping rate
	DtClamp        float64 `yaml:"DtClamp"`
	Nx             int     `yaml:"Nx"`
	Ny             int     `yaml:"Ny"`
	Lx             float64 `yaml:"Lx"`
	Ly             float64 `yaml:"Ly"`
	InitType       string  `yaml:"InitType"`
	Seed           int64   `yaml:"Seed"`
	PulseAmplitude float64 `yaml:"PulseAmplitude"` // Optional divergence pulse for GLM validation
	FinalTime      float64 `yaml:"FinalTime"`
	MaxSteps       int     `yaml:"MaxSteps"`
	OutputEvery    int     `yaml:"OutputEvery"`
	OutputDir      string  `yaml:"OutputDir"`
}

func (ip *InputParameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= Gamma\n", ip.Gamma)
	fmt.Printf("%8.5f\t\t= Nu (kinematic viscosity)\n", ip.Nu)
	fmt.Printf("%8.5f\t\t= Eta (magnetic diffusivity)\n", ip.Eta)
	fmt.Printf("%8.5f\t\t= Ch (GLM transport speed)\n", ip.Ch)
	fmt.Printf("%8.5f\t\t= Cr (GLM damping rate)\n", ip.Cr)
	fmt.Printf("[%dx%d]\t\t= Grid\n", ip.Nx, ip.Ny)
	fmt.Printf("[%gx%g]\t\t= Domain\n", ip.Lx, ip.Ly)
	fmt.Printf("[%s]\t\t= InitType\n", ip.InitType)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%d]\t\t\t= MaxSteps\n", ip.MaxSteps)
	fmt.Printf("[%d]\t\t\t= OutputEvery\n", ip.OutputEvery)
	fmt.Printf("[%s]\t\t= OutputDir\n", ip.OutputDir)
}
