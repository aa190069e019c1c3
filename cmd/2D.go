/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/model_problems/MHD2D"
)

type Model2D struct {
	ICFile    string
	OutputDir string
	Procs     int
	Profile   bool
}

var log = logrus.StandardLogger()

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional MHD solver, advances an initial condition and writes field snapshots",
	Long:  `Two dimensional MHD solver, advances an initial condition and writes field snapshots`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m2d := &Model2D{}
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m2d.OutputDir, _ = cmd.Flags().GetString("outputDir")
		m2d.Procs, _ = cmd.Flags().GetInt("procs")
		m2d.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processInput(m2d)
		Run2D(m2d, ip)
	},
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with run parameters")
	TwoDCmd.Flags().StringP("outputDir", "o", "", "override the OutputDir run parameter")
	TwoDCmd.Flags().IntP("procs", "p", 0, "limit the number of worker goroutines, 0 = all CPUs")
	TwoDCmd.Flags().Bool("profile", false, "write a CPU profile for this run")
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D) {
	var (
		err error
	)
	if len(m2d.ICFile) == 0 {
		fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile)\n")
		exampleFile := `
########################################
Title: "Orszag-Tang Vortex"
CFL: 0.2
Gamma: 1.6666666666666667
Nu: 0.01
Eta: 0.001
Ch: 0.8
Cr: 0.01
Nx: 64
Ny: 64
Lx: 1.0
Ly: 1.0
InitType: orszagtang
FinalTime: 20.0
MaxSteps: 2000
OutputEvery: 20
OutputDir: Result
########################################
`
		fmt.Printf("Example parameters file:%s", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(m2d.ICFile); err != nil {
		fmt.Printf("error: unable to read input parameters file [%s]: %s\n", m2d.ICFile, err.Error())
		os.Exit(1)
	}
	ip = &InputParameters.InputParameters2D{}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: unable to parse input parameters file [%s]: %s\n", m2d.ICFile, err.Error())
		os.Exit(1)
	}
	setDefaults(ip)
	applyOverrides(m2d, ip)
	ip.Print()
	return
}

// setDefaults fills unset parameters with the standard run constants.
func setDefaults(ip *InputParameters.InputParameters2D) {
	def := MHD2D.DefaultSimParams()
	if ip.CFL == 0 {
		ip.CFL = def.CFL
	}
	if ip.Gamma == 0 {
		ip.Gamma = def.Gamma
	}
	if ip.Ch == 0 {
		ip.Ch = def.Ch
	}
	if ip.DtClamp == 0 {
		ip.DtClamp = def.DtClamp
	}
	if ip.Nx == 0 {
		ip.Nx = 64
	}
	if ip.Ny == 0 {
		ip.Ny = 64
	}
	if ip.Lx == 0 {
		ip.Lx = 1.0
	}
	if ip.Ly == 0 {
		ip.Ly = 1.0
	}
	if len(ip.InitType) == 0 {
		ip.InitType = "orszagtang"
	}
	if ip.MaxSteps == 0 {
		ip.MaxSteps = 2000
	}
	if ip.OutputEvery == 0 {
		ip.OutputEvery = 20
	}
	if len(ip.OutputDir) == 0 {
		ip.OutputDir = "Result"
	}
}

// applyOverrides applies the command line and GOMHD_* environment overrides
// on top of the parameter file.
func applyOverrides(m2d *Model2D, ip *InputParameters.InputParameters2D) {
	if len(m2d.OutputDir) != 0 {
		ip.OutputDir = m2d.OutputDir
	}
	if viper.IsSet("output_dir") {
		ip.OutputDir = viper.GetString("output_dir")
	}
	if viper.IsSet("seed") {
		ip.Seed = viper.GetInt64("seed")
	}
}

// prepareOutputDir expands and creates the output directory, renaming a
// non-empty pre-existing one aside with a timestamp suffix.
func prepareOutputDir(dir string) (out string, err error) {
	if out, err = homedir.Expand(dir); err != nil {
		return
	}
	if entries, rerr := os.ReadDir(out); rerr == nil && len(entries) != 0 {
		aside := fmt.Sprintf("%s_%d", out, time.Now().Unix())
		if err = os.Rename(out, aside); err != nil {
			return
		}
		log.Infof("moved existing output directory to %s", aside)
	}
	err = os.MkdirAll(out, 0755)
	return
}

func Run2D(m2d *Model2D, ip *InputParameters.InputParameters2D) {
	var (
		err error
	)
	if m2d.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	outDir, err := prepareOutputDir(ip.OutputDir)
	if err != nil {
		log.Fatalf("unable to prepare output directory: %s", err.Error())
	}

	var (
		dx = ip.Lx / float64(ip.Nx-1)
		dy = ip.Ly / float64(ip.Ny-1)
	)
	ff, err := MHD2D.NewFlowField(ip.Nx, ip.Ny, dx, dy, 0, 0)
	if err != nil {
		log.Fatalf("unable to construct flow field: %s", err.Error())
	}
	ff.Initialize(MHD2D.NewInitType(ip.InitType), ip.Seed)
	if ip.PulseAmplitude > 0 {
		ff.AddDivergencePulse(ip.PulseAmplitude)
	}

	sp := MHD2D.SimParams{
		Gamma:   ip.Gamma,
		Eta:     ip.Eta,
		Ch:      ip.Ch,
		Cr:      ip.Cr,
		CFL:     ip.CFL,
		DtClamp: ip.DtClamp,
	}
	mhd := MHD2D.NewMHD(ff, sp, m2d.Procs)
	log.Infof("solving %s on %dx%d with %d workers", MHD2D.NewInitType(ip.InitType).Print(),
		ip.Nx, ip.Ny, mhd.ParallelDegree)

	var (
		t     float64
		start = time.Now()
	)
	for step := 0; step <= ip.MaxSteps && t < ip.FinalTime; step++ {
		dt := mhd.EstimateDT(ip.CFL)
		if t+dt > ip.FinalTime {
			dt = ip.FinalTime - t
		}
		ev := mhd.Step(dt, ip.Nu)
		t += dt
		if ev.Any() {
			log.WithFields(logrus.Fields{
				"step":             step,
				"densityFloor":     ev.DensityFloor,
				"energyFloor":      ev.EnergyFloor,
				"negativePressure": ev.NegativePressure,
			}).Warn("floor corrections applied")
		}
		if step%ip.OutputEvery == 0 {
			maxDivB, meanDivB := mhd.DivergenceErrors()
			log.WithFields(logrus.Fields{
				"step":     step,
				"dt":       dt,
				"time":     t,
				"maxDivB":  maxDivB,
				"meanDivB": meanDivB,
			}).Info("advanced")
			if err = ff.SaveFlow(outDir, step); err != nil {
				log.WithError(err).Error("snapshot write failed")
			}
		}
	}
	log.Infof("total time %s", time.Since(start))
}
