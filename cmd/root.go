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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gomhd",
	Short: "2D magnetohydrodynamics solver with GLM divergence cleaning",
	Long: `
Finite volume solver for the 2D ideal/resistive MHD equations on a uniform
periodic grid: MUSCL reconstruction, HLL Riemann fluxes and GLM divergence
cleaning, with CSV field snapshots for post-processing.

gomhd 2D -I input.yaml`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Environment overrides: GOMHD_SEED, GOMHD_OUTPUT_DIR
	viper.SetEnvPrefix("GOMHD")
	viper.AutomaticEnv()
}
