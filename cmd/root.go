/*
Copyright © 2026 SynthFHIR Contributors

SynthFHIR is a CLI tool for generating synthetic FHIR R4 test data.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/synthfhir/synthfhir/internal/lib"
)

var (
	// Global flags
	cfgFile    string
	verbose    bool
	logLevel   string
	noProgress bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "synthfhir",
	Short: "SynthFHIR - Synthetic FHIR R4 test data generator",
	Long: `SynthFHIR generates configurable synthetic FHIR R4 datasets for testing.

A generation run builds a consistent graph of clinics, practitioners and
patients with clinical history (encounters, observations, conditions,
appointments, medications, procedures and clinical notes), then writes it
as a JSON bundle or uploads it to a FHIR server.

All randomness is seeded: the same seed and configuration always produce
the same dataset.

Example:
  synthfhir generate --seed 42 --output dataset.json
  synthfhir generate --server http://localhost:8080/fhir
  synthfhir upload dataset.json --server http://localhost:8080/fhir
  synthfhir loinc build Loinc.csv --output lab-definitions.json

For more information, visit: https://github.com/synthfhir/synthfhir`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		lib.DefaultLogger.SetLevel(lib.ParseLogLevel(logLevel))
		if verbose {
			lib.DefaultLogger.SetLevel(lib.LogLevelDebug)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if genErr, ok := err.(*lib.GeneratorError); ok {
			fmt.Fprint(os.Stderr, genErr.UserMessage())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./synthfhir.yaml, ~/.config/synthfhir/synthfhir.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress indicators")

	// Add version template
	rootCmd.SetVersionTemplate("SynthFHIR version {{.Version}}\n")
}
