package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/services"
	"github.com/synthfhir/synthfhir/internal/ui"
)

var loincOutput string

// loincCmd represents the loinc command group
var loincCmd = &cobra.Command{
	Use:   "loinc",
	Short: "Manage the lab-test definition library",
	Long: `Manage the lab-test definition library used for Observation generation.

Available subcommands:
  build - Derive a definition library from the official LOINC table`,
}

// loincBuildCmd represents the loinc build command
var loincBuildCmd = &cobra.Command{
	Use:   "build <Loinc.csv>",
	Short: "Derive a lab-test definition library from the LOINC table",
	Long: `Derive a lab-test definition library from the official LOINC CSV table.

The input is filtered down to common, active, quantitative laboratory
tests on typical specimen types. Each kept test gets its units and a
clinical reference range with LOW, NORMAL and HIGH value bands. The
result is written as a JSON file that generation.library_file can point
at.

The input can be a local file or an HTTP(S) URL. LOINC distributes the
table at https://loinc.org/downloads/ (free registration required).

Examples:
  synthfhir loinc build Loinc.csv
  synthfhir loinc build Loinc.csv --output lab-definitions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLoincBuild,
}

func runLoincBuild(cmd *cobra.Command, args []string) error {
	source := args[0]

	path := source
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		downloaded, err := downloadLoincTable(source)
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(downloaded) }()
		path = downloaded
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lib.ErrFileNotFound(path)
		}
		return lib.WrapError(lib.CategoryFileSystem, "failed to open LOINC table", err)
	}
	defer func() { _ = file.Close() }()

	defs, err := clinical.BuildDefinitions(file)
	if err != nil {
		return lib.WrapError(lib.CategoryClinical, "failed to build definitions from LOINC table", err)
	}
	if len(defs) == 0 {
		return lib.ErrEmptyLibrary()
	}

	if err := clinical.SaveDefinitions(loincOutput, defs); err != nil {
		return err
	}

	fmt.Printf("Wrote %d lab-test definitions to %s\n", len(defs), loincOutput)
	return nil
}

// downloadLoincTable fetches a LOINC CSV over HTTP into a temp file and
// returns its path. The caller removes the file.
func downloadLoincTable(url string) (string, error) {
	tmp, err := os.CreateTemp("", "synthfhir-loinc-*.csv")
	if err != nil {
		return "", lib.WrapError(lib.CategoryFileSystem, "failed to create temp file", err)
	}
	defer func() { _ = tmp.Close() }()

	httpClient := services.DefaultHTTPClient()

	spinner := ui.NewSpinner("Downloading LOINC table")
	if !noProgress {
		spinner.Start()
	}

	var written int64
	if noProgress {
		written, err = httpClient.Download(url, tmp)
	} else {
		written, err = httpClient.DownloadWithProgress(url, tmp, func(bytes int64) {
			if bytes%(10*1024*1024) < 64*1024 {
				spinner.UpdateMessage(fmt.Sprintf("Downloading LOINC table (%d MB)", bytes/(1024*1024)))
			}
		})
		spinner.Stop(err == nil)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", lib.ErrNetworkUnreachable(url, err)
	}

	lib.DefaultLogger.Debug("LOINC table downloaded", "bytes", written)
	return tmp.Name(), nil
}

func init() {
	loincBuildCmd.Flags().StringVarP(&loincOutput, "output", "o", "lab-definitions.json", "output file for the definition library")

	loincCmd.AddCommand(loincBuildCmd)
	rootCmd.AddCommand(loincCmd)
}
