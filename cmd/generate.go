package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/generate"
	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/models"
	"github.com/synthfhir/synthfhir/internal/services"
	"github.com/synthfhir/synthfhir/internal/sink"
	"github.com/synthfhir/synthfhir/internal/ui"
)

var (
	generateOutput string
	generateServer string
	generateSeed   uint64
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic FHIR dataset",
	Long: `Generate a synthetic FHIR R4 dataset from the active configuration.

The resource graph is built in dependency order: clinics and practitioners
first, then patients with their clinical history. Every reference in the
output resolves to a resource in the same dataset.

By default the dataset is written as a collection Bundle to a JSON file.
With --server, or with server.base_url set in the configuration, the
resources are uploaded directly instead.

Examples:
  # Write a dataset with a fixed seed
  synthfhir generate --seed 42 --output dataset.json

  # Upload straight to a FHIR server
  synthfhir generate --server http://localhost:8080/fhir

  # Use a custom configuration file
  synthfhir generate --config ./myproject.yaml`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	config, err := services.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	// Flag overrides
	if cmd.Flags().Changed("seed") {
		config.Generation.Seed = generateSeed
	}
	if cmd.Flags().Changed("server") {
		config.Server.BaseURL = generateServer
		if err := config.Validate(); err != nil {
			return err
		}
	}

	library, err := loadLibrary(config.Generation.LibraryFile)
	if err != nil {
		return err
	}

	src := generate.NewSource(config.Generation.Seed)
	logger := lib.DefaultLogger

	spinner := ui.NewSpinner("Generating dataset")
	if !noProgress {
		spinner.Start()
	}

	graph, err := generate.Generate(config.Generation, library, src, logger, nil)
	if !noProgress {
		spinner.Stop(err == nil)
	}
	if err != nil {
		return err
	}

	fmt.Println("Generated resources:")
	ui.WriteSummary(os.Stdout, graph.CountByType())

	// A configured server switches the sink from file to direct upload,
	// whether it came from the --server flag or from server.base_url
	if config.Server.BaseURL != "" {
		return uploadGraph(graph.Resources(), config.Server.BaseURL, config.Retry, config.Server.TimeoutSeconds, logger)
	}

	if err := sink.WriteBundle(graph, generateOutput); err != nil {
		return err
	}
	fmt.Printf("Dataset written to %s\n", generateOutput)
	return nil
}

// loadLibrary resolves the lab-test definition library: a definitions file
// when configured, the compiled-in defaults otherwise
func loadLibrary(libraryFile string) (*clinical.Library, error) {
	if libraryFile == "" {
		return clinical.DefaultLibrary(), nil
	}
	return clinical.LoadLibrary(libraryFile)
}

// uploadGraph pushes resources to a FHIR server in dependency order
func uploadGraph(resources []lib.FHIRResource, baseURL string, retry models.RetryConfig, timeoutSeconds int, logger *lib.Logger) error {
	httpClient := services.NewHTTPClient(time.Duration(timeoutSeconds)*time.Second, retry, logger)
	client := sink.NewFHIRClient(baseURL, httpClient, logger)

	if err := client.Healthy(); err != nil {
		return err
	}

	var bar *ui.ProgressBar
	if !noProgress {
		bar = ui.NewProgressBar(int64(len(resources)), "Uploading")
	}

	onResource := func(resourceType string) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	idMap, err := client.CreateAll(resources, onResource)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nUploaded %d resources to %s\n", len(idMap), baseURL)
	return nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "synthfhir-dataset.json", "output file for the generated bundle")
	generateCmd.Flags().StringVar(&generateServer, "server", "", "FHIR server base URL (upload instead of writing a file)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "random seed (0 derives one from the clock)")

	rootCmd.AddCommand(generateCmd)
}
