package cmd

import (
	"github.com/spf13/cobra"
	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/services"
	"github.com/synthfhir/synthfhir/internal/sink"
)

var uploadServer string

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <bundle.json>",
	Short: "Upload a previously generated bundle to a FHIR server",
	Long: `Upload a dataset bundle produced by 'synthfhir generate' to a FHIR server.

Resources are created one at a time in the bundle's order. The server
assigns new ids; references between resources are rewritten to the
server-assigned ids as the upload progresses, so resource links stay
intact on the server.

Transient failures (network errors, 5xx responses) are retried with
exponential backoff. A rejected resource (4xx) aborts the upload and the
server's OperationOutcome diagnostics are shown.

Examples:
  synthfhir upload dataset.json --server http://localhost:8080/fhir
  synthfhir upload dataset.json --server http://hapi.example.org/fhir --no-progress`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	config, err := services.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if uploadServer != "" {
		config.Server.BaseURL = uploadServer
	}
	if config.Server.BaseURL == "" {
		return lib.ErrInvalidConfig("server.base_url", "no FHIR server configured: pass --server or set server.base_url")
	}
	if err := config.Validate(); err != nil {
		return err
	}

	resources, err := sink.ReadBundle(args[0])
	if err != nil {
		return err
	}

	return uploadGraph(resources, config.Server.BaseURL, config.Retry, config.Server.TimeoutSeconds, lib.DefaultLogger)
}

func init() {
	uploadCmd.Flags().StringVar(&uploadServer, "server", "", "FHIR server base URL (overrides config)")

	rootCmd.AddCommand(uploadCmd)
}
