package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/gaborage/go-webapi/openapi"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a generated Swagger document",
		Long: `Loads a Swagger 2.0 document in YAML or JSON form, converts it to OpenAPI 3
and runs structural validation on the result.`,
		Example: `  webapi check
  webapi check docs/API_definition.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := openapi.DefinitionFile
			if len(args) == 1 {
				file = args[0]
			}
			return runCheck(cmd.Context(), cmd, file)
		},
	}
}

func runCheck(ctx context.Context, cmd *cobra.Command, file string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	// YAMLToJSON accepts JSON input unchanged.
	jsonData, err := k8syaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if err := openapi.CheckJSON(ctx, jsonData); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid Swagger %s document\n", file, openapi.SwaggerVersion)
	return nil
}
