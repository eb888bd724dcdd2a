package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaborage/go-webapi/controller"
	"github.com/gaborage/go-webapi/openapi"
)

// GenerateOptions holds options for the generate command
type GenerateOptions struct {
	Controllers string
	Output      string
	Title       string
	Version     string
	Description string
	Host        string
	Base        string
	Check       bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the Swagger document of a controllers directory",
		Long: `Parses every controller definition file in a directory and writes the
resulting Swagger 2.0 document to API_definition.yml.

No handlers are bound and no server is started; the document is identical to the
one a running service would publish for the same definitions.`,
		Example: `  # Generate from ./controllers into the working directory
  webapi generate --title "Pet store" --api-version 1.0.0

  # Generate for a service mounted under /api
  webapi generate -c ./controllers -o docs --base /api --host api.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Controllers, "controllers", "c", "controllers", "Controllers directory")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output directory (default: working directory)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Document title")
	cmd.Flags().StringVar(&opts.Version, "api-version", "", "API version")
	cmd.Flags().StringVar(&opts.Description, "description", "", "API description")
	cmd.Flags().StringVar(&opts.Host, "host", "", "Host published in the document")
	cmd.Flags().StringVar(&opts.Base, "base", "", "Base path published in the document")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Validate the generated document")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts *GenerateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateGenerateOptions(opts); err != nil {
		return err
	}

	defs, err := controller.Discover(ctx, opts.Controllers)
	if err != nil {
		return err
	}

	sink := openapi.NewFileSink(opts.Output)
	builder := openapi.NewBuilder(openapi.NopSink{}, nil)
	builder.Initialize(openapi.Metadata{
		Title:       opts.Title,
		Version:     opts.Version,
		Description: opts.Description,
		Host:        opts.Host,
		Base:        opts.Base,
	})

	endpoints := 0
	for _, def := range defs {
		for i := range def.Actions {
			if _, err := builder.AddEndpoint(ctx, def.Actions[i].Endpoint()); err != nil {
				return fmt.Errorf("%s:%s: %w", def.File, def.Actions[i].ID, err)
			}
			endpoints++
		}
	}

	doc := builder.Document()
	if opts.Check {
		if err := openapi.Check(ctx, doc); err != nil {
			return err
		}
	}
	if err := sink.Write(ctx, doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d controllers, %d endpoints)\n", sink.Path(), len(defs), endpoints)
	return nil
}

func validateGenerateOptions(opts *GenerateOptions) error {
	info, err := os.Stat(opts.Controllers)
	if err != nil {
		return fmt.Errorf("controllers directory %s: %w", opts.Controllers, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("controllers path is not a directory: %s", opts.Controllers)
	}
	if opts.Output != "" {
		if err := os.MkdirAll(opts.Output, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}
