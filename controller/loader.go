// Package controller wires controller definition files into echo routes.
//
// Every *.yaml or *.yml file in the controllers directory declares actions keyed by id:
//
//	get:
//	  method: get
//	  path: /pets/:id
//	  description: Returns a pet
//	  dependencies: [store]
//	  response:
//	    description: The pet
//	    body:
//	      schema:
//	        name: string
//
// Each action is bound to a HandlerFactory from a Catalog, called with the resolved
// dependencies, and registered on a server.RouteRegistrar. Actions with a request
// body schema have their JSON body validated before dispatch. When OpenAPI metadata
// is supplied the same definitions feed a Swagger 2.0 document served under
// openapi.DocsRoute.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-webapi/config"
	"github.com/gaborage/go-webapi/logger"
	"github.com/gaborage/go-webapi/openapi"
	"github.com/gaborage/go-webapi/server"
)

// Options configures Load.
type Options struct {
	// Location is the directory holding controller definition files.
	Location string
	// Dependencies are injected into handler factories by name.
	Dependencies Dependencies
	// Handlers binds handler names to factories.
	Handlers Catalog
	// OpenAPI enables document generation when non-nil. An empty Base defaults to
	// the registrar's mount path.
	OpenAPI *openapi.Metadata
	// Sink persists the document after every endpoint. Nil discards it.
	Sink openapi.Sink
	// Routes, when set, records a descriptor for every wired action.
	Routes *server.RouteRegistry
}

// OptionsFromConfig returns Options for the controllers and openapi sections of cfg.
// The document is written to openapi.output when OpenAPI is enabled.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{Location: cfg.Controllers.Location}
	if cfg.OpenAPI.Enabled {
		opts.OpenAPI = &openapi.Metadata{
			Title:       cfg.OpenAPI.Title,
			Version:     cfg.OpenAPI.Version,
			Description: cfg.OpenAPI.Description,
			Host:        cfg.OpenAPI.Host,
		}
		opts.Sink = openapi.NewFileSink(cfg.OpenAPI.Output)
	}
	return opts
}

// Result describes what Load wired.
type Result struct {
	Routes  []server.RouteDescriptor
	builder *openapi.Builder
}

// Builder returns the document builder, or nil when OpenAPI was not enabled.
func (r *Result) Builder() *openapi.Builder {
	return r.builder
}

// Document returns the generated document. It fails with a not-configured
// *config.ConfigError when OpenAPI was not enabled.
func (r *Result) Document() (*openapi.Document, error) {
	if r.builder == nil {
		return nil, config.NewNotConfiguredError("openapi", "openapi.enabled")
	}
	return r.builder.Document(), nil
}

// Load discovers the controller definitions in opts.Location and registers every
// action on r, in file listing order and then declaration order. Any definition,
// handler or dependency error stops loading. Document persistence failures do not:
// all routes are still wired and the failures are returned joined with the result.
func Load(ctx context.Context, r server.RouteRegistrar, opts Options, log logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.Nop()
	}

	defs, err := Discover(ctx, opts.Location)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if opts.OpenAPI != nil {
		meta := *opts.OpenAPI
		if meta.Base == "" {
			meta.Base = r.FullPath("")
		}
		result.builder = openapi.NewBuilder(opts.Sink, log)
		result.builder.Initialize(meta)
	}

	v := server.NewValidator()
	var persistErrs []error

	for _, def := range defs {
		log.Debug().
			Str("file", def.File).
			Int("actions", len(def.Actions)).
			Msg("Loading controller")

		for i := range def.Actions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			action := &def.Actions[i]
			desc, err := wire(r, def, action, opts, v)
			if err != nil {
				return nil, err
			}
			if opts.Routes != nil {
				opts.Routes.Register(&desc)
			}
			result.Routes = append(result.Routes, desc)

			if result.builder == nil {
				continue
			}
			if _, err := result.builder.AddEndpoint(ctx, action.Endpoint()); err != nil {
				var perr *openapi.PersistError
				if !errors.As(err, &perr) {
					return nil, &Error{File: def.File, Action: action.ID, Err: err}
				}
				persistErrs = append(persistErrs, err)
			}
		}
	}

	if result.builder != nil {
		openapi.RegisterDocs(r, result.builder)
	}

	log.Info().
		Str("location", opts.Location).
		Int("controllers", len(defs)).
		Int("routes", len(result.Routes)).
		Bool("openapi", result.builder != nil).
		Msg("Controllers loaded")

	return result, errors.Join(persistErrs...)
}

func wire(r server.RouteRegistrar, def *Definition, action *Action, opts Options, v *server.Validator) (server.RouteDescriptor, error) {
	name := action.HandlerName(def)
	factory, ok := opts.Handlers.Lookup(name)
	if !ok {
		return server.RouteDescriptor{}, &Error{File: def.File, Action: action.ID, Err: fmt.Errorf("%w: %s", ErrHandlerNotFound, name)}
	}

	deps, err := opts.Dependencies.Resolve(action.Dependencies, def.File, action.ID)
	if err != nil {
		return server.RouteDescriptor{}, err
	}

	handler := factory(deps...)
	if handler == nil {
		return server.RouteDescriptor{}, &Error{File: def.File, Action: action.ID, Err: ErrNilHandler}
	}

	var middleware []echo.MiddlewareFunc
	if action.Request != nil {
		middleware = append(middleware, ValidateRequest(action.Request.Schema, v))
	}

	method := strings.ToUpper(action.Method)
	r.Add(method, action.Path, handler, middleware...)

	return server.RouteDescriptor{
		Method:       method,
		Path:         r.FullPath(action.Path),
		Module:       def.File,
		Action:       action.ID,
		Handler:      name,
		Dependencies: action.Dependencies,
		Description:  action.Description,
		Validated:    action.Request != nil,
	}, nil
}

