package openapi

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gaborage/go-webapi/logger"
)

// Builder owns a Swagger document and persists it after every change.
type Builder struct {
	mu sync.RWMutex

	// persistMu orders sink writes with the changes they carry, so the sink
	// always ends with the newest document.
	persistMu   sync.Mutex
	doc         Document
	initialized bool
	sink        Sink
	log         logger.Logger
}

// NewBuilder creates a builder writing to sink. A nil sink discards writes.
func NewBuilder(sink Sink, log logger.Logger) *Builder {
	if sink == nil {
		sink = NopSink{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{sink: sink, log: log}
}

// Initialize sets the document metadata and resets tags and paths.
func (b *Builder) Initialize(meta Metadata) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.doc = Document{
		Swagger: SwaggerVersion,
		Info: Info{
			Description: meta.Description,
			Version:     meta.Version,
			Title:       meta.Title,
		},
		Host:     meta.Host,
		BasePath: meta.Base,
		Tags:     []Tag{},
		Paths:    map[string]PathItem{},
	}
	b.initialized = true

	b.log.Debug().
		Str("title", meta.Title).
		Str("version", meta.Version).
		Str("base_path", meta.Base).
		Msg("OpenAPI document initialized")
}

// Initialized reports whether Initialize has been called.
func (b *Builder) Initialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// Document returns a snapshot of the current document, or nil before Initialize.
func (b *Builder) Document() *Document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized {
		return nil
	}
	return b.doc.clone()
}

// AddEndpoint adds or replaces the operation for ep and persists the document.
// The returned snapshot reflects the change even when persisting fails.
// Concurrent calls are applied and persisted one at a time; Document stays
// readable while a write is in flight.
func (b *Builder) AddEndpoint(ctx context.Context, ep Endpoint) (*Document, error) {
	if ep.Path == "" || ep.Method == "" {
		return nil, fmt.Errorf("%w: path and method are required (path=%q method=%q)", ErrInvalidEndpoint, ep.Path, ep.Method)
	}

	// Tags are derived from the colon form so parameter segments are recognized.
	tag := DeriveTag(ep.Path)
	path, params := TemplatePath(ep.Path)
	if slices.Contains(params, "") {
		return nil, fmt.Errorf("%w: path %q has an unnamed parameter", ErrInvalidEndpoint, ep.Path)
	}
	method := strings.ToLower(ep.Method)

	op, err := buildOperation(ep, tag, params)
	if err != nil {
		return nil, fmt.Errorf("openapi: %s %s: %w", method, ep.Path, err)
	}

	b.persistMu.Lock()
	defer b.persistMu.Unlock()

	b.mu.Lock()
	if !b.initialized {
		b.mu.Unlock()
		return nil, ErrNotInitialized
	}
	b.doc.addTag(tag, ep.Description)
	item, ok := b.doc.Paths[path]
	if !ok {
		item = PathItem{}
		b.doc.Paths[path] = item
	}
	item[method] = op
	snapshot := b.doc.clone()
	b.mu.Unlock()

	b.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("tag", tag).
		Msg("OpenAPI endpoint added")

	if err := b.persist(ctx, snapshot); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

func buildOperation(ep Endpoint, tag string, pathParams []string) (*Operation, error) {
	op := &Operation{
		Tags:       []string{tag},
		Parameters: []Parameter{},
		Responses: map[string]Response{
			ResponseDefault: {Description: defaultResponseDescription},
		},
	}

	if ep.Request != nil {
		node, err := Translate(ep.Request.Schema)
		if err != nil {
			return nil, fmt.Errorf("request: %w", err)
		}
		op.Parameters = append(op.Parameters, Parameter{
			Name:        ep.Request.Name,
			In:          InBody,
			Description: ep.Request.Description,
			Required:    true,
			Schema:      node,
		})
	}

	for _, name := range pathParams {
		op.Parameters = append(op.Parameters, Parameter{
			Name:     name,
			In:       InPath,
			Type:     TypeString,
			Required: true,
		})
	}

	if ep.Response != nil {
		node, err := Translate(ep.Response.Schema)
		if err != nil {
			return nil, fmt.Errorf("response: %w", err)
		}
		op.Responses = map[string]Response{
			ResponseOK: {Description: ep.Response.Description, Schema: node},
		}
	}

	return op, nil
}

func (b *Builder) persist(ctx context.Context, doc *Document) error {
	if err := b.sink.Write(ctx, doc); err != nil {
		b.log.Error().
			Err(err).
			Str("sink", b.sink.String()).
			Msg("Failed to persist OpenAPI document")
		return &PersistError{Sink: b.sink.String(), Err: err}
	}
	return nil
}
