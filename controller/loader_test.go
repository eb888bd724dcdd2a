package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-webapi/config"
	"github.com/gaborage/go-webapi/logger"
	"github.com/gaborage/go-webapi/openapi"
	"github.com/gaborage/go-webapi/server"
)

const pingController = `
ping:
  method: get
  path: /ping
  description: Health ping
`

const petsLoaderController = `
list:
  method: get
  path: /pets
  description: Pet operations
  dependencies: [store]
  response:
    description: All pets
    body:
      schema:
        names:
          type: array
          items:
            schema:
              name: string
get:
  method: get
  path: /pets/:id
  description: Ignored, the pets tag already exists
  dependencies: [store]
create:
  method: post
  path: /pets
  dependencies: [store, prefix]
  request:
    name: pet
    description: The new pet
    body:
      schema:
        name: string
`

type petStore struct {
	names []string
}

func listHandler(deps ...any) echo.HandlerFunc {
	return func(c echo.Context) error {
		store := deps[0].(*petStore)
		return c.JSON(http.StatusOK, map[string]any{"names": store.names})
	}
}

func testCatalog() Catalog {
	return Catalog{
		"ping.ping": func(...any) echo.HandlerFunc {
			return func(c echo.Context) error { return c.String(http.StatusOK, "pong") }
		},
		"pets.list": listHandler,
		"pets.get": func(deps ...any) echo.HandlerFunc {
			return func(c echo.Context) error {
				return c.String(http.StatusOK, c.Param("id"))
			}
		},
		"pets.create": func(deps ...any) echo.HandlerFunc {
			store := deps[0].(*petStore)
			prefix := deps[1].(string)
			return func(c echo.Context) error {
				var body struct {
					Name string `json:"name"`
				}
				if err := c.Bind(&body); err != nil {
					return err
				}
				store.names = append(store.names, prefix+body.Name)
				return c.NoContent(http.StatusCreated)
			}
		},
	}
}

type failingSink struct{}

func (failingSink) Write(context.Context, *openapi.Document) error { return errors.New("disk full") }
func (failingSink) String() string                                  { return "failing" }

func newRegistrar(prefix string) (*echo.Echo, server.RouteRegistrar) {
	e := echo.New()
	return e, server.NewRouteGroup(e.Group(prefix), prefix)
}

func request(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLoadWiresRoutesWithDependencies(t *testing.T) {
	dir := writeControllers(t, map[string]string{
		"pets.yaml": petsLoaderController,
		"ping.yaml": pingController,
	})
	store := &petStore{names: []string{"rex"}}
	e, r := newRegistrar("/api")
	routes := &server.RouteRegistry{}

	result, err := Load(context.Background(), r, Options{
		Location: dir,
		Dependencies: Dependencies{
			"store":  store,
			"prefix": func() any { return "mr. " },
		},
		Handlers: testCatalog(),
		Routes:   routes,
	}, logger.Nop())
	require.NoError(t, err)

	require.Len(t, result.Routes, 4)
	assert.Equal(t, 4, routes.Count())
	assert.Equal(t, server.RouteDescriptor{
		Method:       http.MethodPost,
		Path:         "/api/pets",
		Module:       "pets.yaml",
		Action:       "create",
		Handler:      "pets.create",
		Dependencies: []string{"store", "prefix"},
		Validated:    true,
	}, result.Routes[2])
	assert.Equal(t, "ping.yaml:ping", result.Routes[3].ID())

	assert.Equal(t, "pong", request(e, http.MethodGet, "/api/ping", "").Body.String())
	assert.Equal(t, "7", request(e, http.MethodGet, "/api/pets/7", "").Body.String())

	rec := request(e, http.MethodPost, "/api/pets", `{"name":"bo"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = request(e, http.MethodPost, "/api/pets", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[{"field":"name","message":"name is required"}]}`, rec.Body.String())

	rec = request(e, http.MethodGet, "/api/pets", "")
	assert.JSONEq(t, `{"names":["rex","mr. bo"]}`, rec.Body.String())

	_, err = result.Document()
	assert.True(t, config.IsNotConfigured(err))
	assert.Nil(t, result.Builder())
	assert.Equal(t, http.StatusNotFound, request(e, http.MethodGet, "/api/api-docs", "").Code)
}

func TestLoadMissingDependency(t *testing.T) {
	dir := writeControllers(t, map[string]string{"pets.yaml": petsLoaderController})
	_, r := newRegistrar("")

	_, err := Load(context.Background(), r, Options{
		Location: dir,
		Handlers: testCatalog(),
	}, nil)

	require.Error(t, err)
	assert.EqualError(t, err, "dependency store is required to invoke pets.yaml:list")
}

func TestLoadHandlerNotFound(t *testing.T) {
	dir := writeControllers(t, map[string]string{"ping.yaml": pingController})
	_, r := newRegistrar("")

	_, err := Load(context.Background(), r, Options{Location: dir, Handlers: Catalog{}}, nil)

	require.ErrorIs(t, err, ErrHandlerNotFound)
	assert.EqualError(t, err, "controller ping.yaml:ping: handler not found: ping.ping")
}

func TestLoadNilHandler(t *testing.T) {
	dir := writeControllers(t, map[string]string{"ping.yaml": pingController})
	_, r := newRegistrar("")

	_, err := Load(context.Background(), r, Options{
		Location: dir,
		Handlers: Catalog{"ping.ping": func(...any) echo.HandlerFunc { return nil }},
	}, nil)

	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestLoadBuildsDocument(t *testing.T) {
	dir := writeControllers(t, map[string]string{
		"pets.yaml": petsLoaderController,
		"ping.yaml": pingController,
	})
	e, r := newRegistrar("/api")
	sink := &openapi.MemorySink{}

	result, err := Load(context.Background(), r, Options{
		Location:     dir,
		Dependencies: Dependencies{"store": &petStore{}, "prefix": ""},
		Handlers:     testCatalog(),
		OpenAPI:      &openapi.Metadata{Title: "Pets", Version: "1.0.0", Description: "Pet API", Host: "localhost:8080"},
		Sink:         sink,
	}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, sink.Writes())

	doc, err := result.Document()
	require.NoError(t, err)
	assert.Equal(t, "/api", doc.BasePath)
	assert.Equal(t, []openapi.Tag{
		{Name: "pets", Description: "Pet operations"},
		{Name: "ping", Description: "Health ping"},
	}, doc.Tags)

	ping := doc.Operation("/ping", "get")
	require.NotNil(t, ping)
	assert.Equal(t, []string{"ping"}, ping.Tags)
	assert.Empty(t, ping.Parameters)
	assert.Equal(t, map[string]openapi.Response{"default": {Description: "none"}}, ping.Responses)

	get := doc.Operation("/pets/{id}", "get")
	require.NotNil(t, get)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, openapi.Parameter{Name: "id", In: "path", Type: "string", Required: true}, get.Parameters[0])

	create := doc.Operation("/pets", "post")
	require.NotNil(t, create)
	require.Len(t, create.Parameters, 1)
	assert.Equal(t, "pet", create.Parameters[0].Name)
	assert.Equal(t, "body", create.Parameters[0].In)

	require.NoError(t, openapi.Check(context.Background(), doc))

	rec := request(e, http.MethodGet, "/api/api-docs/swagger.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var served map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &served))
	assert.Equal(t, "2.0", served["swagger"])
	assert.Equal(t, "/api", served["basePath"])

	rec = request(e, http.MethodGet, "/api/api-docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/api-docs/swagger.json")
}

func TestLoadPersistFailureKeepsRoutes(t *testing.T) {
	dir := writeControllers(t, map[string]string{"ping.yaml": pingController})
	e, r := newRegistrar("")

	result, err := Load(context.Background(), r, Options{
		Location: dir,
		Handlers: testCatalog(),
		OpenAPI:  &openapi.Metadata{Title: "Ping", Version: "1"},
		Sink:     failingSink{},
	}, logger.Nop())

	var perr *openapi.PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "failing", perr.Sink)
	require.NotNil(t, result)
	assert.Len(t, result.Routes, 1)
	assert.Equal(t, "pong", request(e, http.MethodGet, "/ping", "").Body.String())

	doc, docErr := result.Document()
	require.NoError(t, docErr)
	assert.Equal(t, "/", doc.BasePath)
	assert.NotNil(t, doc.Operation("/ping", "get"))
}

func TestLoadExplicitBaseWins(t *testing.T) {
	dir := writeControllers(t, map[string]string{"ping.yaml": pingController})
	_, r := newRegistrar("/api")

	result, err := Load(context.Background(), r, Options{
		Location: dir,
		Handlers: testCatalog(),
		OpenAPI:  &openapi.Metadata{Title: "Ping", Version: "1", Base: "/v2"},
	}, nil)
	require.NoError(t, err)

	doc, err := result.Document()
	require.NoError(t, err)
	assert.Equal(t, "/v2", doc.BasePath)
}

func TestLoadCancelledContext(t *testing.T) {
	dir := writeControllers(t, map[string]string{"ping.yaml": pingController})
	_, r := newRegistrar("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, r, Options{Location: dir, Handlers: testCatalog()}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Controllers: config.ControllersConfig{Location: "controllers"},
	}
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "controllers", opts.Location)
	assert.Nil(t, opts.OpenAPI)
	assert.Nil(t, opts.Sink)

	cfg.OpenAPI = config.OpenAPIConfig{
		Enabled: true, Title: "Pets", Version: "2.0.0", Description: "d", Host: "h", Output: "out",
	}
	opts = OptionsFromConfig(cfg)
	require.NotNil(t, opts.OpenAPI)
	assert.Equal(t, openapi.Metadata{Title: "Pets", Version: "2.0.0", Description: "d", Host: "h"}, *opts.OpenAPI)
	fileSink, ok := opts.Sink.(*openapi.FileSink)
	require.True(t, ok)
	assert.Equal(t, "out/"+openapi.DefinitionFile, fileSink.Path())
}
