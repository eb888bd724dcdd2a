package openapi

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-webapi/server"
)

// DocsRoute is the sub-route serving the documentation UI and the document.
const DocsRoute = "/api-docs"

const (
	docsYAMLFile = "/swagger.yaml"
	docsJSONFile = "/swagger.json"
)

// DocumentSource supplies the document served by the docs endpoints. *Builder implements it.
type DocumentSource interface {
	Document() *Document
}

// RegisterDocs mounts the Swagger UI page and the YAML/JSON document under DocsRoute:
//
//	<base>/api-docs              - Swagger UI
//	<base>/api-docs/swagger.yaml - document as YAML
//	<base>/api-docs/swagger.json - document as JSON
//
// The document is serialized on every request so late registrations are visible.
func RegisterDocs(r server.RouteRegistrar, src DocumentSource) {
	specURL := r.FullPath(DocsRoute + docsJSONFile)

	ui := func(c echo.Context) error {
		title := "API documentation"
		if doc := src.Document(); doc != nil && doc.Info.Title != "" {
			title = doc.Info.Title
		}
		return c.HTML(http.StatusOK, swaggerUIPage(title, specURL))
	}

	r.Add(http.MethodGet, DocsRoute, ui)
	r.Add(http.MethodGet, DocsRoute+"/", ui)

	r.Add(http.MethodGet, DocsRoute+docsYAMLFile, func(c echo.Context) error {
		doc := src.Document()
		if doc == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "API document is not initialized")
		}
		data, err := doc.YAML()
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/x-yaml", data)
	})

	r.Add(http.MethodGet, DocsRoute+docsJSONFile, func(c echo.Context) error {
		doc := src.Document()
		if doc == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "API document is not initialized")
		}
		data, err := doc.JSON()
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, data)
	})
}

func swaggerUIPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"});
</script>
</body>
</html>`, html.EscapeString(title), specURL)
}
