package server

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// RouteRegistrar abstracts the subset of Echo's routing features that the controller
// loader and the docs endpoint need, while letting the server enforce base-path handling.
type RouteRegistrar interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
	Group(prefix string, middleware ...echo.MiddlewareFunc) RouteRegistrar
	Use(middleware ...echo.MiddlewareFunc)
	// FullPath returns the externally visible path for a route registered at path.
	FullPath(path string) string
}

type routeGroup struct {
	group  *echo.Group
	prefix string
}

// NewRouteGroup wraps an Echo group whose routes live under prefix.
func NewRouteGroup(group *echo.Group, prefix string) RouteRegistrar {
	return newRouteGroup(group, prefix)
}

func newRouteGroup(group *echo.Group, prefix string) RouteRegistrar {
	return &routeGroup{
		group:  group,
		prefix: normalizePrefix(prefix),
	}
}

func (rg *routeGroup) Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route {
	return rg.group.Add(method, rg.relativePath(path), handler, middleware...)
}

func (rg *routeGroup) Group(prefix string, middleware ...echo.MiddlewareFunc) RouteRegistrar {
	normalized := normalizePrefix(prefix)
	return &routeGroup{
		group:  rg.group.Group(normalized, middleware...),
		prefix: rg.prefix + normalized,
	}
}

func (rg *routeGroup) Use(middleware ...echo.MiddlewareFunc) {
	rg.group.Use(middleware...)
}

func (rg *routeGroup) FullPath(path string) string {
	relative := rg.relativePath(path)
	switch {
	case relative == "" && rg.prefix == "":
		return "/"
	case relative == "":
		return rg.prefix
	default:
		return rg.prefix + relative
	}
}

// relativePath normalizes path and strips the group prefix when the caller
// already included it, so both "/pets" and "/api/pets" land on the same route.
func (rg *routeGroup) relativePath(path string) string {
	normalized := ensureLeadingSlash(path)
	if normalized == "/" {
		return ""
	}
	if trimmed, ok := stripPathPrefix(normalized, rg.prefix); ok {
		return trimmed
	}
	return normalized
}

func ensureLeadingSlash(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

func normalizePrefix(prefix string) string {
	if prefix == "" || prefix == "/" {
		return ""
	}
	return strings.TrimRight(ensureLeadingSlash(prefix), "/")
}

func stripPathPrefix(path, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return path, false
	}
	remainder := strings.TrimPrefix(path, prefix)
	if remainder == "" || strings.HasPrefix(remainder, "/") {
		return remainder, true
	}
	return path, false
}
