package controller

import (
	"maps"
	"slices"

	"github.com/labstack/echo/v4"
)

// HandlerFactory builds an action's handler from its resolved dependencies,
// passed in the order the action lists them.
type HandlerFactory func(deps ...any) echo.HandlerFunc

// Catalog maps handler names to factories. Controller files refer to handlers by
// name, "<file stem>.<action id>" unless the action sets `handler`.
type Catalog map[string]HandlerFactory

// Register adds a factory under name and returns the catalog for chaining.
func (c Catalog) Register(name string, factory HandlerFactory) Catalog {
	c[name] = factory
	return c
}

// Lookup returns the factory registered under name.
func (c Catalog) Lookup(name string) (HandlerFactory, bool) {
	f, ok := c[name]
	return f, ok && f != nil
}

// Names returns the registered handler names in sorted order.
func (c Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c))
}
