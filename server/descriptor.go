package server

import "sync"

// RouteDescriptor captures metadata about a route wired from a controller definition.
type RouteDescriptor struct {
	Method       string   // HTTP method (GET, POST, etc.)
	Path         string   // Full route path in Echo syntax (/api/pets/:id)
	Module       string   // Controller file that declared the action
	Action       string   // Action id within the controller file
	Handler      string   // Catalog name the handler was resolved from
	Dependencies []string // Dependency names injected into the handler factory
	Description  string
	Validated    bool // Request body is validated before dispatch
}

// ID returns the "<module>:<action>" identifier used in loader errors and logs.
func (d RouteDescriptor) ID() string {
	return d.Module + ":" + d.Action
}

// RouteRegistry maintains wired routes for introspection.
type RouteRegistry struct {
	mu     sync.RWMutex
	routes []RouteDescriptor
}

// Register adds a route descriptor to the registry
func (r *RouteRegistry) Register(descriptor *RouteDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, cloneDescriptor(descriptor))
}

// Routes returns a copy of all registered routes in registration order
func (r *RouteRegistry) Routes() []RouteDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]RouteDescriptor, len(r.routes))
	for i := range r.routes {
		result[i] = cloneDescriptor(&r.routes[i])
	}
	return result
}

// ByModule returns routes declared by a specific controller file
func (r *RouteRegistry) ByModule(module string) []RouteDescriptor {
	return r.filter(func(d *RouteDescriptor) bool { return d.Module == module })
}

// ByPath returns routes for a specific path pattern
func (r *RouteRegistry) ByPath(path string) []RouteDescriptor {
	return r.filter(func(d *RouteDescriptor) bool { return d.Path == path })
}

// Count returns the number of registered routes
func (r *RouteRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Clear removes all registered routes
func (r *RouteRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = nil
}

func (r *RouteRegistry) filter(keep func(*RouteDescriptor) bool) []RouteDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []RouteDescriptor
	for i := range r.routes {
		if keep(&r.routes[i]) {
			result = append(result, cloneDescriptor(&r.routes[i]))
		}
	}
	return result
}

// cloneDescriptor deep-copies slice fields to prevent external mutation
func cloneDescriptor(d *RouteDescriptor) RouteDescriptor {
	if d == nil {
		return RouteDescriptor{}
	}
	out := *d
	if d.Dependencies != nil {
		out.Dependencies = append([]string(nil), d.Dependencies...)
	}
	return out
}
