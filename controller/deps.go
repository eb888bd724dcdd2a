package controller

// Dependencies holds values injected into handler factories by name. A value of type
// func() any is a factory: it is called each time an action requires it.
type Dependencies map[string]any

// Resolve returns the values for names in order. A missing or nil dependency fails
// with *MissingDependencyError naming the file and action.
func (d Dependencies) Resolve(names []string, file, action string) ([]any, error) {
	resolved := make([]any, 0, len(names))
	for _, name := range names {
		value, ok := d[name]
		if !ok || value == nil {
			return nil, &MissingDependencyError{Dependency: name, File: file, Action: action}
		}
		if factory, isFactory := value.(func() any); isFactory {
			value = factory()
		}
		resolved = append(resolved, value)
	}
	return resolved, nil
}
