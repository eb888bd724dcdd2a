package openapi

import "strings"

// DeriveTag computes the grouping tag of a colon-syntax route path:
// the first segment of a multi-segment path, the whole remainder of a
// single plain segment, or "" for a single parameter segment such as /:id.
func DeriveTag(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	if !strings.Contains(rest, ":") {
		return rest
	}
	return ""
}

// addTag registers name unless it is empty or already present.
// The first description registered for a name is kept.
func (d *Document) addTag(name, description string) bool {
	if name == "" {
		return false
	}
	for _, t := range d.Tags {
		if t.Name == name {
			return false
		}
	}
	d.Tags = append(d.Tags, Tag{Name: name, Description: description})
	return true
}
