package openapi

import "strings"

// TemplatePath rewrites colon parameters (/users/:id) into Swagger brace syntax
// (/users/{id}) and returns the parameter names in path order. A parameter runs
// until the next "/" or the end of the path. The input is not modified.
func TemplatePath(path string) (string, []string) {
	if !strings.Contains(path, ":") {
		return path, nil
	}

	var (
		b      strings.Builder
		params []string
	)
	b.Grow(len(path) + 2)

	rest := path
	for {
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:colon])

		rest = rest[colon+1:]
		end := strings.IndexByte(rest, '/')
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		params = append(params, name)

		b.WriteByte('{')
		b.WriteString(name)
		b.WriteByte('}')
		rest = rest[end:]
	}

	return b.String(), params
}

// HasPathParameter reports whether path declares a colon parameter.
func HasPathParameter(path string) bool {
	return strings.Contains(path, ":")
}
