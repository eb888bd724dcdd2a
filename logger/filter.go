package logger

import (
	"net/url"
	"strings"
)

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// maxFilterDepth bounds recursion into nested maps and slices.
const maxFilterDepth = 8

// FilterConfig defines which fields are masked.
type FilterConfig struct {
	// SensitiveFields are matched case-insensitively as substrings of field names.
	SensitiveFields []string
	// MaskValue replaces sensitive values (default: DefaultMaskValue).
	MaskValue string
}

// DefaultFilterConfig returns the field names masked by New.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "secret",
			"api_key", "apikey", "token",
			"authorization", "cookie", "credential",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values of sensitive fields before they are logged.
type SensitiveDataFilter struct {
	fields []string
	mask   string
}

// NewSensitiveDataFilter creates a filter for config; nil uses DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	f := &SensitiveDataFilter{mask: config.MaskValue}
	if f.mask == "" {
		f.mask = DefaultMaskValue
	}
	for _, name := range config.SensitiveFields {
		f.fields = append(f.fields, strings.ToLower(name))
	}
	return f
}

// FilterString masks value when key is sensitive. URLs keep their structure and
// only lose the password.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if value != "" && f.isSensitive(key) {
		return f.maskString(value)
	}
	return value
}

// FilterValue masks value when key is sensitive and recurses into maps and slices.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filter(key, value, maxFilterDepth)
}

// FilterFields returns a copy of fields with sensitive values masked.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	return f.filterMap(fields, maxFilterDepth)
}

func (f *SensitiveDataFilter) filter(key string, value any, depth int) any {
	if f.isSensitive(key) {
		if s, ok := value.(string); ok {
			return f.maskString(s)
		}
		return f.mask
	}
	if depth <= 0 {
		return value
	}

	switch v := value.(type) {
	case map[string]any:
		return f.filterMap(v, depth-1)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = f.FilterString(k, s)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = f.filter("", item, depth-1)
		}
		return out
	default:
		return value
	}
}

func (f *SensitiveDataFilter) filterMap(m map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = f.filter(k, v, depth)
	}
	return out
}

func (f *SensitiveDataFilter) isSensitive(key string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, name := range f.fields {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func (f *SensitiveDataFilter) maskString(value string) string {
	if !strings.Contains(value, "://") {
		return f.mask
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return f.mask
	}
	if parsed.User == nil {
		return value
	}
	if _, hasPassword := parsed.User.Password(); !hasPassword {
		return value
	}
	parsed.User = url.UserPassword(parsed.User.Username(), f.mask)
	return parsed.String()
}
