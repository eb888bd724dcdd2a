package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config represents the overall configuration structure.
// The koanf.Koanf instance is kept for access to custom keys not
// explicitly defined in the struct.
type Config struct {
	App         AppConfig         `koanf:"app" json:"app" yaml:"app" mapstructure:"app"`
	Server      ServerConfig      `koanf:"server" json:"server" yaml:"server" mapstructure:"server"`
	Controllers ControllersConfig `koanf:"controllers" json:"controllers" yaml:"controllers" mapstructure:"controllers"`
	OpenAPI     OpenAPIConfig     `koanf:"openapi" json:"openapi" yaml:"openapi" mapstructure:"openapi"`
	Log         LogConfig         `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`

	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string     `koanf:"name" json:"name" yaml:"name" mapstructure:"name"`
	Version string     `koanf:"version" json:"version" yaml:"version" mapstructure:"version"`
	Env     string     `koanf:"env" json:"env" yaml:"env" mapstructure:"env"`
	Debug   bool       `koanf:"debug" json:"debug" yaml:"debug" mapstructure:"debug"`
	Rate    RateConfig `koanf:"rate" json:"rate" yaml:"rate" mapstructure:"rate"`
}

// RateConfig holds rate limiting settings. A non-positive limit disables rate limiting.
type RateConfig struct {
	Limit int `koanf:"limit" json:"limit" yaml:"limit" mapstructure:"limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host" json:"host" yaml:"host" mapstructure:"host"`
	Port    int           `koanf:"port" json:"port" yaml:"port" mapstructure:"port"`
	Timeout TimeoutConfig `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	Path    PathConfig    `koanf:"path" json:"path" yaml:"path" mapstructure:"path"`
	CORS    CORSConfig    `koanf:"cors" json:"cors" yaml:"cors" mapstructure:"cors"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	Origins []string `koanf:"origins" json:"origins" yaml:"origins" mapstructure:"origins"`
}

// TimeoutConfig holds various timeout durations for the server.
type TimeoutConfig struct {
	Read       time.Duration `koanf:"read" json:"read" yaml:"read" mapstructure:"read"`
	Write      time.Duration `koanf:"write" json:"write" yaml:"write" mapstructure:"write"`
	Idle       time.Duration `koanf:"idle" json:"idle" yaml:"idle" mapstructure:"idle"`
	Middleware time.Duration `koanf:"middleware" json:"middleware" yaml:"middleware" mapstructure:"middleware"`
	Shutdown   time.Duration `koanf:"shutdown" json:"shutdown" yaml:"shutdown" mapstructure:"shutdown"`
}

// PathConfig holds URL path settings for the server.
// Base prefixes every controller route and is published as the document basePath.
type PathConfig struct {
	Base   string `koanf:"base" json:"base" yaml:"base" mapstructure:"base"`
	Health string `koanf:"health" json:"health" yaml:"health" mapstructure:"health"`
	Ready  string `koanf:"ready" json:"ready" yaml:"ready" mapstructure:"ready"`
}

// ControllersConfig tells the loader where controller definition files live.
type ControllersConfig struct {
	Location string `koanf:"location" json:"location" yaml:"location" mapstructure:"location"`
}

// OpenAPIConfig holds the metadata published in the generated Swagger document.
type OpenAPIConfig struct {
	Enabled     bool   `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Title       string `koanf:"title" json:"title" yaml:"title" mapstructure:"title"`
	Version     string `koanf:"version" json:"version" yaml:"version" mapstructure:"version"`
	Description string `koanf:"description" json:"description" yaml:"description" mapstructure:"description"`
	Host        string `koanf:"host" json:"host" yaml:"host" mapstructure:"host"`
	// Output is the directory receiving API_definition.yml. Empty means the working directory.
	Output string `koanf:"output" json:"output" yaml:"output" mapstructure:"output"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// Address returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Address() string {
	return s.Host + ":" + itoa(s.Port)
}
