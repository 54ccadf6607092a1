package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	dserrors "github.com/systmms/lcdrotator/internal/errors"
	"github.com/systmms/lcdrotator/internal/logging"
	"github.com/systmms/lcdrotator/pkg/rotator"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the config file used when --config is not given
	DefaultPath = "lcdrotator.yaml"
	// DefaultListen is where the server listens and the client connects by default
	DefaultListen = "127.0.0.1:7468"
	// DefaultMetricsPath is the HTTP path serving Prometheus metrics
	DefaultMetricsPath = "/metrics"

	defaultTimeoutMs = 5000
)

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the lcdrotator.yaml structure
type Definition struct {
	Version  int                `yaml:"version"`
	Server   ServerConfig       `yaml:"server,omitempty"`
	Metrics  MetricsConfig      `yaml:"metrics,omitempty"`
	Rotators map[string][]Entry `yaml:"rotators,omitempty"`
}

// ServerConfig configures the HTTP host process
type ServerConfig struct {
	Listen         string `yaml:"listen,omitempty"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms,omitempty"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Entry is one key/value pair of a configured rotator, in rotation order
type Entry struct {
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Redact bool   `yaml:"redact,omitempty"`
}

// ErrNotFound is wrapped by Load when the config file does not exist
var ErrNotFound = errors.New("configuration file not found")

// Load reads, validates and parses the config file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return dserrors.UserError{
				Message:    fmt.Sprintf("%s: %s", ErrNotFound, c.Path),
				Suggestion: "Run 'lcdrotator init' to create a new configuration file",
				Err:        ErrNotFound,
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}

	c.Definition = def
	if c.Logger != nil {
		c.Logger.Debug("loaded %d rotators from %s", len(def.Rotators), c.Path)
	}
	return nil
}

// LoadOptional behaves like Load but treats a missing file as an empty
// configuration
func (c *Config) LoadOptional() error {
	err := c.Load()
	if errors.Is(err, ErrNotFound) {
		if c.Logger != nil {
			c.Logger.Debug("no configuration at %s, using defaults", c.Path)
		}
		c.Definition = &Definition{}
		return nil
	}
	return err
}

// Parse validates and decodes a YAML config document
func Parse(data []byte) (*Definition, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if err := validateSchema(raw); err != nil {
		return nil, dserrors.ConfigError{
			Message:    err.Error(),
			Suggestion: "Compare your file with the output of 'lcdrotator init'",
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid configuration structure",
			Suggestion: "Compare your file with the output of 'lcdrotator init'",
		}
	}

	if def.Version != 0 {
		return nil, dserrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your lcdrotator.yaml file",
		}
	}

	for name, entries := range def.Rotators {
		if strings.Contains(name, " ") {
			return nil, dserrors.ConfigError{
				Field:      "rotators",
				Value:      name,
				Message:    "rotator names cannot contain spaces",
				Suggestion: "Requests address rotators by their first space-separated token",
			}
		}
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if seen[e.Key] {
				return nil, dserrors.ConfigError{
					Field:      "rotators." + name,
					Value:      e.Key,
					Message:    "duplicate key",
					Suggestion: "Give each entry of a rotator a unique key",
				}
			}
			seen[e.Key] = true
		}
	}

	return &def, nil
}

// RotatorNames returns the configured rotator names, sorted
func (d *Definition) RotatorNames() []string {
	names := make([]string, 0, len(d.Rotators))
	for name := range d.Rotators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rotator returns the ordered keys and the value mapping of a configured rotator
func (c *Config) Rotator(name string) ([]string, map[string]string, error) {
	if c.Definition == nil {
		return nil, nil, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	entries, ok := c.Definition.Rotators[name]
	if !ok {
		suggestion := "Add the rotator to the 'rotators:' section of your lcdrotator.yaml"
		if names := c.Definition.RotatorNames(); len(names) > 0 {
			suggestion = fmt.Sprintf("Available rotators: %s", strings.Join(names, ", "))
		}
		return nil, nil, dserrors.ConfigError{
			Field:      "rotator",
			Value:      name,
			Message:    "rotator not found in configuration",
			Suggestion: suggestion,
		}
	}

	keys := make([]string, 0, len(entries))
	values := make(map[string]string, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
		values[e.Key] = e.Value
	}
	return keys, values, nil
}

// Preload initializes every configured rotator in reg and returns how many
// were initialized. Configured rotators become the first initializer, so
// keys passed in later requests for the same name are ignored.
func (c *Config) Preload(reg *rotator.Registry) (int, error) {
	if c.Definition == nil {
		return 0, nil
	}

	for _, name := range c.Definition.RotatorNames() {
		keys, values, err := c.Rotator(name)
		if err != nil {
			return 0, err
		}
		reg.GetOrCreate(name).Initialize(name, keys, values)
		if c.Logger != nil {
			c.Logger.Debug("preloaded rotator %q with %d keys", name, len(keys))
		}
	}
	return len(c.Definition.Rotators), nil
}

// Secrets returns the values of all entries flagged for redaction
func (c *Config) Secrets() []string {
	if c.Definition == nil {
		return nil
	}
	var secrets []string
	for _, entries := range c.Definition.Rotators {
		for _, e := range entries {
			if e.Redact {
				secrets = append(secrets, e.Value)
			}
		}
	}
	return secrets
}

// ListenAddr returns the configured server address or the default
func (c *Config) ListenAddr() string {
	if c.Definition == nil || c.Definition.Server.Listen == "" {
		return DefaultListen
	}
	return c.Definition.Server.Listen
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return timeoutOrDefault(s.ReadTimeoutMs)
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return timeoutOrDefault(s.WriteTimeoutMs)
}

func timeoutOrDefault(ms int) time.Duration {
	if ms <= 0 {
		ms = defaultTimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// MetricsPath returns the configured metrics path or the default
func (m MetricsConfig) MetricsPath() string {
	if m.Path == "" {
		return DefaultMetricsPath
	}
	return m.Path
}
