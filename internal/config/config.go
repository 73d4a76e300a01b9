package config

import (
	"encoding/json"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tooltip.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete tooltip.json configuration.
type Config struct {
	// ShowDelay is the default show delay in milliseconds.
	ShowDelay int `json:"showDelay"`

	// HideDelay is the default hide delay in milliseconds.
	HideDelay int `json:"hideDelay"`

	// TouchendHideDelay is how long a tooltip stays after a touch ends,
	// in milliseconds.
	TouchendHideDelay int `json:"touchendHideDelay"`

	// Position is the default side for hosts without their own.
	Position string `json:"position"`

	// Direction is the page text direction, "ltr" or "rtl".
	Direction string `json:"direction,omitempty"`

	// Server configures the live server.
	Server ServerConfig `json:"server"`

	// Hosts are the tooltip hosts rendered by the demo page.
	Hosts []HostConfig `json:"hosts"`

	// configPath is the path to the loaded config file.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	MetricsPath string `json:"metricsPath"`

	// AllowedOrigins restricts WebSocket upgrades. Empty allows same-origin
	// requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// HostConfig describes one element that carries a tooltip.
type HostConfig struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
	Class    string `json:"class,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	defaults := tooltip.DefaultOptions()
	return &Config{
		ShowDelay:         int(defaults.ShowDelay / time.Millisecond),
		HideDelay:         int(defaults.HideDelay / time.Millisecond),
		TouchendHideDelay: int(defaults.TouchendHideDelay / time.Millisecond),
		Position:          string(tooltip.DefaultPosition),
		Direction:         string(tooltip.DirLTR),
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
		},
		Hosts: []HostConfig{},
	}
}

// Load reads configuration from the specified directory.
// It looks for tooltip.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'vtooltip config init' to create one")
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		te := errors.New(errors.CodeConfigParse).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)

		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntaxErr):
			te.WithOffset(path, data, syntaxErr.Offset)
		case stderrors.As(err, &typeErr):
			te.WithOffset(path, data, typeErr.Offset)
		}
		return nil, te
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to its original path.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "config has no path; use SaveTo")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Newf(errors.CategoryConfig, "cannot write %s", path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path to the config file.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Position == "" {
		c.Position = string(tooltip.DefaultPosition)
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Hosts == nil {
		c.Hosts = []HostConfig{}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New(errors.CodeInvalidPort).
			WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if _, err := tooltip.ParseSide(c.Position); err != nil {
		return errors.New(errors.CodeInvalidPosition).Wrap(err)
	}
	if _, err := tooltip.ParseDirection(c.Direction); err != nil {
		return errors.New(errors.CodeInvalidDirection).Wrap(err)
	}

	seen := make(map[string]bool, len(c.Hosts))
	for i, h := range c.Hosts {
		if h.ID == "" || h.Message == "" {
			return errors.New(errors.CodeIncompleteHost).
				WithDetail("Host #" + strconv.Itoa(i+1) + " needs both an id and a message")
		}
		if seen[h.ID] {
			return errors.New(errors.CodeDuplicateHostID).
				WithDetail("Host id " + strconv.Quote(h.ID) + " is used more than once")
		}
		seen[h.ID] = true

		if h.Position != "" {
			if _, err := tooltip.ParseSide(h.Position); err != nil {
				return errors.New(errors.CodeInvalidPosition).
					WithDetail("Host " + strconv.Quote(h.ID) + " has an invalid position").
					Wrap(err)
			}
		}
	}
	return nil
}

// Options returns the delays as tooltip options.
func (c *Config) Options() tooltip.Options {
	return tooltip.Options{
		ShowDelay:         time.Duration(c.ShowDelay) * time.Millisecond,
		HideDelay:         time.Duration(c.HideDelay) * time.Millisecond,
		TouchendHideDelay: time.Duration(c.TouchendHideDelay) * time.Millisecond,
	}
}

// Side returns the default position. Call Validate first.
func (c *Config) Side() tooltip.Side {
	return tooltip.Side(c.Position)
}

// TextDirection returns the page text direction. Call Validate first.
func (c *Config) TextDirection() tooltip.Direction {
	return tooltip.Direction(c.Direction)
}

// Address returns the server listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Side returns the host position, falling back to def.
func (h HostConfig) Side(def tooltip.Side) tooltip.Side {
	if h.Position == "" {
		return def
	}
	return tooltip.Side(h.Position)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
