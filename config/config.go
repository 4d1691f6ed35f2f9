package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/drblury/docweaver/apidoc"
	"github.com/drblury/docweaver/info"
	"github.com/drblury/docweaver/mongostore"
)

// ErrUnsupportedFormat is returned for configuration formats other than YAML
// and TOML.
var ErrUnsupportedFormat = errors.New("config: unsupported format")

// Format names a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

const (
	DefaultListen          = ":10000"
	DefaultVersion         = 2
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMongoTimeout    = 5 * time.Second
)

// Config is the complete server configuration.
type Config struct {
	Listen          string   `yaml:"listen" toml:"listen"`
	Version         int      `yaml:"version" toml:"version"`
	Host            string   `yaml:"host" toml:"host"`
	BasePath        string   `yaml:"basePath" toml:"basePath"`
	FileDirectory   string   `yaml:"fileDirectory" toml:"fileDirectory"`
	Placeholders    bool     `yaml:"placeholders" toml:"placeholders"`
	UI              string   `yaml:"ui" toml:"ui"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout" toml:"shutdownTimeout"`

	APIs        []API    `yaml:"apis" toml:"apis"`
	Definitions []string `yaml:"definitions" toml:"definitions"`

	Mongo  MongoConfig  `yaml:"mongo" toml:"mongo"`
	Router RouterConfig `yaml:"router" toml:"router"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// API is one documented API. For V1 documents Path optionally overrides the
// file served for the API; for V2 documents it overrides the fragment file.
type API struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	Path        string `yaml:"path" toml:"path"`
}

// MongoConfig enables fragments stored in MongoDB. It is ignored unless URI
// is set.
type MongoConfig struct {
	URI         string   `yaml:"uri" toml:"uri"`
	Database    string   `yaml:"database" toml:"database"`
	Collection  string   `yaml:"collection" toml:"collection"`
	Timeout     Duration `yaml:"timeout" toml:"timeout"`
	APIs        []string `yaml:"apis" toml:"apis"`
	Definitions []string `yaml:"definitions" toml:"definitions"`
}

// Enabled reports whether a MongoDB connection is configured.
func (m MongoConfig) Enabled() bool {
	return m.URI != ""
}

// RouterConfig mirrors router.Config in a serializable form.
type RouterConfig struct {
	Timeout          Duration   `yaml:"timeout" toml:"timeout"`
	CORS             CORSConfig `yaml:"cors" toml:"cors"`
	QuietdownRoutes  []string   `yaml:"quietdownRoutes" toml:"quietdownRoutes"`
	HideHeaders      []string   `yaml:"hideHeaders" toml:"hideHeaders"`
	ValidateRequests bool       `yaml:"validateRequests" toml:"validateRequests"`
}

type CORSConfig struct {
	Origins          []string `yaml:"origins" toml:"origins"`
	Methods          []string `yaml:"methods" toml:"methods"`
	Headers          []string `yaml:"headers" toml:"headers"`
	AllowCredentials bool     `yaml:"allowCredentials" toml:"allowCredentials"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Duration wraps time.Duration so both formats accept strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml", "":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads, parses and validates the file at path. Environment variables
// in the path and in the MongoDB URI are expanded.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data, applies defaults and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cfg.applyDefaults()
	cfg.Mongo.URI = os.ExpandEnv(cfg.Mongo.URI)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.BasePath == "" {
		c.BasePath = apidoc.DefaultBasePath
	}
	if c.FileDirectory == "" {
		c.FileDirectory = apidoc.DefaultFileDirectory
	}
	if c.ShutdownTimeout.Duration == 0 {
		c.ShutdownTimeout.Duration = DefaultShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = mongostore.DefaultCollection
	}
	if c.Mongo.Timeout.Duration == 0 {
		c.Mongo.Timeout.Duration = DefaultMongoTimeout
	}
}

// Validate reports every problem found in the configuration.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.DocumentVersion(); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, fmt.Errorf("basePath %q must begin with /", c.BasePath))
	}
	if slices.Contains(info.DefaultPaths().List(), c.BasePath) {
		errs = append(errs, fmt.Errorf("basePath %q is reserved for the info endpoints", c.BasePath))
	}
	for i, api := range c.APIs {
		if strings.TrimSpace(api.Name) == "" {
			errs = append(errs, fmt.Errorf("apis[%d]: name is required", i))
		}
	}
	if c.Version == int(apidoc.V1) && (len(c.Definitions) > 0 || len(c.Mongo.Definitions) > 0) {
		errs = append(errs, errors.New("definitions require version 2"))
	}
	if c.Mongo.Enabled() && c.Mongo.Database == "" {
		errs = append(errs, errors.New("mongo.database is required when mongo.uri is set"))
	}
	if c.Mongo.Enabled() && c.Version == int(apidoc.V1) {
		errs = append(errs, errors.New("mongo fragments require version 2"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if _, err := info.ParseUIType(c.UI); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// DocumentVersion returns the configured envelope version.
func (c *Config) DocumentVersion() (apidoc.Version, error) {
	switch v := apidoc.Version(c.Version); v {
	case apidoc.V1, apidoc.V2:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %d", apidoc.ErrUnknownVersion, c.Version)
	}
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
