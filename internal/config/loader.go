package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = ".webpconv"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
)

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ErrNoHome is returned when the default config location cannot be resolved.
var ErrNoHome = errors.New("home directory is not available")

// ErrConfigExists is returned by Init when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

// Keys lists the settings accepted by Set.
var Keys = []string{"decoder", "jpeg.quality", "png.compression", "resize.max_width", "resize.max_height"}

// Loader reads and writes one configuration file.
type Loader struct {
	configDir  string
	configPath string
}

// NewLoader creates a loader for ~/.webpconv/config.yaml.
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoHome, err)
	}
	return NewLoaderWithPath(filepath.Join(homeDir, ConfigDirName, ConfigFileName)), nil
}

// NewLoaderWithPath creates a loader with a custom config path.
func NewLoaderWithPath(configPath string) *Loader {
	return &Loader{
		configDir:  filepath.Dir(configPath),
		configPath: configPath,
	}
}

// Open returns a loader for path, or for the default location when path is
// empty.
func Open(path string) (*Loader, error) {
	if path == "" {
		return NewLoader()
	}
	return NewLoaderWithPath(path), nil
}

// Resolve loads the effective settings from path, or from the default
// location when path is empty. Without a home directory there is no default
// file, so the defaults with environment overrides apply.
func Resolve(path string) (*Config, error) {
	loader, err := Open(path)
	if errors.Is(err, ErrNoHome) {
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.configPath
}

// Load reads the file with ${VAR} references expanded, then applies
// environment overrides and validates the result. Keys missing from the file
// keep their default values; a missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.read(true)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.configPath, err)
	}
	return cfg, nil
}

// LoadRaw reads the file as written, without expansion or overrides.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(false)
}

func (l *Loader) read(expand bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if expand {
		data = []byte(expandEnvVars(string(data)))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the file, creating its directory.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file exists.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.configPath)
	return err == nil
}

// Init creates a default configuration file.
func (l *Loader) Init() error {
	if l.Exists() {
		return fmt.Errorf("%w: %s", ErrConfigExists, l.configPath)
	}
	return l.Save(DefaultConfig())
}

// Set assigns a value by dotted key.
func (c *Config) Set(key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %q", key, value)
		}
		return n, nil
	}

	switch key {
	case "decoder":
		c.Decoder = value
	case "jpeg.quality":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.JPEG.Quality = n
	case "png.compression":
		c.PNG.Compression = value
	case "resize.max_width":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.Resize.MaxWidth = n
	case "resize.max_height":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.Resize.MaxHeight = n
	default:
		return fmt.Errorf("unknown config key: %s (supported: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values.
// Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool returns true if the environment variable is set to "true", "1"
// or "yes".
func GetEnvBool(key string) bool {
	value := strings.ToLower(os.Getenv(key))
	return value == "true" || value == "1" || value == "yes"
}
