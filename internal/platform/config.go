package platform

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/copydeck/pkg/core"
)

// DefaultExportFile is the file name used by export when none is given.
const DefaultExportFile = "copyDeckData.json"

// Environment overrides, applied on top of the config file.
const (
	EnvDataDir  = "COPYDECK_DATA_DIR"
	EnvLogLevel = "COPYDECK_LOG_LEVEL"
)

// Config is the on-disk configuration of the copydeck CLI.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	StorageKey string `yaml:"storage_key" validate:"required,excludesall=/\\,ne=.,ne=.."`
	LogLevel   string `yaml:"log_level"`
	ExportFile string `yaml:"export_file" validate:"required"`
	ReadOnly   bool   `yaml:"read_only"`
	StrictLoad bool   `yaml:"strict_load"`
}

var validate = validator.New()

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		StorageKey: core.DefaultStorageKey,
		LogLevel:   "info",
		ExportFile: DefaultExportFile,
	}
}

// XDGDataHome returns XDG_DATA_HOME or its default.
func XDGDataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}

// XDGConfigHome returns XDG_CONFIG_HOME or its default.
func XDGConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the path of the config file.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "copydeck", "config.yaml")
}

// DefaultDataDir returns the per-user data directory.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), "copydeck")
}

// LoadConfig reads the YAML config at path (DefaultConfigPath when empty)
// and applies environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}

	if cfg.StorageKey == "" {
		cfg.StorageKey = core.DefaultStorageKey
	}
	if cfg.ExportFile == "" {
		cfg.ExportFile = DefaultExportFile
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints and the log level.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ResolveDataDir picks the data directory: the configured one, else the
// nearest project-local .copydeck directory above cwd, else DefaultDataDir.
func (c Config) ResolveDataDir(cwd string) string {
	if c.DataDir != "" {
		return expandHome(c.DataDir)
	}
	if root, err := FindRoot(cwd); err == nil {
		return root
	}
	return DefaultDataDir()
}

// Options converts the config into service options.
func (c Config) Options() []Option {
	return []Option{
		WithStorageKey(c.StorageKey),
		WithReadOnly(c.ReadOnly),
		WithStrictLoad(c.StrictLoad),
	}
}

// ParseLogLevel maps a level name to slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
