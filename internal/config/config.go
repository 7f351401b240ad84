// Package config loads the pagebuilder configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/secret"
	"pagebuilder/internal/storage"
)

// Environment variables read by Load.
const (
	EnvConfigPath    = "PAGEBUILDER_CONFIG"
	EnvStorageDriver = "PAGEBUILDER_STORAGE_DRIVER"
	EnvStorageDSN    = "PAGEBUILDER_STORAGE_DSN"
	EnvDataDir       = "PAGEBUILDER_DATA_DIR"
	EnvLogLevel      = "PAGEBUILDER_LOG_LEVEL"
	EnvHTTPAddr      = "PAGEBUILDER_HTTP_ADDR"
	EnvPersistHist   = "PAGEBUILDER_HISTORY_PERSIST"
)

// Config is the full configuration tree.
type Config struct {
	DataDir string        `yaml:"data_dir" validate:"required"`
	Storage StorageConfig `yaml:"storage"`
	Editor  EditorConfig  `yaml:"editor"`
	History HistoryConfig `yaml:"history"`
	HTTP    HTTPConfig    `yaml:"http"`
	Export  ExportConfig  `yaml:"export"`
	Watch   WatchConfig   `yaml:"watch"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects the slot store backend.
type StorageConfig struct {
	Driver     string         `yaml:"driver" validate:"oneof=memory sqlite postgres mysql mongo"`
	DSN        string         `yaml:"dsn,omitempty"`
	Table      string         `yaml:"table,omitempty" validate:"omitempty,max=64"`
	Collection string         `yaml:"collection,omitempty"`
	Endpoint   EndpointConfig `yaml:"endpoint,omitempty"`
}

// EndpointConfig addresses a network database when no DSN is given.
type EndpointConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	// PasswordSecret names a secret-store entry used when Password is empty.
	PasswordSecret string `yaml:"password_secret,omitempty"`
	Database       string `yaml:"database,omitempty"`
	SSLMode        string `yaml:"sslmode,omitempty"`
}

type EditorConfig struct {
	OutputMode string `yaml:"output_mode" validate:"oneof=tailwind inline-styles css-classes"`
}

type HistoryConfig struct {
	MaxEntries int  `yaml:"max_entries" validate:"gte=0"`
	Persist    bool `yaml:"persist"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// ExportConfig drives the scheduled export. An empty schedule disables it.
type ExportConfig struct {
	Schedule string `yaml:"schedule,omitempty"`
	Path     string `yaml:"path,omitempty" validate:"required_with=Schedule"`
}

// WatchConfig names a JSON file to auto-import. Empty disables watching.
type WatchConfig struct {
	Path string `yaml:"path,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Driver:     storage.DriverSQLite,
			Table:      storage.DefaultTable,
			Collection: storage.DefaultCollection,
		},
		Editor:  EditorConfig{OutputMode: string(domain.OutputTailwind)},
		History: HistoryConfig{MaxEntries: 100, Persist: true},
		HTTP:    HTTPConfig{Addr: "127.0.0.1:8080"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pagebuilder")
	}
	return ".pagebuilder"
}

// DefaultPath returns where Load looks when PAGEBUILDER_CONFIG is unset.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "pagebuilder", "config.yaml")
}

// Load reads path (or the default location when path is empty), overlays
// the environment and validates the result. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv(EnvStorageDSN); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv(EnvPersistHist); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.History.Persist = b
		}
	}
}

var validate = validator.New()

// Validate checks the struct tags and returns one error naming every
// offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// OutputMode returns the configured default output mode.
func (c *Config) OutputMode() domain.OutputMode {
	if m, ok := domain.ParseOutputMode(c.Editor.OutputMode); ok {
		return m
	}
	return domain.OutputTailwind
}

// ResolveSecrets fills the endpoint password from store when the
// configuration names a secret instead of a literal password.
func (c *Config) ResolveSecrets(store secret.SecretStore) error {
	e := &c.Storage.Endpoint
	if e.Password != "" || e.PasswordSecret == "" {
		return nil
	}
	pw, err := secret.Resolve(store, e.PasswordSecret)
	if err != nil {
		return fmt.Errorf("storage password: %w", err)
	}
	e.Password = pw
	return nil
}

// StorageConfig converts the storage section for storage.Open.
func (c *Config) StorageConfig() storage.Config {
	e := c.Storage.Endpoint
	return storage.Config{
		Driver:     c.Storage.Driver,
		DSN:        c.Storage.DSN,
		DataDir:    c.DataDir,
		Table:      c.Storage.Table,
		Collection: c.Storage.Collection,
		Endpoint: storage.Endpoint{
			Host:     e.Host,
			Port:     e.Port,
			User:     e.User,
			Password: e.Password,
			Database: e.Database,
			SSLMode:  e.SSLMode,
		},
	}
}
