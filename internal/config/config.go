package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"dockside/internal/paths"
)

// CurrentVersion is the config schema version this build understands.
const CurrentVersion = 1

// Config represents the complete dockside configuration
type Config struct {
	Version int `json:"version" toml:"version" mapstructure:"version"`

	// BaseDir anchors every relative path. It comes from the CLI, never the file.
	BaseDir string `json:"-" toml:"-" mapstructure:"-"`

	Server  ServerConfig  `json:"server" toml:"server" mapstructure:"server"`
	Content ContentConfig `json:"content" toml:"content" mapstructure:"content"`
	Data    DataConfig    `json:"data" toml:"data" mapstructure:"data"`
	Logging LoggingConfig `json:"logging" toml:"logging" mapstructure:"logging"`
}

// ServerConfig contains listener and request limits
type ServerConfig struct {
	Host           string `json:"host" toml:"host" mapstructure:"host"`
	Port           int    `json:"port" toml:"port" mapstructure:"port"`
	ReadTimeoutMs  int    `json:"readTimeoutMs" toml:"readTimeoutMs" mapstructure:"readTimeoutMs"`
	WriteTimeoutMs int    `json:"writeTimeoutMs" toml:"writeTimeoutMs" mapstructure:"writeTimeoutMs"`
	MaxHeaderBytes int    `json:"maxHeaderBytes" toml:"maxHeaderBytes" mapstructure:"maxHeaderBytes"`
	MaxBodyBytes   int    `json:"maxBodyBytes" toml:"maxBodyBytes" mapstructure:"maxBodyBytes"`
}

// ContentConfig locates the static content root
type ContentConfig struct {
	// PublicPath overrides <baseDir>/public
	PublicPath string `json:"publicPath" toml:"publicPath" mapstructure:"publicPath"`
}

// DataConfig locates the backing orders data source. Driver is "file" or
// "sqlite"; Path overrides <baseDir>/data.
type DataConfig struct {
	Driver     string `json:"driver" toml:"driver" mapstructure:"driver"`
	Path       string `json:"path" toml:"path" mapstructure:"path"`
	File       string `json:"file" toml:"file" mapstructure:"file"`
	SQLiteFile string `json:"sqliteFile" toml:"sqliteFile" mapstructure:"sqliteFile"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format     string `json:"format" toml:"format" mapstructure:"format"`
	Level      string `json:"level" toml:"level" mapstructure:"level"`
	File       string `json:"file" toml:"file" mapstructure:"file"`
	MaxSize    string `json:"maxSize" toml:"maxSize" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups" toml:"maxBackups" mapstructure:"maxBackups"`
	Compress   bool   `json:"compress" toml:"compress" mapstructure:"compress"`
}

// Data drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		BaseDir: ".",
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           3000,
			ReadTimeoutMs:  10000,
			WriteTimeoutMs: 10000,
			MaxHeaderBytes: 8 << 10,
			MaxBodyBytes:   1 << 20,
		},
		Data: DataConfig{
			Driver:     DriverFile,
			File:       "orders.json",
			SQLiteFile: "orders.db",
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "info",
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
	}
}

// envVarMappings maps environment variables to config keys. Where several
// variables feed one key the first listed takes precedence.
var envVarMappings = map[string][]string{
	"server.host":        {"DOCKSIDE_HOST"},
	"server.port":        {"DOCKSIDE_PORT"},
	"content.publicPath": {"DOCKSIDE_PUBLIC_PATH", "PUBLIC_PATH"},
	"data.path":          {"DOCKSIDE_DATA_PATH", "DATA_PATH"},
	"data.driver":        {"DOCKSIDE_DATA_DRIVER"},
	"data.file":          {"DOCKSIDE_DATA_FILE"},
	"logging.level":      {"DOCKSIDE_LOG_LEVEL"},
	"logging.format":     {"DOCKSIDE_LOG_FORMAT"},
	"logging.file":       {"DOCKSIDE_LOG_FILE"},
}

// EnvOverride records an environment variable that changed a config key.
type EnvOverride struct {
	EnvVar string
	Key    string
	Value  string
}

// LoadResult describes where a configuration came from.
type LoadResult struct {
	Config       *Config
	ConfigPath   string // empty when defaults were used
	UsedDefaults bool
	EnvOverrides []EnvOverride
}

// LoadConfig loads configuration from <baseDir>/.dockside/config.{toml,json,yaml}
func LoadConfig(baseDir string) (*Config, error) {
	result, err := LoadConfigWithDetails(baseDir)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadConfigWithDetails loads configuration and reports its provenance.
func LoadConfigWithDetails(baseDir string) (*LoadResult, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(absBase, paths.ConfigDir))

	result := &LoadResult{}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		result.UsedDefaults = true
	} else {
		result.ConfigPath = v.ConfigFileUsed()
	}

	for _, key := range sortedKeys(envVarMappings) {
		envVars := envVarMappings[key]
		args := append([]string{key}, envVars...)
		if err := v.BindEnv(args...); err != nil {
			return nil, err
		}
		for _, envVar := range envVars {
			if value := os.Getenv(envVar); value != "" {
				result.EnvOverrides = append(result.EnvOverrides, EnvOverride{EnvVar: envVar, Key: key, Value: value})
				break
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.BaseDir = absBase

	result.Config = &cfg
	return result, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.readTimeoutMs", d.Server.ReadTimeoutMs)
	v.SetDefault("server.writeTimeoutMs", d.Server.WriteTimeoutMs)
	v.SetDefault("server.maxHeaderBytes", d.Server.MaxHeaderBytes)
	v.SetDefault("server.maxBodyBytes", d.Server.MaxBodyBytes)
	v.SetDefault("content.publicPath", d.Content.PublicPath)
	v.SetDefault("data.driver", d.Data.Driver)
	v.SetDefault("data.path", d.Data.Path)
	v.SetDefault("data.file", d.Data.File)
	v.SetDefault("data.sqliteFile", d.Data.SQLiteFile)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
	v.SetDefault("logging.compress", d.Logging.Compress)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetSupportedEnvVars returns every environment variable LoadConfig honors.
func GetSupportedEnvVars() []string {
	var vars []string
	for _, key := range sortedKeys(envVarMappings) {
		vars = append(vars, envVarMappings[key]...)
	}
	return vars
}

// ConfigPath returns the path Save writes to.
func ConfigPath(baseDir string) string {
	return filepath.Join(baseDir, paths.ConfigDir, "config.toml")
}

// Save writes the configuration to <baseDir>/.dockside/config.toml
func (c *Config) Save(baseDir string) error {
	configPath := ConfigPath(baseDir)
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version " + strconv.Itoa(c.Version)}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 0 and 65535"}
	}
	switch c.Data.Driver {
	case DriverFile:
		if c.Data.File == "" {
			return &ConfigError{Field: "data.file", Message: "required for the file driver"}
		}
	case DriverSQLite:
		if c.Data.SQLiteFile == "" {
			return &ConfigError{Field: "data.sqliteFile", Message: "required for the sqlite driver"}
		}
	default:
		return &ConfigError{Field: "data.driver", Message: "must be \"file\" or \"sqlite\""}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be \"human\" or \"json\""}
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// PublicDir returns the static content root.
func (c *Config) PublicDir() string {
	return paths.ResolveDir(c.BaseDir, c.Content.PublicPath, paths.DefaultPublicDir)
}

// DataDir returns the directory holding the orders data source.
func (c *Config) DataDir() string {
	return paths.ResolveDir(c.BaseDir, c.Data.Path, paths.DefaultDataDir)
}

// DataFile returns the orders file used by the file driver.
func (c *Config) DataFile() string {
	return filepath.Join(c.DataDir(), c.Data.File)
}

// SQLitePath returns the orders database used by the sqlite driver.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir(), c.Data.SQLiteFile)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
