// Package config loads application configuration from file, environment, and
// defaults, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Import   ImportConfig   `yaml:"import" mapstructure:"import"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DefaultsConfig holds attribute values assigned to points created without
// explicit attributes (map-drawn markers, sparse rows).
type DefaultsConfig struct {
	TransportRate float64 `yaml:"transport_rate" mapstructure:"transport_rate"`
	Mass          float64 `yaml:"mass" mapstructure:"mass"`
	Criterion     float64 `yaml:"criterion" mapstructure:"criterion"`
}

// MapConfig holds map presentation defaults.
type MapConfig struct {
	CenterLon float64 `yaml:"center_lon" mapstructure:"center_lon"`
	CenterLat float64 `yaml:"center_lat" mapstructure:"center_lat"`
	Zoom      int     `yaml:"zoom" mapstructure:"zoom"`
}

// ImportConfig configures the tabular import adapter.
type ImportConfig struct {
	Delimiter     string  `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding      string  `yaml:"encoding" mapstructure:"encoding"`
	HTTPTimeout   int     `yaml:"http_timeout_secs" mapstructure:"http_timeout_secs"`
	HTTPRateLimit float64 `yaml:"http_rate_limit" mapstructure:"http_rate_limit"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	SessionTTLMins int      `yaml:"session_ttl_mins" mapstructure:"session_ttl_mins"`
}

// BatchConfig configures multi-file batch runs.
type BatchConfig struct {
	MaxConcurrentFiles int `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml (optional), FACILITY_* environment
// variables, and built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FACILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("defaults.transport_rate", 1.0)
	v.SetDefault("defaults.mass", 1.0)
	v.SetDefault("defaults.criterion", 1.0)
	v.SetDefault("map.center_lon", 21.0122) // Warsaw
	v.SetDefault("map.center_lat", 52.2297)
	v.SetDefault("map.zoom", 11)
	v.SetDefault("import.delimiter", ",")
	v.SetDefault("import.encoding", "utf-8")
	v.SetDefault("import.http_timeout_secs", 30)
	v.SetDefault("import.http_rate_limit", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.session_ttl_mins", 120)
	v.SetDefault("batch.max_concurrent_files", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
