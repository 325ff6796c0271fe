package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds model and timeout settings for the analysis service.
type AnthropicConfig struct {
	Key                 string `yaml:"key" mapstructure:"key"`
	PrimaryModel        string `yaml:"primary_model" mapstructure:"primary_model"`
	FallbackModel       string `yaml:"fallback_model" mapstructure:"fallback_model"`
	MaxTokens           int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	PrimaryTimeoutSecs  int    `yaml:"primary_timeout_secs" mapstructure:"primary_timeout_secs"`
	FallbackTimeoutSecs int    `yaml:"fallback_timeout_secs" mapstructure:"fallback_timeout_secs"`
	MaxAttempts         int    `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// PrimaryTimeout returns the primary-tier deadline as a duration.
func (c AnthropicConfig) PrimaryTimeout() time.Duration {
	return time.Duration(c.PrimaryTimeoutSecs) * time.Second
}

// FallbackTimeout returns the secondary-tier deadline as a duration.
func (c AnthropicConfig) FallbackTimeout() time.Duration {
	return time.Duration(c.FallbackTimeoutSecs) * time.Second
}

// PipelineConfig configures analysis behavior.
type PipelineConfig struct {
	MinTextLength      int    `yaml:"min_text_length" mapstructure:"min_text_length"`
	TopUpFloor         int    `yaml:"topup_floor" mapstructure:"topup_floor"`
	ScoreCeiling       int    `yaml:"score_ceiling" mapstructure:"score_ceiling"`
	TemplatesFile      string `yaml:"templates_file" mapstructure:"templates_file"`
	MandatoryTopicFile string `yaml:"mandatory_topics_file" mapstructure:"mandatory_topics_file"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrent int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONTRACTAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "contractai.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.primary_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.fallback_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("anthropic.primary_timeout_secs", 300)
	v.SetDefault("anthropic.fallback_timeout_secs", 120)
	v.SetDefault("anthropic.max_attempts", 3)
	v.SetDefault("pipeline.min_text_length", 100)
	v.SetDefault("pipeline.topup_floor", 10)
	v.SetDefault("pipeline.score_ceiling", 98)
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("batch.rate_per_sec", 1.0)

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
