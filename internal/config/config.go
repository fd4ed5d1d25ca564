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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Ninjas    NinjasConfig    `yaml:"ninjas" mapstructure:"ninjas"`
	Ontology  OntologyConfig  `yaml:"ontology" mapstructure:"ontology"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds scoring model settings.
type AnthropicConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	Model           string  `yaml:"model" mapstructure:"model"`
	MaxTokens       int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxParseRetries int     `yaml:"max_parse_retries" mapstructure:"max_parse_retries"`
}

// NinjasConfig holds API Ninjas earnings endpoints and key.
type NinjasConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	CalendarURL       string  `yaml:"calendar_url" mapstructure:"calendar_url"`
	TranscriptURL     string  `yaml:"transcript_url" mapstructure:"transcript_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	WindowDays        int     `yaml:"window_days" mapstructure:"window_days"`
}

// OntologyConfig locates the tone ontology file.
type OntologyConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DataConfig locates local transcript storage.
type DataConfig struct {
	TranscriptsDir string `yaml:"transcripts_dir" mapstructure:"transcripts_dir"`
}

// BatchConfig configures batch transcript processing.
type BatchConfig struct {
	MaxConcurrentTranscripts int `yaml:"max_concurrent_transcripts" mapstructure:"max_concurrent_transcripts"`
}

// ServerConfig configures the read-only HTTP API.
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
	v.SetEnvPrefix("TONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "tone.db")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("anthropic.temperature", 0.2)
	v.SetDefault("anthropic.max_parse_retries", 2)
	v.SetDefault("ninjas.calendar_url", "https://api.api-ninjas.com/v1/earningscalendar")
	v.SetDefault("ninjas.transcript_url", "https://api.api-ninjas.com/v1/earningstranscript")
	v.SetDefault("ninjas.requests_per_second", 1.0)
	v.SetDefault("ninjas.window_days", 7)
	v.SetDefault("ontology.path", "ontology/tone_ontology_v1.yaml")
	v.SetDefault("data.transcripts_dir", "data/transcripts")
	v.SetDefault("batch.max_concurrent_transcripts", 4)
	v.SetDefault("server.port", 8080)
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
