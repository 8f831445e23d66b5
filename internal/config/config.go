// Package config loads service configuration from built-in defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched, in order, when no explicit path is given.
var DefaultConfigPaths = []string{
	"toolbox.yaml",
	"toolbox.yml",
	"/etc/toolbox/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	CORS     CORSConfig     `koanf:"cors"`
	Logging  LoggingConfig  `koanf:"logging"`
	Registry RegistryConfig `koanf:"registry"`
	AI       AIConfig       `koanf:"ai"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// MaxBodyBytes caps request bodies; larger requests get 413.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"min=1024"`
	// MaxBatchCalls caps the number of calls in one batch request.
	MaxBatchCalls int `koanf:"max_batch_calls" validate:"min=1,max=1000"`
}

// Addr returns host:port for net/http.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// LoggingConfig mirrors logging.Config for the fields that come from configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// RegistryConfig controls tool execution limits.
type RegistryConfig struct {
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxConcurrency int           `koanf:"max_concurrency" validate:"min=0"`
}

// AIConfig configures the optional AI passthrough tools. An empty APIKey disables them.
type AIConfig struct {
	APIKey string `koanf:"api_key"`
	// LegacyAPIKey is read from EMERGENT_LLM_KEY and used when APIKey is empty.
	LegacyAPIKey string        `koanf:"legacy_api_key"`
	BaseURL      string        `koanf:"base_url" validate:"omitempty,url"`
	TextModel    string        `koanf:"text_model" validate:"required"`
	ImageModel   string        `koanf:"image_model" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
}

// Key returns the effective API key.
func (c AIConfig) Key() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.LegacyAPIKey
}

// Enabled reports whether an API key is configured.
func (c AIConfig) Enabled() bool { return c.Key() != "" }

// TracingConfig enables span recording. Finished spans are written to the log.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	SampleRatio float64 `koanf:"sample_ratio" validate:"gte=0,lte=1"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8001,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20,
			MaxBatchCalls:   100,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Registry: RegistryConfig{
			Timeout:        5 * time.Second,
			MaxConcurrency: 64,
		},
		AI: AIConfig{
			TextModel:  "gpt-4o-mini",
			ImageModel: "dall-e-3",
			Timeout:    60 * time.Second,
		},
		Tracing: TracingConfig{
			SampleRatio: 1,
		},
	}
}

// sliceConfigPaths are keys that may arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{"cors.allowed_origins"}

// Load builds the configuration. path may be empty, in which case CONFIG_PATH and
// DefaultConfigPaths are consulted; a missing default file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return nil, fmt.Errorf("config file %s: %w", path, err)
			}
		} else if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envMappings maps well-known environment variables to config keys.
var envMappings = map[string]string{
	"port":             "server.port",
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
	"cors_origins":     "cors.allowed_origins",
	"openai_api_key":   "ai.api_key",
	"openai_base_url":  "ai.base_url",
	"emergent_llm_key": "ai.legacy_api_key",
}

var sections = map[string]bool{"server": true, "cors": true, "logging": true, "registry": true, "ai": true, "tracing": true}

// envTransformFunc maps an environment variable name to a koanf key.
// Besides envMappings, TOOLBOX_<SECTION>_<FIELD> addresses any field, e.g.
// TOOLBOX_SERVER_READ_TIMEOUT -> server.read_timeout. Other variables are skipped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	rest, ok := strings.CutPrefix(key, "toolbox_")
	if !ok {
		return ""
	}
	section, field, ok := strings.Cut(rest, "_")
	if !ok || !sections[section] || field == "" {
		return ""
	}
	return section + "." + field
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks value ranges declared in struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}
