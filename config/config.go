package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"` // "debug" or "release"
	} `yaml:"server"`
	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	OpenAI struct {
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"openai"`
	CustomModel struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"custom_model"`
	MistralModel struct {
		URL               string `yaml:"url"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
	} `yaml:"mistral_model"`
	Stream struct {
		WordDelayMs int `yaml:"word_delay_ms"`
	} `yaml:"stream"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
}

// GlobalConfig is the global configuration instance
var GlobalConfig Config

// DSN generates the PostgreSQL DSN from database config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

// TokenTTL returns the lifetime of issued auth tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// CustomModelTimeout returns the request timeout for the local fine-tuned
// model service.
func (c *Config) CustomModelTimeout() time.Duration {
	return time.Duration(c.CustomModel.TimeoutSeconds) * time.Second
}

// MistralModelTimeout returns the request timeout for the local Mistral
// model service.
func (c *Config) MistralModelTimeout() time.Duration {
	return time.Duration(c.MistralModel.TimeoutSeconds) * time.Second
}

// MistralRetryDelay returns the pause before the single network-error retry.
func (c *Config) MistralRetryDelay() time.Duration {
	return time.Duration(c.MistralModel.RetryDelaySeconds) * time.Second
}

// WordDelay returns the inter-chunk delay for streamed responses.
func (c *Config) WordDelay() time.Duration {
	return time.Duration(c.Stream.WordDelayMs) * time.Millisecond
}

// LoadConfig reads and parses the YAML configuration file into GlobalConfig.
// Secrets may be overridden from the environment (OPENAI_API_KEY, JWT_SECRET,
// CUSTOM_MODEL_URL, MISTRAL_MODEL_URL).
func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
		return err
	}

	applyEnvOverrides(&GlobalConfig)
	applyDefaults(&GlobalConfig)

	return validate(&GlobalConfig)
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("CUSTOM_MODEL_URL"); v != "" {
		c.CustomModel.URL = v
	}
	if v := os.Getenv("MISTRAL_MODEL_URL"); v != "" {
		c.MistralModel.URL = v
	}
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 1000
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.CustomModel.URL == "" {
		c.CustomModel.URL = "http://localhost:8000/chat"
	}
	if c.CustomModel.TimeoutSeconds == 0 {
		c.CustomModel.TimeoutSeconds = 30
	}
	if c.MistralModel.URL == "" {
		c.MistralModel.URL = "http://localhost:8002/chat"
	}
	if c.MistralModel.TimeoutSeconds == 0 {
		c.MistralModel.TimeoutSeconds = 120
	}
	if c.MistralModel.RetryDelaySeconds == 0 {
		c.MistralModel.RetryDelaySeconds = 2
	}
	if c.Stream.WordDelayMs == 0 {
		c.Stream.WordDelayMs = 50
	}
}

func validate(c *Config) error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.SSLMode == "" {
		return fmt.Errorf("database.sslmode is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}
