// In file: cmd/gateway/config.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PipelineConfig is the YAML-backed configuration for the query pipeline:
// which Gemini models back each tier and how long classification may take.
type PipelineConfig struct {
	// ClassifierModel backs the intent classification tier. A small, fast
	// model is the right choice here; the reply is one short line.
	ClassifierModel string `yaml:"classifier_model"`

	// ExplainerModel backs the explanation tier, where answer quality
	// matters more than latency.
	ExplainerModel string `yaml:"explainer_model"`

	// ClassifyTimeoutSeconds bounds one classification call. Zero means
	// the classifier's built-in default applies.
	ClassifyTimeoutSeconds int `yaml:"classify_timeout_seconds"`
}

// AppConfig holds all configuration for the gateway, loaded from the
// environment and config.yaml.
type AppConfig struct {
	GeminiAPIKey string
	RedisAddr    string
	Port         string
	Pipeline     *PipelineConfig
}

// ClassifyTimeout converts the configured classification bound to a
// duration. Zero lets the classifier apply its own default.
func (c *AppConfig) ClassifyTimeout() time.Duration {
	if c.Pipeline == nil || c.Pipeline.ClassifyTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Pipeline.ClassifyTimeoutSeconds) * time.Second
}

// LoadConfig loads all configuration from a .env file, environment
// variables, and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// Only attempt to load a .env file in local development. In Docker
	// (where GIN_MODE="release"), configuration is provided directly as
	// environment variables by the orchestrator.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		Port:         os.Getenv("PORT"),
		Pipeline:     &PipelineConfig{},
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	pipelineFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	if err := yaml.Unmarshal(pipelineFile, cfg.Pipeline); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
	}

	if cfg.Pipeline.ClassifierModel == "" {
		cfg.Pipeline.ClassifierModel = "gemini-1.5-flash"
	}
	if cfg.Pipeline.ExplainerModel == "" {
		cfg.Pipeline.ExplainerModel = "gemini-1.5-pro"
	}

	return cfg, nil
}
