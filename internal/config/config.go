// Package config loads and merges prrev configuration from defaults,
// an optional YAML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/review"
)

// Config is the full prrev configuration.
type Config struct {
	AI        AIConfig                  `yaml:"ai"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Scoring   ScoringConfig             `yaml:"scoring"`
	Review    ReviewConfig              `yaml:"review"`
	Server    ServerConfig              `yaml:"server"`
}

// AIConfig configures the completion backend.
type AIConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Provider       string  `yaml:"provider"` // openai, anthropic
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"` // per-file call timeout
	Concurrency    int     `yaml:"concurrency"`     // parallel file analyses
}

// ProviderConfig configures one git hosting provider.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// ScoringConfig carries the scoring policy in file-friendly form.
// Keys are severity/category names; unknown names are ignored.
type ScoringConfig struct {
	SeverityPenalties  map[string]float64 `yaml:"severity_penalties"`
	CategoryWeights    map[string]float64 `yaml:"category_weights"`
	GradeThresholds    map[string]float64 `yaml:"grade_thresholds"` // excellent, good, fair
	MaxPriorityActions int                `yaml:"max_priority_actions"`
	MaxKeyIssues       int                `yaml:"max_key_issues"`
}

// ReviewConfig controls posting results back to the provider.
type ReviewConfig struct {
	PostReviews    bool `yaml:"post_reviews"`
	InlineComments bool `yaml:"inline_comments"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		AI: AIConfig{
			Enabled:        true,
			Provider:       "anthropic",
			Model:          "claude-sonnet-4-20250514",
			MaxTokens:      4096,
			Temperature:    0.3,
			TimeoutSeconds: 60,
			Concurrency:    4,
		},
		Providers: map[string]ProviderConfig{
			"github":    {BaseURL: "https://api.github.com"},
			"gitlab":    {BaseURL: "https://gitlab.com/api/v4"},
			"bitbucket": {BaseURL: "https://api.bitbucket.org/2.0"},
		},
		Review: ReviewConfig{
			PostReviews:    false,
			InlineComments: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1",
			Port: 6180,
		},
	}
}

// Load builds the effective config: defaults <- file (if path is
// non-empty) <- environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	mergeEnv(&cfg)
	return cfg, nil
}

// DefaultPath is where LoadOrDefault looks for a config file.
const DefaultPath = ".prrev.yaml"

// LoadOrDefault loads an explicit config path, or DefaultPath when it
// exists, or just defaults plus environment.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	return Load(path)
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("PRREV_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("PRREV_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("PRREV_AI_DISABLED"); v == "1" || v == "true" {
		cfg.AI.Enabled = false
	}
	if v := os.Getenv("PRREV_AI_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AI.TimeoutSeconds = n
		}
	}

	// Backend keys follow the conventional variable names.
	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case "openai":
			cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	for name, pc := range cfg.Providers {
		if pc.Token == "" {
			switch name {
			case "github":
				pc.Token = os.Getenv("GITHUB_TOKEN")
			case "gitlab":
				pc.Token = os.Getenv("GITLAB_TOKEN")
			case "bitbucket":
				pc.Token = os.Getenv("BITBUCKET_TOKEN")
			}
			cfg.Providers[name] = pc
		}
	}
}

// Policy converts the scoring section into the typed policy the
// review engine consumes. Unset knobs keep their defaults; unknown
// severity or category names are dropped.
func (c Config) Policy() review.Policy {
	pol := review.DefaultPolicy()

	for name, penalty := range c.Scoring.SeverityPenalties {
		sev := model.ParseSeverity(name)
		if sev.String() == strings.ToLower(name) {
			pol.SeverityPenalties[sev] = penalty
		}
	}
	if len(c.Scoring.CategoryWeights) > 0 {
		weights := make(map[model.Category]float64)
		for name, w := range c.Scoring.CategoryWeights {
			cat := model.ParseCategory(name)
			if cat != model.CategoryOther {
				weights[cat] = w
			}
		}
		if len(weights) > 0 {
			pol.CategoryWeights = weights
		}
	}
	if v, ok := c.Scoring.GradeThresholds["excellent"]; ok {
		pol.GradeThresholds.Excellent = v
	}
	if v, ok := c.Scoring.GradeThresholds["good"]; ok {
		pol.GradeThresholds.Good = v
	}
	if v, ok := c.Scoring.GradeThresholds["fair"]; ok {
		pol.GradeThresholds.Fair = v
	}
	if c.Scoring.MaxPriorityActions > 0 {
		pol.MaxPriorityActions = c.Scoring.MaxPriorityActions
	}
	if c.Scoring.MaxKeyIssues > 0 {
		pol.MaxKeyIssues = c.Scoring.MaxKeyIssues
	}

	return pol
}
