package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ericogr/creature-arena/internal/constants"
)

// ReasoningConfig configures the external reasoning service client.
type ReasoningConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"baseUrl"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Auth      string        `mapstructure:"auth"`
	APIKeyEnv string        `mapstructure:"apiKeyEnv"`
	MaxTokens int           `mapstructure:"maxTokens"`
}

// DifficultyProfile tunes an AI level. SkipProbability is the chance of
// skipping the reasoning service in favour of the rule-based decision.
type DifficultyProfile struct {
	SkipProbability float64 `mapstructure:"skipProbability"`
	Persona         string  `mapstructure:"persona"`
}

// RuleConfig is one fallback heuristic rule.
type RuleConfig struct {
	Name      string `mapstructure:"name"`
	Priority  int    `mapstructure:"priority"`
	Condition string `mapstructure:"condition"`
}

type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	Server   struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	Database struct {
		// Driver is "sqlite" (Path is the database file) or "postgres"
		// (DSN is the connection string).
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Catalog struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`
	Reasoning  ReasoningConfig `mapstructure:"reasoning"`
	Difficulty struct {
		Default  string                       `mapstructure:"default"`
		Profiles map[string]DifficultyProfile `mapstructure:"profiles"`
	} `mapstructure:"difficulty"`
	Fallback struct {
		Rules []RuleConfig `mapstructure:"rules"`
	} `mapstructure:"fallback"`
	History struct {
		Size int `mapstructure:"size"`
	} `mapstructure:"history"`
	Session struct {
		// IdleTimeout forfeits in-progress battles nobody played for this
		// long. Zero disables the sweep.
		IdleTimeout time.Duration `mapstructure:"idleTimeout"`
	} `mapstructure:"session"`
}

// Profile returns the named difficulty profile (case-insensitive).
func (c *Config) Profile(name string) (DifficultyProfile, bool) {
	p, ok := c.Difficulty.Profiles[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", constants.DriverSQLite)
	v.SetDefault("database.path", "./data/arena.db")
	v.SetDefault("catalog.path", "./data/catalog.json")

	v.SetDefault("reasoning.enabled", true)
	v.SetDefault("reasoning.baseUrl", constants.OpenAIBaseURL)
	v.SetDefault("reasoning.model", constants.OpenAIChatModel)
	v.SetDefault("reasoning.timeout", constants.DefaultReasoningTimeout)
	v.SetDefault("reasoning.auth", constants.AuthBearer)
	v.SetDefault("reasoning.apiKeyEnv", constants.EnvOpenAIAPIKey)
	v.SetDefault("reasoning.maxTokens", 400)

	v.SetDefault("difficulty.default", "normal")
	v.SetDefault("difficulty.profiles.easy.skipProbability", 0.7)
	v.SetDefault("difficulty.profiles.easy.persona", "a beginner trainer who often picks moves on a whim")
	v.SetDefault("difficulty.profiles.normal.skipProbability", 0.3)
	v.SetDefault("difficulty.profiles.normal.persona", "a competent trainer who considers type matchups")
	v.SetDefault("difficulty.profiles.hard.skipProbability", 0.0)
	v.SetDefault("difficulty.profiles.hard.persona", "an expert trainer who plays to win every turn")

	v.SetDefault("history.size", constants.DefaultHistorySize)
	v.SetDefault("session.idleTimeout", constants.DefaultIdleTimeout)
}

// Load reads arena_config.json from configDir, applies defaults and ARENA_*
// environment overrides, and validates the result. A missing file is not an
// error; defaults are used.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(constants.ConfigFileName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(constants.EnvEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", constants.ConfigFileName, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Reasoning.Auth {
	case constants.AuthBearer, constants.AuthGoogle, constants.AuthNone:
	default:
		return fmt.Errorf("unknown reasoning.auth '%s'", c.Reasoning.Auth)
	}
	switch c.Database.Driver {
	case constants.DriverSQLite:
	case constants.DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database.driver '%s'", c.Database.Driver)
	}
	if c.Reasoning.Timeout <= 0 {
		return errors.New("reasoning.timeout must be positive")
	}
	if len(c.Difficulty.Profiles) == 0 {
		return errors.New("difficulty.profiles is empty")
	}
	for name, p := range c.Difficulty.Profiles {
		if p.SkipProbability < 0 || p.SkipProbability > 1 {
			return fmt.Errorf("difficulty '%s': skipProbability must be within [0,1]", name)
		}
	}
	if _, ok := c.Profile(c.Difficulty.Default); !ok {
		return fmt.Errorf("difficulty.default '%s' has no profile", c.Difficulty.Default)
	}
	seen := make(map[string]struct{}, len(c.Fallback.Rules))
	for _, r := range c.Fallback.Rules {
		if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Condition) == "" {
			return errors.New("fallback rule missing 'name' or 'condition'")
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("duplicate fallback rule '%s'", r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	if c.History.Size < 0 {
		return errors.New("history.size must not be negative")
	}
	if c.Session.IdleTimeout < 0 {
		return errors.New("session.idleTimeout must not be negative")
	}
	return nil
}
