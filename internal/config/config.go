package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/opentalent/talentgraph/internal/search"
)

// DefaultMaxCandidates bounds the consultant scan a single search may load
// from the store.
const DefaultMaxCandidates = 10000

// Config holds all configuration for talentgraph.
type Config struct {
	Neo4j   Neo4jConfig    `mapstructure:"neo4j"`
	Scoring search.Weights `mapstructure:"scoring"`
	Search  SearchConfig   `mapstructure:"search"`
	Logging LoggingConfig  `mapstructure:"logging"`
	API     APIConfig      `mapstructure:"api"`
}

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// String returns a safe representation of Neo4jConfig with the password masked.
func (c Neo4jConfig) String() string {
	masked := "***"
	if c.Password == "" {
		masked = ""
	}
	return fmt.Sprintf("Neo4jConfig{URI:%s, Username:%s, Password:%s, Database:%s}",
		c.URI, c.Username, masked, c.Database)
}

// SearchConfig holds search engine settings.
type SearchConfig struct {
	MaxCandidates int `mapstructure:"max_candidates"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults. The scoring weights deliberately have none: search ranking
	// must be configured explicitly, and a missing weight is a startup error.
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.database", "neo4j")

	v.SetDefault("search.max_candidates", DefaultMaxCandidates)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".talentgraph"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("TALENTGRAPH")
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("neo4j.uri", "TALENTGRAPH_NEO4J_URI")
	_ = v.BindEnv("neo4j.username", "TALENTGRAPH_NEO4J_USERNAME")
	_ = v.BindEnv("neo4j.password", "TALENTGRAPH_NEO4J_PASSWORD")
	_ = v.BindEnv("scoring.skill_weight", "TALENTGRAPH_SCORING_SKILL_WEIGHT")
	_ = v.BindEnv("scoring.role_weight", "TALENTGRAPH_SCORING_ROLE_WEIGHT")
	_ = v.BindEnv("scoring.company_weight", "TALENTGRAPH_SCORING_COMPANY_WEIGHT")
	_ = v.BindEnv("api.listen_addr", "TALENTGRAPH_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "TALENTGRAPH_API_AUTH_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK — use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri must not be empty")
	}
	if c.Neo4j.Database == "" {
		return fmt.Errorf("neo4j.database must not be empty")
	}
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	if c.Search.MaxCandidates < 0 {
		return fmt.Errorf("search.max_candidates must be >= 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
