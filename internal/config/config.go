// Package config loads the hazsearch configuration: a YAML file with
// environment-variable overrides taking highest priority.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	hazerrors "github.com/hazmatiq/hazsearch/internal/errors"
)

// CorpusFormat selects the corpus loader.
type CorpusFormat string

const (
	// FormatJSON loads a JSON array of documents.
	FormatJSON CorpusFormat = "json"
	// FormatSQLite loads a documents table from a SQLite database.
	FormatSQLite CorpusFormat = "sqlite"
)

// Config is the complete hazsearch configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Search  SearchConfig  `yaml:"search"`
	Rerank  RerankConfig  `yaml:"rerank"`
	Logging LoggingConfig `yaml:"logging"`
}

// CorpusConfig locates the corpus produced by the ingestion pipeline.
type CorpusConfig struct {
	// Path is the corpus file (JSON array or SQLite database).
	Path string `yaml:"path"`

	// Format selects the loader. Default: json.
	Format CorpusFormat `yaml:"format"`

	// Watch rebuilds the snapshot when the corpus file changes.
	Watch bool `yaml:"watch"`
}

// SearchConfig tunes the hybrid retrieval stage.
// Env overrides: HAZSEARCH_SEMANTIC_WEIGHT, HAZSEARCH_KEYWORD_WEIGHT,
// HAZSEARCH_MIN_SCORE.
type SearchConfig struct {
	// SemanticWeight and KeywordWeight must sum to 1.0.
	SemanticWeight float64 `yaml:"semantic_weight"`
	KeywordWeight  float64 `yaml:"keyword_weight"`

	// MinScore drops hybrid results below it.
	MinScore float64 `yaml:"min_score"`

	// Limit caps hybrid stage candidates.
	Limit int `yaml:"limit"`
}

// RerankConfig tunes the second-stage reranker.
// Env overrides: HAZSEARCH_RERANK_THRESHOLD, HAZSEARCH_LEARNING_RATE.
type RerankConfig struct {
	TopK         int     `yaml:"top_k"`
	Threshold    float64 `yaml:"threshold"`
	LearningRate float64 `yaml:"learning_rate"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
	Stderr   bool   `yaml:"stderr"`
}

// Default returns the defaults the pipeline was calibrated with.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{Format: FormatJSON},
		Search: SearchConfig{
			SemanticWeight: 0.7,
			KeywordWeight:  0.3,
			MinScore:       0.2,
			Limit:          10,
		},
		Rerank: RerankConfig{
			TopK:         10,
			Threshold:    0.3,
			LearningRate: 0.1,
		},
		Logging: LoggingConfig{Level: "info", Stderr: true},
	}
}

// Load reads a config file over the defaults and applies env overrides.
// An empty path skips the file and uses defaults + env.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, hazerrors.Wrap(hazerrors.CodeConfig, "read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, hazerrors.Wrap(hazerrors.CodeConfig, "parse config YAML", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the pipeline relies on.
func (c *Config) Validate() error {
	if c.Search.SemanticWeight < 0 || c.Search.KeywordWeight < 0 {
		return hazerrors.New(hazerrors.CodeConfig, "search weights must be non-negative")
	}
	if sum := c.Search.SemanticWeight + c.Search.KeywordWeight; math.Abs(sum-1.0) > 0.001 {
		return hazerrors.New(hazerrors.CodeConfig,
			fmt.Sprintf("search weights must sum to 1.0, got %.3f", sum))
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		return hazerrors.New(hazerrors.CodeConfig, "min_score must be in [0,1]")
	}
	if c.Rerank.Threshold < 0 || c.Rerank.Threshold > 1 {
		return hazerrors.New(hazerrors.CodeConfig, "rerank threshold must be in [0,1]")
	}
	if c.Rerank.LearningRate <= 0 || c.Rerank.LearningRate > 1 {
		return hazerrors.New(hazerrors.CodeConfig, "learning_rate must be in (0,1]")
	}
	switch c.Corpus.Format {
	case FormatJSON, FormatSQLite, "":
	default:
		return hazerrors.New(hazerrors.CodeConfig,
			fmt.Sprintf("unknown corpus format %q", c.Corpus.Format))
	}
	return nil
}

// applyEnv applies HAZSEARCH_* environment overrides.
func applyEnv(cfg *Config) {
	setFloat := func(key string, dst *float64) {
		if v, ok := os.LookupEnv(key); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	setFloat("HAZSEARCH_SEMANTIC_WEIGHT", &cfg.Search.SemanticWeight)
	setFloat("HAZSEARCH_KEYWORD_WEIGHT", &cfg.Search.KeywordWeight)
	setFloat("HAZSEARCH_MIN_SCORE", &cfg.Search.MinScore)
	setFloat("HAZSEARCH_RERANK_THRESHOLD", &cfg.Rerank.Threshold)
	setFloat("HAZSEARCH_LEARNING_RATE", &cfg.Rerank.LearningRate)

	if v, ok := os.LookupEnv("HAZSEARCH_CORPUS_PATH"); ok {
		cfg.Corpus.Path = v
	}
	if v, ok := os.LookupEnv("HAZSEARCH_LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
}
