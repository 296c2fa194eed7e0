package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the classifier tool.
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Train     TrainConfig     `yaml:"train"`
	Classify  ClassifyConfig  `yaml:"classify"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ModelConfig selects where models are kept.
type ModelConfig struct {
	Store string `yaml:"store"` // "bolt", "sqlite", "memory"
	Name  string `yaml:"name"`  // default model name
}

// TokenizerConfig holds tokenization policy. Changing it makes stored models
// stale.
type TokenizerConfig struct {
	Stemming  bool   `yaml:"stemming"`
	Language  string `yaml:"language"` // snowball language for stemming
	Stopwords bool   `yaml:"stopwords"`
	Normalize bool   `yaml:"normalize"` // NFC before splitting
}

// TrainConfig holds corpus training configuration.
type TrainConfig struct {
	Includes       []string `yaml:"includes"`
	Excludes       []string `yaml:"excludes"`
	HTMLExtensions []string `yaml:"html_extensions"`
}

// ClassifyConfig holds classification configuration.
type ClassifyConfig struct {
	Format    string        `yaml:"format"` // "log", "probability", "percentage"
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Store: "bolt",
			Name:  "default",
		},
		Tokenizer: TokenizerConfig{
			Stemming:  false,
			Language:  "english",
			Stopwords: false,
			Normalize: false,
		},
		Train: TrainConfig{
			Includes:       []string{"**/*.txt", "**/*.md", "**/*.html", "**/*.htm", "**/*.eml"},
			Excludes:       []string{"**/.git/**", "**/.bayes/**", "**/node_modules/**"},
			HTMLExtensions: []string{".html", ".htm"},
		},
		Classify: ClassifyConfig{
			Format:    "log",
			CacheSize: 256,
			CacheTTL:  5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for bayes.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "bayes.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".bayes", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ModelDBPath returns the path of the model database for a store driver.
func ModelDBPath(dir, store string) string {
	if store == "sqlite" {
		return filepath.Join(dir, ".bayes", "models.sqlite")
	}
	return filepath.Join(dir, ".bayes", "models.db")
}

// EnsureDataDir ensures the .bayes directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".bayes"), 0755)
}
