package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Store != "bolt" {
		t.Errorf("expected Store=bolt, got %s", cfg.Model.Store)
	}
	if cfg.Model.Name != "default" {
		t.Errorf("expected Name=default, got %s", cfg.Model.Name)
	}
	if cfg.Tokenizer.Stemming {
		t.Error("expected stemming to be off by default")
	}
	if cfg.Classify.Format != "log" {
		t.Errorf("expected Format=log, got %s", cfg.Classify.Format)
	}
	if cfg.Classify.CacheTTL != 5*time.Minute {
		t.Errorf("expected CacheTTL=5m, got %s", cfg.Classify.CacheTTL)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bayes.yaml")

	content := `
model:
  store: sqlite
  name: sentiment
tokenizer:
  stemming: true
  language: spanish
classify:
  format: percentage
  cache_ttl: 30s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.Store != "sqlite" {
		t.Errorf("expected Store=sqlite, got %s", cfg.Model.Store)
	}
	if cfg.Model.Name != "sentiment" {
		t.Errorf("expected Name=sentiment, got %s", cfg.Model.Name)
	}
	if !cfg.Tokenizer.Stemming || cfg.Tokenizer.Language != "spanish" {
		t.Errorf("expected spanish stemming, got %+v", cfg.Tokenizer)
	}
	if cfg.Classify.Format != "percentage" {
		t.Errorf("expected Format=percentage, got %s", cfg.Classify.Format)
	}
	if cfg.Classify.CacheTTL != 30*time.Second {
		t.Errorf("expected CacheTTL=30s, got %s", cfg.Classify.CacheTTL)
	}
	// untouched sections keep their defaults
	if cfg.Classify.CacheSize != 256 {
		t.Errorf("expected CacheSize=256, got %d", cfg.Classify.CacheSize)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bayes.yaml")
	if err := os.WriteFile(configPath, []byte("model: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}

	content := `
model:
  name: languages
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".bayes", "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.Name != "languages" {
		t.Errorf("expected Name=languages, got %s", cfg.Model.Name)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bayes.yaml")

	cfg := DefaultConfig()
	cfg.Tokenizer.Stopwords = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loaded.Tokenizer.Stopwords {
		t.Error("expected Stopwords=true after save and load")
	}
}

func TestModelDBPath(t *testing.T) {
	path := ModelDBPath("/home/user/project", "bolt")
	expected := filepath.Join("/home/user/project", ".bayes", "models.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}

	path = ModelDBPath("/home/user/project", "sqlite")
	expected = filepath.Join("/home/user/project", ".bayes", "models.sqlite")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
