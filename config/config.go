// Package config holds the yaml application configuration selecting the
// chunker, embedder, store, and registry backends.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HugotEmbedderConfig holds configuration for the local ONNX embedder.
type HugotEmbedderConfig struct {
	ModelName    string `yaml:"model_name"`
	OnnxFilePath string `yaml:"onnx_file_path"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type"`
	Dimension int                   `yaml:"dimension"`
	Hugot     *HugotEmbedderConfig  `yaml:"hugot,omitempty"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize        int  `yaml:"chunk_size"`
	Overlap          int  `yaml:"overlap"`
	SplitBySentence  bool `yaml:"split_by_sentence"`
	SplitByParagraph bool `yaml:"split_by_paragraph"`
}

// StoreConfig selects the vector store implementation.
type StoreConfig struct {
	Type string `yaml:"type"`
}

// RegistryConfig selects the database registry backend.
type RegistryConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder EmbedderConfig `yaml:"embedder"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Store    StoreConfig    `yaml:"store"`
	Registry RegistryConfig `yaml:"registry"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Embedder: EmbedderConfig{
			Type:      "hugot",
			Dimension: 384,
			Hugot: &HugotEmbedderConfig{
				ModelName:    "sentence-transformers/all-MiniLM-L6-v2",
				OnnxFilePath: "onnx/model.onnx",
			},
		},
		Chunker:  ChunkerConfig{ChunkSize: 500, Overlap: 50},
		Store:    StoreConfig{Type: "memory"},
		Registry: RegistryConfig{Type: "memory"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 500
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 384
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
	if cfg.Registry.Type == "" {
		cfg.Registry.Type = "memory"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
	}
}
